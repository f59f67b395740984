// Package lazy loads a value on first use and shares it afterwards.
package lazy

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

const key = "load"

// Loader memoizes the first successful result of load. Callers that arrive
// while a load is running join it instead of starting another. A load, once
// started, runs to completion even if every waiter gives up.
type Loader[T any] struct {
	load  func(context.Context) (T, error)
	group singleflight.Group

	mu      sync.Mutex
	done    bool
	loading bool
	val     T
	loads   int
}

func New[T any](load func(context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{load: load}
}

// Peek reports the loaded value without blocking or starting a load.
func (l *Loader[T]) Peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val, l.done
}

// Start kicks off a background load unless one is running or already finished.
func (l *Loader[T]) Start() {
	l.mu.Lock()
	if l.done || l.loading {
		l.mu.Unlock()
		return
	}
	l.loading = true
	l.mu.Unlock()

	go func() { _, _ = l.Get(context.Background()) }()
}

// Get returns the value, loading it if needed. ctx only bounds the wait.
func (l *Loader[T]) Get(ctx context.Context) (T, error) {
	if v, ok := l.Peek(); ok {
		return v, nil
	}
	ch := l.group.DoChan(key, func() (any, error) {
		l.mu.Lock()
		if l.done {
			v := l.val
			l.mu.Unlock()
			return v, nil
		}
		l.loading = true
		l.loads++
		l.mu.Unlock()

		v, err := l.load(context.Background())

		l.mu.Lock()
		l.loading = false
		if err == nil {
			l.val, l.done = v, true
		}
		l.mu.Unlock()
		return v, err
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Loads reports how many times the load function has been invoked.
func (l *Loader[T]) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}
