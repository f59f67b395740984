// Package persist mirrors the current farm record into the local store
// without ever making the caller wait for, or see, the outcome.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"farmdash/entities"
	"farmdash/pkg/record/repository"
	"farmdash/pkg/yield"
)

const writeTimeout = 5 * time.Second

type Adapter struct {
	repo repository.RecordRepository // nil when no store is available
	log  *zap.Logger

	mu       sync.Mutex
	pending  map[string]entities.FarmRecord
	inflight map[string]entities.FarmRecord
	closed   bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// New starts the writer. A nil repo turns every call into a no-op.
func New(repo repository.RecordRepository, log *zap.Logger) *Adapter {
	a := &Adapter{
		repo:    repo,
		log:     log,
		pending: map[string]entities.FarmRecord{},
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if repo == nil {
		log.Info("local store unavailable, persistence disabled")
		return a
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Adapter) Enabled() bool { return a.repo != nil }

// Mirror queues rec for storage under browserID. Only the latest record
// per browser is kept while a write is outstanding.
func (a *Adapter) Mirror(browserID string, rec entities.FarmRecord) {
	if a.repo == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.pending[browserID] = rec.Clone()
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Restore returns the last known record for browserID, or the seed.
func (a *Adapter) Restore(ctx context.Context, browserID string) entities.FarmRecord {
	if a.repo == nil {
		return yield.Seed()
	}
	a.mu.Lock()
	if rec, ok := a.pending[browserID]; ok {
		a.mu.Unlock()
		return rec.Clone()
	}
	if rec, ok := a.inflight[browserID]; ok {
		a.mu.Unlock()
		return rec.Clone()
	}
	a.mu.Unlock()

	rec, err := a.repo.Load(ctx, browserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.log.Debug("restore failed, using seed", zap.String("browser", browserID), zap.Error(err))
		}
		return yield.Seed()
	}
	return *rec
}

// Close writes whatever is still queued, stops the writer and releases the store.
func (a *Adapter) Close() error {
	if a.repo == nil {
		return nil
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	close(a.done)
	a.wg.Wait()
	return a.repo.Close()
}

func (a *Adapter) run() {
	defer a.wg.Done()
	for {
		select {
		case <-a.wake:
			a.flush()
		case <-a.done:
			a.flush()
			return
		}
	}
}

func (a *Adapter) flush() {
	a.mu.Lock()
	batch := a.pending
	a.pending = map[string]entities.FarmRecord{}
	a.inflight = batch
	a.mu.Unlock()

	for id, rec := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := a.repo.Save(ctx, id, rec); err != nil {
			a.log.Debug("mirror write dropped", zap.String("browser", id), zap.Error(err))
		}
		cancel()
	}

	a.mu.Lock()
	a.inflight = nil
	a.mu.Unlock()
}
