package persist

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"farmdash/entities"
	"farmdash/pkg/record/repository"
	"farmdash/pkg/record/repositoryImp"
	"farmdash/pkg/yield"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memRepo struct {
	mu      sync.Mutex
	rows    map[string]entities.FarmRecord
	saves   int
	saveErr error
	loadErr error
	closed  bool
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]entities.FarmRecord{}} }

func (m *memRepo) Save(_ context.Context, id string, rec entities.FarmRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[id] = rec
	return nil
}

func (m *memRepo) Load(_ context.Context, id string) (*entities.FarmRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	rec, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memRepo) Close() error { m.closed = true; return nil }

func TestAdapter_NilRepoIsNoop(t *testing.T) {
	a := New(nil, zap.NewNop())
	assert.False(t, a.Enabled())

	a.Mirror("b", yield.Derive(yield.Seed(), 2))
	assert.Equal(t, yield.Seed(), a.Restore(context.Background(), "b"))
	assert.NoError(t, a.Close())
}

func TestAdapter_CloseFlushesLatest(t *testing.T) {
	repo := newMemRepo()
	a := New(repo, zap.NewNop())

	rec := yield.Seed()
	for _, adj := range []float64{2, -5, 1} {
		rec = yield.Derive(rec, adj)
		a.Mirror("b", rec)
	}
	require.NoError(t, a.Close())

	assert.True(t, repo.closed)
	got, err := repo.Load(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, rec.Yield, got.Yield)
	assert.Equal(t, rec.Water, got.Water)
}

func TestAdapter_MirrorCopiesRecord(t *testing.T) {
	repo := newMemRepo()
	a := New(repo, zap.NewNop())

	rec := yield.Derive(yield.Seed(), 2)
	a.Mirror("b", rec)
	rec.Suggestions[0] = "mutated by caller"
	require.NoError(t, a.Close())

	got, err := repo.Load(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, yield.Hunches[0], got.Suggestions[0])
}

func TestAdapter_WriteFailureIsSilent(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("disk full")
	a := New(repo, zap.NewNop())

	assert.NotPanics(t, func() { a.Mirror("b", yield.Seed()) })
	require.NoError(t, a.Close())
	assert.GreaterOrEqual(t, repo.saves, 1)
}

func TestAdapter_MirrorAfterCloseIgnored(t *testing.T) {
	repo := newMemRepo()
	a := New(repo, zap.NewNop())
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	a.Mirror("b", yield.Seed())
	assert.Equal(t, 0, repo.saves)
}

func TestAdapter_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("stored record", func(t *testing.T) {
		repo := newMemRepo()
		repo.rows["b"] = entities.FarmRecord{Yield: 99, Risk: 1}
		a := New(repo, zap.NewNop())
		defer a.Close()
		assert.Equal(t, 99.0, a.Restore(ctx, "b").Yield)
	})

	t.Run("missing falls back to seed", func(t *testing.T) {
		a := New(newMemRepo(), zap.NewNop())
		defer a.Close()
		assert.Equal(t, yield.Seed(), a.Restore(ctx, "b"))
	})

	t.Run("load error falls back to seed", func(t *testing.T) {
		repo := newMemRepo()
		repo.loadErr = errors.New("corrupt")
		a := New(repo, zap.NewNop())
		defer a.Close()
		assert.Equal(t, yield.Seed(), a.Restore(ctx, "b"))
	})
}

func TestAdapter_BoltRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.bolt")
	repo, err := repositoryImp.NewBolt(path)
	require.NoError(t, err)

	a := New(repo, zap.NewNop())
	want := yield.Derive(yield.Seed(), 2)
	a.Mirror("browser", want)
	require.NoError(t, a.Close())

	repo, err = repositoryImp.NewBolt(path)
	require.NoError(t, err)
	b := New(repo, zap.NewNop())
	defer b.Close()

	got := b.Restore(context.Background(), "browser")
	assert.Equal(t, 14.0, got.Yield)
	assert.Equal(t, 21.0, got.Risk)
	assert.Equal(t, 100.0, got.Water)
	assert.Equal(t, want.Suggestions, got.Suggestions)
}
