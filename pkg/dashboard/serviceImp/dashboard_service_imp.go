package serviceImp

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"farmdash/entities"
	"farmdash/pkg/dashboard/service"
	"farmdash/pkg/dashboard/view"
	"farmdash/pkg/yield"
)

// Store is the part of the persistence adapter the dashboard needs.
type Store interface {
	Mirror(browserID string, rec entities.FarmRecord)
	Restore(ctx context.Context, browserID string) entities.FarmRecord
}

type session struct {
	mu      sync.Mutex
	id      string
	state   *yield.State
	dark    bool
	pending float64
	root    *DocumentRoot

	memoVersion uint64
	memoOK      bool
	memo        service.MetricsView
}

// DefaultSessionLimit caps the sessions kept in memory when New gets limit <= 0.
const DefaultSessionLimit = 10000

type DashboardSvc struct {
	store       Store
	fmt         *view.Formatter
	pricePerTon float64
	now         func() time.Time
	limit       int

	restores singleflight.Group

	mu       sync.Mutex
	sessions map[string]*list.Element // value: *session
	lru      *list.List               // front is most recently used
	builds   int                      // metrics views computed, for tests
}

// New builds the dashboard service. At most limit sessions stay in memory;
// the least recently used one is dropped first and comes back from the store.
func New(store Store, f *view.Formatter, pricePerTon float64, limit int) *DashboardSvc {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	return &DashboardSvc{
		store:       store,
		fmt:         f,
		pricePerTon: pricePerTon,
		now:         time.Now,
		limit:       limit,
		sessions:    map[string]*list.Element{},
		lru:         list.New(),
	}
}

var _ service.DashboardService = (*DashboardSvc)(nil)

// session returns the browser's session, restoring it from the store on first
// use. The registry lock is never held across a restore; concurrent first
// visits of one browser share a single restore.
func (s *DashboardSvc) session(ctx context.Context, browserID string) *session {
	if ss := s.lookup(browserID); ss != nil {
		return ss
	}
	v, _, _ := s.restores.Do(browserID, func() (any, error) {
		if ss := s.lookup(browserID); ss != nil {
			return ss, nil
		}
		rec := s.store.Restore(context.WithoutCancel(ctx), browserID)
		ss := &session{
			id:   browserID,
			root: NewDocumentRoot("farmdash"),
		}
		ss.state = yield.NewState(rec, func(r entities.FarmRecord) { s.store.Mirror(browserID, r) })
		s.insert(ss)
		return ss, nil
	})
	return v.(*session)
}

func (s *DashboardSvc) lookup(browserID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.sessions[browserID]
	if !ok {
		return nil
	}
	s.lru.MoveToFront(el)
	return el.Value.(*session)
}

func (s *DashboardSvc) insert(ss *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ss.id] = s.lru.PushFront(ss)
	for s.lru.Len() > s.limit {
		old := s.lru.Back()
		s.lru.Remove(old)
		delete(s.sessions, old.Value.(*session).id)
	}
}

// Sessions reports how many sessions are held in memory.
func (s *DashboardSvc) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (ss *session) snapshot() service.Snapshot {
	return service.Snapshot{
		BrowserID: ss.id,
		Record:    ss.state.Current(),
		Version:   ss.state.Version(),
		Dark:      ss.dark,
		Pending:   ss.pending,
		CanCommit: ss.pending != 0,
		RootClass: ss.root.Class(),
	}
}

func (s *DashboardSvc) Snapshot(ctx context.Context, browserID string) service.Snapshot {
	ss := s.session(ctx, browserID)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.snapshot()
}

func (s *DashboardSvc) SetPending(ctx context.Context, browserID string, adjustment float64) service.Snapshot {
	ss := s.session(ctx, browserID)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.pending = adjustment
	return ss.snapshot()
}

func (s *DashboardSvc) Commit(ctx context.Context, browserID string) (service.Snapshot, bool, error) {
	ss := s.session(ctx, browserID)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.pending == 0 {
		return ss.snapshot(), false, nil
	}
	next := ss.state.Derive(ss.pending)
	if !yield.Finite(next) {
		return ss.snapshot(), false, service.ErrOutOfRange
	}
	next.UpdatedAt = s.now()
	ss.state.Replace(next)
	ss.pending = 0
	return ss.snapshot(), true, nil
}

func (s *DashboardSvc) ToggleDark(ctx context.Context, browserID string) service.Snapshot {
	ss := s.session(ctx, browserID)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.dark = !ss.dark
	ApplyTheme(ss.root, ss.dark)
	return ss.snapshot()
}

// Metrics returns the formatted metrics panel, rebuilt only when the record
// version changed since the last call.
func (s *DashboardSvc) Metrics(ctx context.Context, browserID string) (service.MetricsView, uint64) {
	ss := s.session(ctx, browserID)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	v := ss.state.Version()
	if ss.memoOK && ss.memoVersion == v {
		return ss.memo, v
	}
	rec := ss.state.Current()
	ss.memo = service.MetricsView{
		Yield:       s.fmt.Number(rec.Yield),
		Risk:        s.fmt.Number(rec.Risk),
		Water:       s.fmt.Number(rec.Water),
		Value:       s.fmt.Money(rec.Yield * s.pricePerTon),
		UpdatedAt:   s.fmt.Stamp(rec.UpdatedAt),
		Suggestions: rec.Suggestions,
	}
	ss.memoVersion, ss.memoOK = v, true

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()
	return ss.memo, v
}

// Builds reports how many metrics views have been computed.
func (s *DashboardSvc) Builds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds
}
