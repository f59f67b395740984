package yield

import "farmdash/entities"

// State owns one session's current record. It is not safe for concurrent
// use; callers serialize access.
type State struct {
	rec       entities.FarmRecord
	version   uint64
	onReplace []func(entities.FarmRecord)
}

// NewState starts from rec. Each hook receives a private copy of every
// record passed to Replace.
func NewState(rec entities.FarmRecord, onReplace ...func(entities.FarmRecord)) *State {
	return &State{rec: rec.Clone(), onReplace: onReplace}
}

func (s *State) Current() entities.FarmRecord { return s.rec.Clone() }

// Version increases by one on every Replace.
func (s *State) Version() uint64 { return s.version }

func (s *State) Derive(adjustment float64) entities.FarmRecord {
	return Derive(s.rec, adjustment)
}

// Replace swaps in rec wholesale and notifies the hooks.
func (s *State) Replace(rec entities.FarmRecord) {
	s.rec = rec.Clone()
	s.version++
	for _, fn := range s.onReplace {
		fn(rec.Clone())
	}
}
