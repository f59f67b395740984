package yield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmdash/entities"
)

func TestState_ReplaceNotifiesAndBumpsVersion(t *testing.T) {
	var seen []entities.FarmRecord
	s := NewState(Seed(), func(r entities.FarmRecord) { seen = append(seen, r) })
	assert.Equal(t, uint64(0), s.Version())

	next := s.Derive(2)
	assert.Equal(t, 12.0, s.Current().Yield, "derive must not touch the owned record")

	s.Replace(next)
	assert.Equal(t, uint64(1), s.Version())
	assert.Equal(t, 14.0, s.Current().Yield)
	require.Len(t, seen, 1)
	assert.Equal(t, 14.0, seen[0].Yield)
}

func TestState_HooksGetPrivateCopies(t *testing.T) {
	s := NewState(Seed(), func(r entities.FarmRecord) { r.Suggestions[0] = "scribbled" })
	s.Replace(s.Derive(1))
	assert.Equal(t, Hunches[0], s.Current().Suggestions[0])

	cur := s.Current()
	cur.Suggestions[1] = "scribbled"
	assert.Equal(t, Hunches[1], s.Current().Suggestions[1])
}
