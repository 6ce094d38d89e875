package memo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemo(id, title string) *Memo {
	return &Memo{
		ID:         id,
		Title:      title,
		Data:       make([]int16, 4410),
		SampleRate: 44100,
		Channels:   1,
		Duration:   0.1,
		CreatedAt:  time.Now(),
	}
}

func TestInsertFrontNewestFirst(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "first")))
	require.NoError(t, s.InsertFront(newMemo("2", "second")))
	require.NoError(t, s.InsertFront(newMemo("3", "third")))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "3", s.At(0).ID)
	assert.Equal(t, "2", s.At(1).ID)
	assert.Equal(t, "1", s.At(2).ID)
}

func TestInsertFrontRejectsDuplicateID(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "first")))

	err := s.InsertFront(newMemo("1", "imposter"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "first", s.At(0).Title)
}

func TestIDsStayUniqueUnderChurn(t *testing.T) {
	s := NewStore()
	ops := []struct {
		insert bool
		id     string
	}{
		{true, "a"}, {true, "b"}, {false, "a"}, {true, "c"},
		{true, "a"}, {false, "z"}, {false, "b"}, {true, "b"},
	}
	for _, op := range ops {
		if op.insert {
			_ = s.InsertFront(newMemo(op.id, op.id))
		} else {
			s.Remove(op.id)
		}
		seen := map[string]bool{}
		for _, m := range s.All() {
			assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
			seen[m.ID] = true
		}
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "one")))
	require.NoError(t, s.InsertFront(newMemo("2", "two")))

	s.Remove("1")
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.FindByID("1"))

	// Unknown ids are ignored.
	s.Remove("nope")
	assert.Equal(t, 1, s.Len())
}

func TestRename(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "old")))

	s.Rename("1", "new")
	assert.Equal(t, "new", s.FindByID("1").Title)

	// Empty and duplicate titles are allowed.
	s.Rename("1", "")
	assert.Equal(t, "", s.FindByID("1").Title)

	// Unknown ids are ignored.
	s.Rename("nope", "ghost")
	assert.Equal(t, 1, s.Len())
}

func TestIndexOf(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "one")))
	require.NoError(t, s.InsertFront(newMemo("2", "two")))

	assert.Equal(t, 0, s.IndexOf("2"))
	assert.Equal(t, 1, s.IndexOf("1"))
	assert.Equal(t, -1, s.IndexOf("nope"))
}

func TestAtOutOfRange(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.At(0))
	assert.Nil(t, s.At(-1))
}

func TestAllReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertFront(newMemo("1", "one")))
	require.NoError(t, s.InsertFront(newMemo("2", "two")))

	got := s.All()
	got[0], got[1] = got[1], got[0]
	got = got[:1]
	assert.Len(t, got, 1)

	assert.Equal(t, "2", s.At(0).ID)
	assert.Equal(t, "1", s.At(1).ID)
	assert.Equal(t, 2, s.Len())
}

func TestFrames(t *testing.T) {
	m := &Memo{Data: make([]int16, 100), Channels: 2}
	assert.Equal(t, 50, m.Frames())

	m.Channels = 0
	assert.Equal(t, 0, m.Frames())
}
