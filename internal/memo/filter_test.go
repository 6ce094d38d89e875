package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCaseInsensitive(t *testing.T) {
	memos := []*Memo{
		{ID: "1", Title: "Meeting Notes"},
		{ID: "2", Title: "Idea"},
	}

	got := Filter(memos, "idea")
	assert.Len(t, got, 1)
	assert.Equal(t, "Idea", got[0].Title)

	got = Filter(memos, "MEETING")
	assert.Len(t, got, 1)
	assert.Equal(t, "Meeting Notes", got[0].Title)
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	memos := []*Memo{
		{ID: "1", Title: "a"},
		{ID: "2", Title: "b"},
	}
	assert.Equal(t, memos, Filter(memos, ""))
}

func TestFilterPreservesOrder(t *testing.T) {
	memos := []*Memo{
		{ID: "1", Title: "standup monday"},
		{ID: "2", Title: "groceries"},
		{ID: "3", Title: "standup friday"},
	}

	got := Filter(memos, "standup")
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterNoMatch(t *testing.T) {
	memos := []*Memo{{ID: "1", Title: "notes"}}
	assert.Empty(t, Filter(memos, "xyz"))
}

func TestFilterDoesNotMutate(t *testing.T) {
	memos := []*Memo{
		{ID: "1", Title: "keep"},
		{ID: "2", Title: "drop"},
	}
	_ = Filter(memos, "keep")
	assert.Len(t, memos, 2)
}
