// Package memo holds the in-memory collection of recorded voice memos.
package memo

import (
	"errors"
	"time"
)

// ErrDuplicateID is returned when a memo with the same ID is already stored.
var ErrDuplicateID = errors.New("memo: duplicate id")

// Memo is a single recorded clip with its metadata. The PCM buffer is the
// memo's only representation; nothing is written to disk unless the user
// exports it. ID never changes after creation; Title is the only mutable
// field.
type Memo struct {
	ID         string
	Title      string
	Data       []int16 // interleaved PCM samples
	SampleRate int
	Channels   int
	Duration   float64 // seconds, fixed at finalization
	CreatedAt  time.Time
}

// Frames returns the number of audio frames in the buffer.
func (m *Memo) Frames() int {
	if m.Channels <= 0 {
		return 0
	}
	return len(m.Data) / m.Channels
}

// Store is an ordered collection of memos, newest-first by insertion.
// It is only ever touched from the UI event loop, so it carries no lock.
type Store struct {
	memos []*Memo
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// InsertFront places a memo at the head of the list. A memo whose ID is
// already present is rejected so IDs stay unique.
func (s *Store) InsertFront(m *Memo) error {
	if s.FindByID(m.ID) != nil {
		return ErrDuplicateID
	}
	s.memos = append([]*Memo{m}, s.memos...)
	return nil
}

// Remove deletes the memo with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	for i, m := range s.memos {
		if m.ID == id {
			s.memos = append(s.memos[:i], s.memos[i+1:]...)
			return
		}
	}
}

// Rename sets a new title on the memo with the given id. Unknown ids are
// ignored; the title may be empty or duplicate another memo's.
func (s *Store) Rename(id, newTitle string) {
	if m := s.FindByID(id); m != nil {
		m.Title = newTitle
	}
}

// FindByID returns the memo with the given id, or nil.
func (s *Store) FindByID(id string) *Memo {
	for _, m := range s.memos {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// IndexOf returns the position of the memo with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	for i, m := range s.memos {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// At returns the memo at position i, or nil when out of range.
func (s *Store) At(i int) *Memo {
	if i < 0 || i >= len(s.memos) {
		return nil
	}
	return s.memos[i]
}

// Len returns the number of stored memos.
func (s *Store) Len() int {
	return len(s.memos)
}

// All returns the memos in store order. The slice is a copy, so reordering
// or truncating it cannot disturb the store.
func (s *Store) All() []*Memo {
	out := make([]*Memo, len(s.memos))
	copy(out, s.memos)
	return out
}
