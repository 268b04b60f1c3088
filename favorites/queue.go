// Package favorites keeps the ordered favorites queue and persists it.
package favorites

import (
	"errors"
	"fmt"

	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
)

// ErrPersistence wraps every failure to read or write the favorites file.
// The in-memory queue stays authoritative when it is returned.
var ErrPersistence = errors.New("favorites persistence failed")

// Store loads and saves the whole queue.
type Store interface {
	Load() ([]track.Track, error)
	Save(tracks []track.Track) error
}

// Queue is the ordered, duplicate-free list of favorite tracks.
// Order is insertion order and drives queue traversal.
type Queue struct {
	tracks []track.Track
	store  Store
}

// Open loads the queue from store. A load error is returned together with a
// usable queue, so callers may report it and carry on.
func Open(store Store) (*Queue, error) {
	q := &Queue{store: store}
	if store == nil {
		return q, nil
	}

	tracks, err := store.Load()
	q.tracks = dedupe(tracks)
	return q, err
}

// New returns an unpersisted queue holding tracks.
func New(tracks ...track.Track) *Queue {
	return &Queue{tracks: dedupe(tracks)}
}

func dedupe(tracks []track.Track) []track.Track {
	tracks = lo.Map(tracks, func(t track.Track, _ int) track.Track { return t.Normalize() })
	return lo.UniqBy(tracks, func(t track.Track) string { return t.ID })
}

func (q *Queue) Len() int { return len(q.tracks) }

func (q *Queue) At(index int) track.Track { return q.tracks[index] }

// IndexOf returns the position of the track with id, or -1.
func (q *Queue) IndexOf(id string) int {
	_, i, ok := lo.FindIndexOf(q.tracks, func(t track.Track) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return i
}

func (q *Queue) Contains(id string) bool {
	return q.IndexOf(id) >= 0
}

// Tracks returns a copy of the queue.
func (q *Queue) Tracks() []track.Track {
	return append([]track.Track(nil), q.tracks...)
}

// Add appends t. Adding a track that is already present changes nothing.
func (q *Queue) Add(t track.Track) (bool, error) {
	if q.Contains(t.ID) {
		return false, nil
	}

	q.tracks = append(q.tracks, t)
	return true, q.save()
}

// Remove drops the track with id and reports the index it had.
func (q *Queue) Remove(id string) (int, error) {
	i := q.IndexOf(id)
	if i < 0 {
		return -1, nil
	}

	q.tracks = append(q.tracks[:i:i], q.tracks[i+1:]...)
	return i, q.save()
}

// Toggle adds t when absent and removes it otherwise. removedAt is -1 on add.
func (q *Queue) Toggle(t track.Track) (added bool, removedAt int, err error) {
	if q.Contains(t.ID) {
		removedAt, err = q.Remove(t.ID)
		return false, removedAt, err
	}

	added, err = q.Add(t)
	return added, -1, err
}

// Clear empties the queue.
func (q *Queue) Clear() error {
	q.tracks = nil
	return q.save()
}

func (q *Queue) save() error {
	if q.store == nil {
		return nil
	}

	if err := q.store.Save(q.Tracks()); err != nil {
		log.Errorf("save favorites: %v", err)
		if errors.Is(err, ErrPersistence) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}
