package notesync

import (
	"sort"
	"sync"

	"workspace-be/internal/entity"
)

// Cache is the note list presented to the UI. All writes go through the
// Syncer or Replace; readers get deep copies.
type Cache struct {
	mu        sync.Mutex
	notes     []entity.Note
	version   uint64
	listeners map[uint64]func([]entity.Note)
	nextToken uint64
}

func NewCache(initial []entity.Note) *Cache {
	return &Cache{
		notes:     entity.CloneNotes(initial),
		listeners: make(map[uint64]func([]entity.Note)),
	}
}

func (c *Cache) Notes() []entity.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.CloneNotes(c.notes)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

// Subscribe registers fn to receive the note list after every change.
func (c *Cache) Subscribe(fn func([]entity.Note)) func() {
	c.mu.Lock()
	token := c.nextToken
	c.nextToken++
	c.listeners[token] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, token)
		c.mu.Unlock()
	}
}

// Replace swaps in a fresh list from the source of truth.
func (c *Cache) Replace(notes []entity.Note) {
	next := entity.CloneNotes(notes)
	c.write(func([]entity.Note) []entity.Note { return next })
}

// apply runs a tentative mutation and returns the pre-mutation snapshot plus
// the version the cache had right after the mutation.
func (c *Cache) apply(fn func([]entity.Note) []entity.Note) ([]entity.Note, uint64) {
	var snapshot []entity.Note
	version := c.write(func(notes []entity.Note) []entity.Note {
		snapshot = entity.CloneNotes(notes)
		return fn(notes)
	})
	return snapshot, version
}

// rollback restores snapshot if nothing else touched the cache since
// applied. Otherwise only this mutation is reverted through undo, so a
// concurrent change to another note survives.
func (c *Cache) rollback(snapshot []entity.Note, applied uint64, undo func([]entity.Note) []entity.Note) {
	c.writeIf(func(notes []entity.Note, version uint64) []entity.Note {
		if version == applied {
			return snapshot
		}
		return undo(notes)
	})
}

func (c *Cache) write(fn func([]entity.Note) []entity.Note) uint64 {
	return c.writeIf(func(notes []entity.Note, _ uint64) []entity.Note { return fn(notes) })
}

func (c *Cache) writeIf(fn func([]entity.Note, uint64) []entity.Note) uint64 {
	c.mu.Lock()
	c.notes = fn(c.notes, c.version)
	c.version++
	version := c.version
	view := c.notes
	listeners := c.sortedListeners()
	c.mu.Unlock()

	for _, l := range listeners {
		l(entity.CloneNotes(view))
	}
	return version
}

func (c *Cache) sortedListeners() []func([]entity.Note) {
	tokens := make([]uint64, 0, len(c.listeners))
	for token := range c.listeners {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	out := make([]func([]entity.Note), len(tokens))
	for i, token := range tokens {
		out[i] = c.listeners[token]
	}
	return out
}

func indexOfNote(notes []entity.Note, id string) int {
	for i, n := range notes {
		if n.Id == id {
			return i
		}
	}
	return -1
}

func withoutNote(notes []entity.Note, id string) []entity.Note {
	idx := indexOfNote(notes, id)
	if idx < 0 {
		return notes
	}
	out := make([]entity.Note, 0, len(notes)-1)
	out = append(out, notes[:idx]...)
	return append(out, notes[idx+1:]...)
}

func withNoteAt(notes []entity.Note, at int, n entity.Note) []entity.Note {
	if at < 0 || at > len(notes) {
		at = len(notes)
	}
	out := make([]entity.Note, 0, len(notes)+1)
	out = append(out, notes[:at]...)
	out = append(out, n)
	return append(out, notes[at:]...)
}
