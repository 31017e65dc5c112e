package workspace

import (
	"sort"
	"sync"
	"time"

	"workspace-be/internal/entity"
)

// Change is delivered to subscribers after every successful mutation.
// Version increases by one per mutation so late deliveries can be dropped.
type Change struct {
	Version uint64
	Folders []entity.Folder
}

type Listener func(Change)

type Option func(*Store)

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the authoritative folder forest. Every mutation computes a new
// forest and swaps it in whole; callers only ever see deep copies.
type Store struct {
	mu        sync.RWMutex
	forest    []entity.Folder
	version   uint64
	listeners map[uint64]Listener
	nextToken uint64
	now       func() time.Time
}

func NewStore(initial []entity.Folder, opts ...Option) *Store {
	s := &Store{
		forest:    entity.CloneFolders(initial),
		listeners: make(map[uint64]Listener),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() []entity.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.CloneFolders(s.forest)
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Find returns a copy of the folder or subfolder with the given id.
func (s *Store) Find(id string) (entity.Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := FindContainer(s.forest, id)
	if !ok {
		return nil, false
	}
	switch v := c.(type) {
	case entity.Folder:
		return v.Clone(), true
	case entity.Subfolder:
		return v.Clone(), true
	}
	return c, true
}

// AddItem places item under parentID (ignored for folders) and returns the
// new forest.
func (s *Store) AddItem(item entity.Item, parentID string) ([]entity.Folder, error) {
	return s.apply(func(forest []entity.Folder, now time.Time) ([]entity.Folder, error) {
		return AddItem(forest, item, parentID, now)
	})
}

// DeleteItem removes an item. Callers must have obtained an explicit
// confirmation first; the removal is not announced beyond subscribers.
func (s *Store) DeleteItem(kind entity.ItemKind, itemID, parentID string) ([]entity.Folder, error) {
	return s.apply(func(forest []entity.Folder, now time.Time) ([]entity.Folder, error) {
		return DeleteItem(forest, kind, itemID, parentID, now)
	})
}

// Reset replaces the whole forest, e.g. after reloading a snapshot or
// between tests.
func (s *Store) Reset(forest []entity.Folder) {
	next := entity.CloneFolders(forest)
	_, _ = s.apply(func([]entity.Folder, time.Time) ([]entity.Folder, error) {
		return next, nil
	})
}

// Subscribe registers l for change notifications. The returned func
// removes it. Listeners run on the mutating goroutine after the store lock
// is released.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, token)
		s.mu.Unlock()
	}
}

func (s *Store) apply(fn func([]entity.Folder, time.Time) ([]entity.Folder, error)) ([]entity.Folder, error) {
	s.mu.Lock()
	next, err := fn(s.forest, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.forest = next
	s.version++
	version := s.version

	tokens := make([]uint64, 0, len(s.listeners))
	for token := range s.listeners {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	listeners := make([]Listener, len(tokens))
	for i, token := range tokens {
		listeners[i] = s.listeners[token]
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(Change{Version: version, Folders: entity.CloneFolders(next)})
	}
	return entity.CloneFolders(next), nil
}
