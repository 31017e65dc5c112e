package notesync

import (
	"context"
	"strings"
	"time"

	"workspace-be/internal/entity"
	"workspace-be/pkg/workspace"

	"github.com/go-playground/validator/v10"
)

// TempIDPrefix marks notes that exist only in the local cache.
const TempIDPrefix = "temp-"

var validate = validator.New()

type Option func(*Syncer)

func WithIDGenerator(fn func() string) Option {
	return func(s *Syncer) { s.newID = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// Syncer applies note mutations to the cache first and reconciles them with
// the remote afterwards: snapshot, tentative apply, remote call, then commit
// or restore.
type Syncer struct {
	cache  *Cache
	remote RemoteNotes
	locks  *keyedLock
	newID  func() string
	now    func() time.Time
}

func NewSyncer(cache *Cache, remote RemoteNotes, opts ...Option) *Syncer {
	s := &Syncer{
		cache:  cache,
		remote: remote,
		locks:  newKeyedLock(),
		newID:  workspace.NewID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) Cache() *Cache { return s.cache }

// IsTemporary reports whether a note id was synthesized locally.
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// CreateNoteOptimistic shows a temporary note immediately and swaps it for
// the server's note once the remote create succeeds.
func (s *Syncer) CreateNoteOptimistic(ctx context.Context, draft Draft) Result {
	if strings.TrimSpace(draft.Title) == "" {
		return Result{Err: ErrTitleRequired}
	}
	if err := validate.Struct(draft); err != nil {
		return Result{Err: err}
	}

	now := s.now()
	temp := entity.Note{
		Id:        TempIDPrefix + s.newID(),
		Title:     draft.Title,
		Body:      entity.DefaultNoteBody(),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      entity.NormalizeTags(draft.Tags),
	}
	if draft.FolderId != nil {
		folderID := *draft.FolderId
		temp.FolderId = &folderID
	}
	if draft.Owners != nil {
		temp.Owners = append([]entity.Owner{}, draft.Owners...)
	}

	snapshot, applied := s.cache.apply(func(notes []entity.Note) []entity.Note {
		return withNoteAt(notes, len(notes), temp)
	})

	created, err := s.remote.CreateNote(ctx, draft)
	if err != nil {
		s.cache.rollback(snapshot, applied, func(notes []entity.Note) []entity.Note {
			return withoutNote(notes, temp.Id)
		})
		return failure(err)
	}

	s.cache.write(func(notes []entity.Note) []entity.Note {
		return swapNote(notes, temp.Id, created.Clone())
	})
	confirmed := created.Clone()
	return success(&confirmed)
}

// DeleteNoteOptimistic hides the note immediately, deletes it remotely and
// then refreshes the cache from the remote list.
func (s *Syncer) DeleteNoteOptimistic(ctx context.Context, id string) Result {
	release, err := s.locks.acquire(ctx, id)
	if err != nil {
		return failure(err)
	}
	defer release()

	var removed entity.Note
	removedAt := -1
	snapshot, applied := s.cache.apply(func(notes []entity.Note) []entity.Note {
		removedAt = indexOfNote(notes, id)
		if removedAt < 0 {
			return notes
		}
		removed = notes[removedAt].Clone()
		return withoutNote(notes, id)
	})

	if err := s.remote.DeleteNote(ctx, id); err != nil {
		s.cache.rollback(snapshot, applied, func(notes []entity.Note) []entity.Note {
			if removedAt < 0 || indexOfNote(notes, id) >= 0 {
				return notes
			}
			return withNoteAt(notes, removedAt, removed)
		})
		return failure(err)
	}

	notes, err := s.remote.ListNotes(ctx)
	if err != nil {
		return Result{RefreshErr: err}
	}
	s.cache.Replace(notes)
	return Result{}
}

// Refresh replaces the cache with the remote list.
func (s *Syncer) Refresh(ctx context.Context) error {
	notes, err := s.remote.ListNotes(ctx)
	if err != nil {
		return err
	}
	s.cache.Replace(notes)
	return nil
}

// swapNote replaces the temporary entry with the confirmed note in place,
// so the list never shows both or neither.
func swapNote(notes []entity.Note, tempID string, confirmed entity.Note) []entity.Note {
	tempAt := indexOfNote(notes, tempID)
	if indexOfNote(notes, confirmed.Id) >= 0 {
		return withoutNote(notes, tempID)
	}
	if tempAt < 0 {
		return withNoteAt(notes, len(notes), confirmed)
	}
	out := make([]entity.Note, len(notes))
	copy(out, notes)
	out[tempAt] = confirmed
	return out
}
