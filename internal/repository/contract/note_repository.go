package contract

import (
	"context"
	"errors"

	"workspace-be/internal/entity"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository is the authoritative note store behind the note API.
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	// Delete returns ErrNoteNotFound when no note has the id.
	Delete(ctx context.Context, id string) error
	// FindById returns nil, nil when the note does not exist.
	FindById(ctx context.Context, id string) (*entity.Note, error)
	// FindAll lists notes oldest first.
	FindAll(ctx context.Context) ([]entity.Note, error)
}
