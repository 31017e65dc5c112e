package notesync

import (
	"context"

	"workspace-be/internal/entity"
)

// Draft is a note that has not been confirmed by the server yet.
type Draft struct {
	Title    string         `json:"title"`
	Tags     []string       `json:"tags"`
	Owners   []entity.Owner `json:"owners" validate:"dive"`
	FolderId *string        `json:"folderId,omitempty"`
}

// RemoteNotes is the authoritative note store the cache is reconciled with.
type RemoteNotes interface {
	CreateNote(ctx context.Context, draft Draft) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]entity.Note, error)
}
