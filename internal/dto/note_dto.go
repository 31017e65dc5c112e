package dto

import "workspace-be/internal/entity"

type CreateNoteRequest struct {
	Title    string             `json:"title" validate:"required"`
	Body     []entity.NoteBlock `json:"body" validate:"dive"`
	Tags     []string           `json:"tags"`
	Owners   []entity.Owner     `json:"owners" validate:"dive"`
	FolderId *string            `json:"folderId"`
}

type DeleteNoteRequest struct {
	Id      string `validate:"required"`
	Confirm bool
}
