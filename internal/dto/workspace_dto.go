package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"workspace-be/internal/entity"
	"workspace-be/pkg/workspace"
)

var ErrMalformedItem = errors.New("malformed item")

type AddItemRequest struct {
	Type           entity.ItemKind `json:"type" validate:"required"`
	ParentFolderId string          `json:"parentFolderId" validate:"required_unless=Type folder"`
	Item           json.RawMessage `json:"item" validate:"required"`
}

// DecodeItem unmarshals Item into the concrete type named by Type.
func (r *AddItemRequest) DecodeItem() (entity.Item, error) {
	switch r.Type {
	case entity.KindFolder:
		return decodeItem[entity.Folder](r.Item)
	case entity.KindSubfolder:
		return decodeItem[entity.Subfolder](r.Item)
	case entity.KindNote:
		return decodeItem[entity.Note](r.Item)
	case entity.KindTask:
		return decodeItem[entity.Task](r.Item)
	case entity.KindSchedule:
		return decodeItem[entity.CalendarSchedule](r.Item)
	}
	return nil, fmt.Errorf("%w: %q", workspace.ErrUnknownKind, r.Type)
}

func decodeItem[T entity.Item](raw json.RawMessage) (entity.Item, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedItem, err)
	}
	return v, nil
}

type AddItemResponse struct {
	Version uint64      `json:"version"`
	Item    entity.Item `json:"item"`
}

type DeleteItemRequest struct {
	Id             string          `validate:"required"`
	Type           entity.ItemKind `validate:"required"`
	ParentFolderId string
	Confirm        bool
}

type WorkspaceTreeResponse struct {
	Version    uint64                        `json:"version"`
	Folders    []entity.Folder               `json:"folders"`
	Categories map[string]workspace.Category `json:"categories"`
}

type CategoryResponse struct {
	Id       string             `json:"id"`
	Category workspace.Category `json:"category"`
}
