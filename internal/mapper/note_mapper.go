package mapper

import (
	"encoding/json"
	"fmt"

	"workspace-be/internal/entity"
	"workspace-be/internal/model"

	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) (*entity.Note, error) {
	if n == nil {
		return nil, nil
	}

	body := []entity.NoteBlock{}
	if len(n.Body) > 0 {
		if err := json.Unmarshal(n.Body, &body); err != nil {
			return nil, fmt.Errorf("decode body of note %s: %w", n.Id, err)
		}
	}

	tags := []string{}
	if n.Tags != nil {
		tags = append(tags, n.Tags...)
	}

	var owners []entity.Owner
	if len(n.Owners) > 0 {
		owners = make([]entity.Owner, len(n.Owners))
		for i, o := range n.Owners {
			owners[i] = entity.Owner{Id: o.Id, Name: o.Name, Avatar: o.Avatar}
		}
	}

	var folderId *string
	if n.FolderId != nil {
		v := *n.FolderId
		folderId = &v
	}

	return &entity.Note{
		Id:        n.Id,
		Title:     n.Title,
		Body:      body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		FolderId:  folderId,
		Tags:      tags,
		Owners:    owners,
	}, nil
}

func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	body, err := json.Marshal(n.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body of note %s: %w", n.Id, err)
	}

	owners := make([]model.NoteOwner, len(n.Owners))
	for i, o := range n.Owners {
		owners[i] = model.NoteOwner{Id: o.Id, Name: o.Name, Avatar: o.Avatar}
	}

	return &model.Note{
		Id:        n.Id,
		Title:     n.Title,
		Body:      datatypes.JSON(body),
		FolderId:  n.FolderId,
		Tags:      datatypes.JSONSlice[string](append([]string{}, n.Tags...)),
		Owners:    datatypes.JSONSlice[model.NoteOwner](owners),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}, nil
}

func (m *NoteMapper) ToEntities(models []*model.Note) ([]entity.Note, error) {
	out := make([]entity.Note, 0, len(models))
	for _, n := range models {
		e, err := m.ToEntity(n)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}
