package entity

import "time"

// DefaultNoteBody is the body given to notes created without content.
func DefaultNoteBody() []NoteBlock {
	return []NoteBlock{NewTextBlock(BlockParagraph, "Begin from here")}
}

type Owner struct {
	Id     string `json:"id" validate:"required"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Note struct {
	Id        string      `json:"id" validate:"required"`
	Title     string      `json:"title" validate:"required"`
	Body      []NoteBlock `json:"body" validate:"dive"`
	CreatedAt time.Time   `json:"createdAt" validate:"required"`
	UpdatedAt time.Time   `json:"updatedAt"`
	FolderId  *string     `json:"folderId"`
	Tags      []string    `json:"tags"`
	Owners    []Owner     `json:"owners" validate:"dive"`
}

func (n Note) ItemId() string { return n.Id }
func (n Note) Kind() ItemKind { return KindNote }

// NormalizeTags drops blank and duplicate tags, keeping first occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
