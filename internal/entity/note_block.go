package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type BlockType string

const (
	BlockHeading    BlockType = "heading"
	BlockSubheading BlockType = "subheading"
	BlockParagraph  BlockType = "paragraph"
	BlockCode       BlockType = "code"
	BlockList       BlockType = "list"
)

var ErrBlockShape = errors.New("note block content does not match its type")

// NoteBlock is one unit of a note body. Text kinds carry Text, list blocks
// carry Items. On the wire both are a single "content" field.
type NoteBlock struct {
	Type  BlockType `validate:"oneof=heading subheading paragraph code list"`
	Text  string
	Items []string
}

func NewTextBlock(t BlockType, content string) NoteBlock {
	return NoteBlock{Type: t, Text: content}
}

func NewListBlock(items ...string) NoteBlock {
	return NoteBlock{Type: BlockList, Items: append([]string{}, items...)}
}

func (b NoteBlock) IsList() bool { return b.Type == BlockList }

func (b NoteBlock) Validate() error {
	switch b.Type {
	case BlockHeading, BlockSubheading, BlockParagraph, BlockCode:
		if b.Items != nil {
			return fmt.Errorf("%w: %s block holds a list", ErrBlockShape, b.Type)
		}
	case BlockList:
		if b.Text != "" {
			return fmt.Errorf("%w: list block holds a string", ErrBlockShape)
		}
	default:
		return fmt.Errorf("unknown note block type %q", b.Type)
	}
	return nil
}

type noteBlockWire struct {
	Type    BlockType       `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (b NoteBlock) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var content any = b.Text
	if b.IsList() {
		items := b.Items
		if items == nil {
			items = []string{}
		}
		content = items
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(noteBlockWire{Type: b.Type, Content: raw})
}

func (b *NoteBlock) UnmarshalJSON(data []byte) error {
	var wire noteBlockWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	raw := bytes.TrimSpace(wire.Content)
	empty := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	block := NoteBlock{Type: wire.Type}
	switch wire.Type {
	case BlockList:
		block.Items = []string{}
		if !empty {
			if raw[0] != '[' {
				return fmt.Errorf("%w: list block content must be an array", ErrBlockShape)
			}
			if err := json.Unmarshal(raw, &block.Items); err != nil {
				return fmt.Errorf("%w: %v", ErrBlockShape, err)
			}
		}
	case BlockHeading, BlockSubheading, BlockParagraph, BlockCode:
		if !empty {
			if raw[0] != '"' {
				return fmt.Errorf("%w: %s block content must be a string", ErrBlockShape, wire.Type)
			}
			if err := json.Unmarshal(raw, &block.Text); err != nil {
				return fmt.Errorf("%w: %v", ErrBlockShape, err)
			}
		}
	default:
		return fmt.Errorf("unknown note block type %q", wire.Type)
	}

	*b = block
	return nil
}
