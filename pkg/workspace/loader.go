package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"workspace-be/internal/entity"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSnapshot = errors.New("invalid workspace snapshot")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk shape of a workspace snapshot.
type Document struct {
	Folders []entity.Folder `json:"folders" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadSnapshot reads and validates the forest stored at path. A missing file
// yields an empty forest.
func LoadSnapshot(path string) ([]entity.Folder, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.Folder{}, nil
		}
		return nil, err
	}
	defer f.Close()

	return DecodeSnapshot(f, FormatFromPath(path))
}

func DecodeSnapshot(r io.Reader, format Format) ([]entity.Folder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if format == FormatYAML {
		// Round-trip through JSON so the entity JSON rules (note block shapes,
		// RFC 3339 timestamps) apply to YAML documents too.
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	for i := range doc.Folders {
		if doc.Folders[i].UpdatedAt.IsZero() {
			doc.Folders[i].UpdatedAt = doc.Folders[i].CreatedAt
		}
	}
	if doc.Folders == nil {
		doc.Folders = []entity.Folder{}
	}

	if err := ValidateForest(doc.Folders); err != nil {
		return nil, err
	}
	return doc.Folders, nil
}

// ValidateForest checks field rules and the tree invariants: top-level
// folders have no parent, every subfolder points at its real parent, and
// container ids are unique.
func ValidateForest(forest []entity.Folder) error {
	if err := validate.Struct(Document{Folders: forest}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	seen := make(map[string]struct{})
	for _, f := range forest {
		if f.ParentFolderId != nil {
			return fmt.Errorf("%w: folder %s has a parent", ErrInvalidSnapshot, f.Id)
		}
		if err := checkContainer(f.Id, f.Contents, seen); err != nil {
			return err
		}
	}
	return nil
}

func checkContainer(id string, c entity.Contents, seen map[string]struct{}) error {
	if _, dup := seen[id]; dup {
		return fmt.Errorf("%w: %s: %s", ErrInvalidSnapshot, ErrDuplicateId, id)
	}
	seen[id] = struct{}{}

	for _, n := range c.Notes {
		for _, b := range n.Body {
			if err := b.Validate(); err != nil {
				return fmt.Errorf("%w: note %s: %v", ErrInvalidSnapshot, n.Id, err)
			}
		}
	}
	for _, s := range c.Subfolders {
		if s.ParentFolderId != id {
			return fmt.Errorf("%w: subfolder %s points at %s, expected %s", ErrInvalidSnapshot, s.Id, s.ParentFolderId, id)
		}
		if err := checkContainer(s.Id, s.Contents, seen); err != nil {
			return err
		}
	}
	return nil
}

func EncodeSnapshot(w io.Writer, forest []entity.Folder) error {
	if forest == nil {
		forest = []entity.Folder{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Folders: forest})
}

// SaveSnapshot writes forest to path via a temp file and rename so readers
// never observe a partial document.
func SaveSnapshot(path string, forest []entity.Folder) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".workspace-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSnapshot(tmp, forest); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
