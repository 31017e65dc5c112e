package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"workspace-be/internal/entity"
	"workspace-be/internal/repository/contract"
)

// NoteRepository keeps every note in one JSON file. The file is read once
// and rewritten atomically after each mutation.
type NoteRepository struct {
	mu    sync.Mutex
	path  string
	notes []entity.Note
}

func NewNoteRepository(path string) (*NoteRepository, error) {
	notes, err := readNotes(path)
	if err != nil {
		return nil, err
	}
	return &NoteRepository{path: path, notes: notes}, nil
}

func readNotes(path string) ([]entity.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.Note{}, nil
		}
		return nil, fmt.Errorf("read notes file: %w", err)
	}
	if len(data) == 0 {
		return []entity.Note{}, nil
	}

	var notes []entity.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("decode notes file %s: %w", path, err)
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	return notes, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notes {
		if n.Id == note.Id {
			return fmt.Errorf("note %s already exists", note.Id)
		}
	}

	next := append(entity.CloneNotes(r.notes), note.Clone())
	if err := r.flush(next); err != nil {
		return err
	}
	r.notes = next
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, n := range r.notes {
		if n.Id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return contract.ErrNoteNotFound
	}

	next := make([]entity.Note, 0, len(r.notes)-1)
	next = append(next, r.notes[:idx]...)
	next = append(next, r.notes[idx+1:]...)
	if err := r.flush(next); err != nil {
		return err
	}
	r.notes = next
	return nil
}

func (r *NoteRepository) FindById(ctx context.Context, id string) (*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notes {
		if n.Id == id {
			found := n.Clone()
			return &found, nil
		}
	}
	return nil, nil
}

func (r *NoteRepository) FindAll(ctx context.Context) ([]entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	out := entity.CloneNotes(r.notes)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *NoteRepository) flush(notes []entity.Note) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".notes-*.json")
	if err != nil {
		return fmt.Errorf("create temp notes file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write notes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close notes file: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}
