package workspace

import (
	"errors"
	"fmt"
	"time"

	"workspace-be/internal/entity"
)

var (
	ErrParentNotFound = errors.New("parent folder not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrUnknownKind    = errors.New("unknown item kind")
	ErrDuplicateId    = errors.New("duplicate item id")
	ErrParentMismatch = errors.New("subfolder parent does not match its owner")
)

// The functions in this file never modify their input forest. Only the path
// from the touched top-level folder down to the touched container is
// reallocated; every other folder and collection is shared with the input.

// AddItem places item into the forest. Folders are appended to the top level
// and parentID is ignored. Every other kind is appended to the container
// (folder or subfolder) whose id equals parentID, and the owning top-level
// folder's UpdatedAt is bumped.
func AddItem(forest []entity.Folder, item entity.Item, parentID string, now time.Time) ([]entity.Folder, error) {
	switch v := item.(type) {
	case entity.Folder:
		if err := checkIncoming(forest, v.Id, v.Contents); err != nil {
			return nil, err
		}
		v.ParentFolderId = nil
		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = v.CreatedAt
		}
		return appendCopy(forest, v), nil

	case entity.Subfolder:
		if err := checkIncoming(forest, v.Id, v.Contents); err != nil {
			return nil, err
		}
		v.ParentFolderId = parentID
		return mutateContainer(forest, parentID, now, func(c *entity.Contents) error {
			c.Subfolders = appendCopy(c.Subfolders, v)
			return nil
		})

	case entity.Task:
		v.FolderId = &parentID
		return mutateContainer(forest, parentID, now, func(c *entity.Contents) error {
			if indexOf(c.Tasks, v.Id) >= 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateId, v.Id)
			}
			c.Tasks = appendCopy(c.Tasks, v)
			return nil
		})

	case entity.Note:
		v.FolderId = &parentID
		return mutateContainer(forest, parentID, now, func(c *entity.Contents) error {
			if indexOf(c.Notes, v.Id) >= 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateId, v.Id)
			}
			c.Notes = appendCopy(c.Notes, v)
			return nil
		})

	case entity.CalendarSchedule:
		v.FolderId = &parentID
		return mutateContainer(forest, parentID, now, func(c *entity.Contents) error {
			if indexOf(c.CalendarSchedules, v.Id) >= 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateId, v.Id)
			}
			c.CalendarSchedules = appendCopy(c.CalendarSchedules, v)
			return nil
		})
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, item)
}

// DeleteItem removes the item with itemID. For folders the whole subtree is
// dropped from the top level; for other kinds the item is removed from the
// container identified by parentID, keeping sibling order.
func DeleteItem(forest []entity.Folder, kind entity.ItemKind, itemID, parentID string, now time.Time) ([]entity.Folder, error) {
	if kind == entity.KindFolder {
		out, ok := removeByID(forest, itemID)
		if !ok {
			return nil, fmt.Errorf("%w: folder %s", ErrItemNotFound, itemID)
		}
		return out, nil
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return mutateContainer(forest, parentID, now, func(c *entity.Contents) error {
		var ok bool
		switch kind {
		case entity.KindSubfolder:
			c.Subfolders, ok = removeByID(c.Subfolders, itemID)
		case entity.KindTask:
			c.Tasks, ok = removeByID(c.Tasks, itemID)
		case entity.KindNote:
			c.Notes, ok = removeByID(c.Notes, itemID)
		case entity.KindSchedule:
			c.CalendarSchedules, ok = removeByID(c.CalendarSchedules, itemID)
		}
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrItemNotFound, kind, itemID)
		}
		return nil
	})
}

// FindContainer returns the folder or subfolder with the given id.
func FindContainer(forest []entity.Folder, id string) (entity.Container, bool) {
	top, path, ok := locate(forest, id)
	if !ok {
		return nil, false
	}
	if len(path) == 0 {
		return forest[top], true
	}
	sub := forest[top].Subfolders[path[0]]
	for _, i := range path[1:] {
		sub = sub.Subfolders[i]
	}
	return sub, true
}

// locate returns the index of the top-level folder owning the container with
// the given id and the subfolder indices leading to it. An empty path means
// the container is the top-level folder itself.
func locate(forest []entity.Folder, id string) (int, []int, bool) {
	for i, f := range forest {
		if f.Id == id {
			return i, nil, true
		}
		if path, ok := locateIn(f.Subfolders, id); ok {
			return i, path, true
		}
	}
	return -1, nil, false
}

func locateIn(subs []entity.Subfolder, id string) ([]int, bool) {
	for i, s := range subs {
		if s.Id == id {
			return []int{i}, true
		}
		if rest, ok := locateIn(s.Subfolders, id); ok {
			return append([]int{i}, rest...), true
		}
	}
	return nil, false
}

// checkIncoming holds a new container and everything nested in it to the
// same rules a loaded snapshot must satisfy: container ids are unique across
// the forest and the subtree, nested subfolders point at their owner, and
// note bodies are well formed.
func checkIncoming(forest []entity.Folder, id string, c entity.Contents) error {
	return checkIncomingIn(forest, id, c, make(map[string]struct{}))
}

func checkIncomingIn(forest []entity.Folder, id string, c entity.Contents, seen map[string]struct{}) error {
	if _, dup := seen[id]; dup || containerExists(forest, id) {
		return fmt.Errorf("%w: %s", ErrDuplicateId, id)
	}
	seen[id] = struct{}{}

	for _, n := range c.Notes {
		for _, b := range n.Body {
			if err := b.Validate(); err != nil {
				return fmt.Errorf("note %s: %w", n.Id, err)
			}
		}
	}
	for _, sub := range c.Subfolders {
		if sub.ParentFolderId != id {
			return fmt.Errorf("%w: subfolder %s points at %s, expected %s", ErrParentMismatch, sub.Id, sub.ParentFolderId, id)
		}
		if err := checkIncomingIn(forest, sub.Id, sub.Contents, seen); err != nil {
			return err
		}
	}
	return nil
}

func containerExists(forest []entity.Folder, id string) bool {
	_, _, ok := locate(forest, id)
	return ok
}

func mutateContainer(forest []entity.Folder, parentID string, now time.Time, fn func(*entity.Contents) error) ([]entity.Folder, error) {
	top, path, ok := locate(forest, parentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}

	folder := forest[top]
	if err := mutatePath(&folder.Contents, path, fn); err != nil {
		return nil, err
	}
	folder.UpdatedAt = touch(folder.UpdatedAt, now)

	out := make([]entity.Folder, len(forest))
	copy(out, forest)
	out[top] = folder
	return out, nil
}

func mutatePath(c *entity.Contents, path []int, fn func(*entity.Contents) error) error {
	if len(path) == 0 {
		return fn(c)
	}

	subs := make([]entity.Subfolder, len(c.Subfolders))
	copy(subs, c.Subfolders)
	child := subs[path[0]]
	if err := mutatePath(&child.Contents, path[1:], fn); err != nil {
		return err
	}
	subs[path[0]] = child
	c.Subfolders = subs
	return nil
}

// touch returns now, or a value just past prev when the clock has not moved.
func touch(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func indexOf[T entity.Item](s []T, id string) int {
	for i, v := range s {
		if v.ItemId() == id {
			return i
		}
	}
	return -1
}

func removeByID[T entity.Item](s []T, id string) ([]T, bool) {
	idx := indexOf(s, id)
	if idx < 0 {
		return s, false
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:idx]...)
	out = append(out, s[idx+1:]...)
	return out, true
}
