package workspace

import (
	"path/filepath"
	"testing"
	"time"

	"workspace-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleForest() []entity.Folder {
	return []entity.Folder{
		{
			Id:        "f1",
			Name:      "Work",
			CreatedAt: t0,
			UpdatedAt: t0,
			Contents: entity.Contents{
				Subfolders: []entity.Subfolder{
					{Id: "s1", Name: "Q1", CreatedAt: t0, ParentFolderId: "f1"},
				},
				Tasks: []entity.Task{
					{Id: "t1", Title: "one", Status: entity.TaskPending, Priority: entity.PriorityLow, CreatedAt: t0},
					{Id: "t2", Title: "two", Status: entity.TaskPending, Priority: entity.PriorityLow, CreatedAt: t0},
					{Id: "t3", Title: "three", Status: entity.TaskPending, Priority: entity.PriorityLow, CreatedAt: t0},
				},
			},
		},
		{Id: "f2", Name: "Home", CreatedAt: t0, UpdatedAt: t0},
	}
}

func TestAddItemTaskToFolder(t *testing.T) {
	forest := sampleForest()
	before := entity.CloneFolders(forest)
	now := t0.Add(time.Hour)

	task := entity.Task{Id: "t4", Title: "four", Status: entity.TaskPending, Priority: entity.PriorityHigh, CreatedAt: now}
	out, err := AddItem(forest, task, "f1", now)
	require.NoError(t, err)

	require.Len(t, out[0].Tasks, len(before[0].Tasks)+1)
	added := out[0].Tasks[len(out[0].Tasks)-1]
	assert.Equal(t, "t4", added.Id)
	require.NotNil(t, added.FolderId)
	assert.Equal(t, "f1", *added.FolderId)
	assert.True(t, out[0].UpdatedAt.After(before[0].UpdatedAt))

	assert.Equal(t, before[1], out[1], "other folders must not change")
	assert.Equal(t, before, forest, "input forest must not be modified")
}

func TestAddItemFolderAppendsToTopLevel(t *testing.T) {
	forest := sampleForest()
	before := entity.CloneFolders(forest)
	parent := "f1"

	out, err := AddItem(forest, entity.Folder{Id: "f3", Name: "New", CreatedAt: t0, ParentFolderId: &parent}, "f1", t0)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "f3", out[2].Id)
	assert.Nil(t, out[2].ParentFolderId)
	assert.Equal(t, t0, out[2].UpdatedAt)
	assert.Equal(t, before, out[:2])
}

func TestAddItemSubfolderScenario(t *testing.T) {
	forest := []entity.Folder{{Id: "f1", Name: "Work", CreatedAt: t0, UpdatedAt: t0}}
	now := t0.Add(time.Minute)

	out, err := AddItem(forest, entity.Subfolder{Id: "s1", Name: "Sub", CreatedAt: now}, "f1", now)
	require.NoError(t, err)

	require.Len(t, out, 1)
	require.Len(t, out[0].Subfolders, 1)
	assert.Equal(t, "s1", out[0].Subfolders[0].Id)
	assert.Equal(t, "f1", out[0].Subfolders[0].ParentFolderId)
	assert.Equal(t, now, out[0].UpdatedAt)
}

func TestAddItemIntoNestedSubfolder(t *testing.T) {
	forest := sampleForest()
	now := t0.Add(time.Hour)

	note := entity.Note{Id: "n1", Title: "nested", CreatedAt: now, Body: entity.DefaultNoteBody()}
	out, err := AddItem(forest, note, "s1", now)
	require.NoError(t, err)

	require.Len(t, out[0].Subfolders[0].Notes, 1)
	assert.Equal(t, "s1", *out[0].Subfolders[0].Notes[0].FolderId)
	assert.Equal(t, now, out[0].UpdatedAt)
	assert.Empty(t, forest[0].Subfolders[0].Notes)
}

func TestAddItemUnknownParent(t *testing.T) {
	forest := sampleForest()
	_, err := AddItem(forest, entity.Task{Id: "x", Title: "x"}, "missing", t0)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestAddItemDuplicateContainerId(t *testing.T) {
	forest := sampleForest()
	_, err := AddItem(forest, entity.Subfolder{Id: "f2", Name: "dup", CreatedAt: t0}, "f1", t0)
	assert.ErrorIs(t, err, ErrDuplicateId)
}

func TestAddItemChecksIncomingSubtree(t *testing.T) {
	nested := func(id, parent string, children ...entity.Subfolder) entity.Subfolder {
		return entity.Subfolder{Id: id, Name: id, CreatedAt: t0, ParentFolderId: parent,
			Contents: entity.Contents{Subfolders: children}}
	}

	tests := []struct {
		name   string
		item   entity.Item
		parent string
		want   error
	}{
		{"nested id reuses a folder", nested("s9", "f1", nested("f1", "s9")), "f1", ErrDuplicateId},
		{"nested id reuses a subfolder", nested("s9", "f1", nested("s1", "s9")), "f1", ErrDuplicateId},
		{"id repeats inside subtree", nested("s9", "f1", nested("s10", "s9", nested("s9", "s10"))), "f1", ErrDuplicateId},
		{"nested parent mismatch", nested("s9", "f1", nested("s10", "nope")), "f1", ErrParentMismatch},
		{"folder with mismatched child", entity.Folder{Id: "f3", Name: "New", CreatedAt: t0,
			Contents: entity.Contents{Subfolders: []entity.Subfolder{nested("s9", "nope")}}}, "", ErrParentMismatch},
		{"malformed nested note", entity.Folder{Id: "f3", Name: "New", CreatedAt: t0,
			Contents: entity.Contents{Notes: []entity.Note{{Id: "n1", Title: "x", CreatedAt: t0,
				Body: []entity.NoteBlock{{Type: entity.BlockList, Text: "oops"}}}}}}, "", entity.ErrBlockShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := sampleForest()
			before := entity.CloneFolders(forest)

			_, err := AddItem(forest, tt.item, tt.parent, t0.Add(time.Hour))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, forest)
		})
	}
}

func TestAddItemNestedSubtreeSurvivesReload(t *testing.T) {
	folder := entity.Folder{Id: "f3", Name: "New", CreatedAt: t0,
		Contents: entity.Contents{Subfolders: []entity.Subfolder{{
			Id: "s9", Name: "inner", CreatedAt: t0, ParentFolderId: "f3",
			Contents: entity.Contents{Subfolders: []entity.Subfolder{{Id: "s10", Name: "deep", CreatedAt: t0, ParentFolderId: "s9"}}},
		}}}}

	out, err := AddItem(sampleForest(), folder, "", t0)
	require.NoError(t, err)
	require.NoError(t, ValidateForest(out))

	path := filepath.Join(t.TempDir(), "workspace.json")
	require.NoError(t, SaveSnapshot(path, out))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestDeleteItemKeepsSiblingOrder(t *testing.T) {
	forest := sampleForest()
	now := t0.Add(time.Hour)

	out, err := DeleteItem(forest, entity.KindTask, "t2", "f1", now)
	require.NoError(t, err)

	ids := []string{}
	for _, task := range out[0].Tasks {
		ids = append(ids, task.Id)
	}
	assert.Equal(t, []string{"t1", "t3"}, ids)
	assert.Equal(t, now, out[0].UpdatedAt)
	assert.Len(t, forest[0].Tasks, 3)
}

func TestDeleteItemFolderRemovesSubtree(t *testing.T) {
	out, err := DeleteItem(sampleForest(), entity.KindFolder, "f1", "", t0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "f2", out[0].Id)

	_, ok := FindContainer(out, "s1")
	assert.False(t, ok)
}

func TestDeleteItemErrors(t *testing.T) {
	tests := []struct {
		name     string
		kind     entity.ItemKind
		itemID   string
		parentID string
		wantErr  error
	}{
		{"missing parent", entity.KindTask, "t1", "nope", ErrParentNotFound},
		{"missing item", entity.KindTask, "nope", "f1", ErrItemNotFound},
		{"missing folder", entity.KindFolder, "nope", "", ErrItemNotFound},
		{"bad kind", entity.ItemKind("widget"), "t1", "f1", ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeleteItem(sampleForest(), tt.kind, tt.itemID, tt.parentID, t0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTouchIsStrictlyIncreasing(t *testing.T) {
	assert.True(t, touch(t0, t0).After(t0))
	assert.True(t, touch(t0, t0.Add(-time.Hour)).After(t0))
	assert.Equal(t, t0.Add(time.Second), touch(t0, t0.Add(time.Second)))
}

func TestNewIDFormat(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	id := NewIDAt(at)
	assert.Regexp(t, `^1700000000123-[0-9a-z]{7}$`, id)
	assert.NotEqual(t, NewID(), NewID())
}
