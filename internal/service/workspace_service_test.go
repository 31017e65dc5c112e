package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/pkg/events"
	"workspace-be/pkg/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedForest() []entity.Folder {
	return []entity.Folder{
		{
			Id:        "f1",
			Name:      "Work",
			CreatedAt: t0,
			UpdatedAt: t0,
			Contents: entity.Contents{
				Subfolders: []entity.Subfolder{
					{Id: "s1", Name: "Reading", CreatedAt: t0, ParentFolderId: "f1", Contents: entity.Contents{
						Notes: []entity.Note{{Id: "n1", Title: "Paper", CreatedAt: t0}},
					}},
				},
				Tasks: []entity.Task{
					{Id: "t1", Title: "one", Status: entity.TaskPending, Priority: entity.PriorityLow, CreatedAt: t0},
				},
			},
		},
		{
			Id:        "f2",
			Name:      "Chores",
			CreatedAt: t0,
			UpdatedAt: t0,
			Contents: entity.Contents{
				Tasks: []entity.Task{
					{Id: "t9", Title: "laundry", Status: entity.TaskPending, Priority: entity.PriorityLow, CreatedAt: t0},
				},
			},
		},
	}
}

func newWorkspaceFixture(t *testing.T, snapshotPath string) (*workspaceService, *workspace.Store, *recordingPublisher, *opRecorder) {
	t.Helper()
	store := workspace.NewStore(seedForest())
	pub := &recordingPublisher{}
	ops := &opRecorder{}
	svc := NewWorkspaceService(store, snapshotPath, pub, ops, nopLogger).(*workspaceService)
	svc.newID = func() string { return "1700000000000-abcdefg" }
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	t.Cleanup(svc.Close)
	return svc, store, pub, ops
}

func TestWorkspaceAddTaskFillsDefaults(t *testing.T) {
	svc, store, pub, ops := newWorkspaceFixture(t, "")

	res, err := svc.AddItem(context.Background(), &dto.AddItemRequest{
		Type:           entity.KindTask,
		ParentFolderId: "f1",
		Item:           []byte(`{"title":"Write report"}`),
	})
	require.NoError(t, err)

	task, ok := res.Item.(entity.Task)
	require.True(t, ok)
	assert.Equal(t, "1700000000000-abcdefg", task.Id)
	assert.Equal(t, entity.TaskPending, task.Status)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	require.NotNil(t, task.FolderId)
	assert.Equal(t, "f1", *task.FolderId)
	assert.Equal(t, uint64(1), res.Version)

	stored := store.Snapshot()[0].Tasks
	require.Len(t, stored, 2)
	assert.Equal(t, task, stored[1])

	assert.Equal(t, []string{events.TypeWorkspaceChanged}, pub.types())
	assert.Equal(t, []string{"add:task:ok"}, ops.ops)
}

func TestWorkspaceAddSubfolderIntoNestedParent(t *testing.T) {
	svc, store, _, _ := newWorkspaceFixture(t, "")

	_, err := svc.AddItem(context.Background(), &dto.AddItemRequest{
		Type:           entity.KindSubfolder,
		ParentFolderId: "s1",
		Item:           []byte(`{"id":"s2","name":"Archive"}`),
	})
	require.NoError(t, err)

	c, ok := store.Find("s2")
	require.True(t, ok)
	assert.Equal(t, "s1", c.(entity.Subfolder).ParentFolderId)
}

func TestWorkspaceAddItemErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.AddItemRequest
		wantErr error
	}{
		{
			name:    "unknown parent",
			req:     dto.AddItemRequest{Type: entity.KindTask, ParentFolderId: "nope", Item: []byte(`{"title":"x"}`)},
			wantErr: workspace.ErrParentNotFound,
		},
		{
			name:    "duplicate task",
			req:     dto.AddItemRequest{Type: entity.KindTask, ParentFolderId: "f1", Item: []byte(`{"id":"t1","title":"x"}`)},
			wantErr: workspace.ErrDuplicateId,
		},
		{
			name:    "unknown kind",
			req:     dto.AddItemRequest{Type: "board", ParentFolderId: "f1", Item: []byte(`{}`)},
			wantErr: workspace.ErrUnknownKind,
		},
		{
			name:    "malformed item",
			req:     dto.AddItemRequest{Type: entity.KindNote, ParentFolderId: "f1", Item: []byte(`[]`)},
			wantErr: dto.ErrMalformedItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub, _ := newWorkspaceFixture(t, "")
			before := store.Snapshot()

			_, err := svc.AddItem(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, store.Snapshot())
			assert.Empty(t, pub.types())
		})
	}
}

func TestWorkspaceAddItemValidation(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(t, "")

	_, err := svc.AddItem(context.Background(), &dto.AddItemRequest{
		Type:           entity.KindTask,
		ParentFolderId: "f1",
		Item:           []byte(`{"status":"blocked"}`),
	})

	var verr *serverutils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Title")
	assert.Contains(t, verr.Fields, "Status")
}

func TestWorkspaceAddItemRequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.AddItemRequest
		field string
	}{
		{"task without parent", dto.AddItemRequest{Type: entity.KindTask, Item: []byte(`{"title":"x"}`)}, "ParentFolderId"},
		{"note without parent", dto.AddItemRequest{Type: entity.KindNote, Item: []byte(`{"title":"x"}`)}, "ParentFolderId"},
		{"missing type", dto.AddItemRequest{ParentFolderId: "f1", Item: []byte(`{"title":"x"}`)}, "Type"},
		{"missing item", dto.AddItemRequest{Type: entity.KindTask, ParentFolderId: "f1"}, "Item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub, _ := newWorkspaceFixture(t, "")
			before := store.Snapshot()

			_, err := svc.AddItem(context.Background(), &tt.req)

			var verr *serverutils.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Equal(t, before, store.Snapshot())
			assert.Empty(t, pub.types())
		})
	}
}

func TestWorkspaceAddFolderNeedsNoParent(t *testing.T) {
	svc, store, _, _ := newWorkspaceFixture(t, "")

	_, err := svc.AddItem(context.Background(), &dto.AddItemRequest{
		Type: entity.KindFolder,
		Item: []byte(`{"id":"f9","name":"Top"}`),
	})
	require.NoError(t, err)
	_, ok := store.Find("f9")
	assert.True(t, ok)
}

func TestWorkspaceDeleteRequiresConfirmation(t *testing.T) {
	svc, store, pub, _ := newWorkspaceFixture(t, "")
	before := store.Snapshot()

	err := svc.DeleteItem(context.Background(), &dto.DeleteItemRequest{Id: "t1", Type: entity.KindTask, ParentFolderId: "f1"})
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, pub.types())

	err = svc.DeleteItem(context.Background(), &dto.DeleteItemRequest{Id: "t1", Type: entity.KindTask, ParentFolderId: "f1", Confirm: true})
	require.NoError(t, err)
	assert.Empty(t, store.Snapshot()[0].Tasks)
	assert.Equal(t, []string{events.TypeWorkspaceChanged}, pub.types())
}

func TestWorkspaceDeleteMissingItem(t *testing.T) {
	svc, _, _, ops := newWorkspaceFixture(t, "")

	err := svc.DeleteItem(context.Background(), &dto.DeleteItemRequest{Id: "ghost", Type: entity.KindNote, ParentFolderId: "f1", Confirm: true})
	assert.ErrorIs(t, err, workspace.ErrItemNotFound)
	assert.Equal(t, []string{"delete:note:error"}, ops.ops)
}

func TestWorkspaceCategories(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(t, "")

	tree := svc.GetTree(context.Background())
	assert.Equal(t, map[string]workspace.Category{
		"f1": workspace.CategoryFolder,
		"s1": workspace.CategoryNote,
		"f2": workspace.CategoryTask,
	}, tree.Categories)

	cat, err := svc.GetCategory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, workspace.CategoryNote, cat.Category)

	_, err = svc.GetCategory(context.Background(), "missing")
	assert.ErrorIs(t, err, workspace.ErrParentNotFound)
}

func TestWorkspacePersistsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	svc, _, _, _ := newWorkspaceFixture(t, path)

	_, err := svc.AddItem(context.Background(), &dto.AddItemRequest{
		Type: entity.KindFolder,
		Item: []byte(`{"id":"f3","name":"Travel"}`),
	})
	require.NoError(t, err)

	loaded, err := workspace.LoadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "f3", loaded[2].Id)
}
