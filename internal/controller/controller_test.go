package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/logger"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/internal/repository/contract"
	"workspace-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNoteService struct {
	created   *dto.CreateNoteRequest
	createdBy string
	deleted   *dto.DeleteNoteRequest
	deleteErr error
}

func (f *fakeNoteService) Create(_ context.Context, userId string, req *dto.CreateNoteRequest) (*entity.Note, error) {
	f.created, f.createdBy = req, userId
	return &entity.Note{Id: "n-1", Title: req.Title, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

func (f *fakeNoteService) Delete(_ context.Context, req *dto.DeleteNoteRequest) error {
	f.deleted = req
	return f.deleteErr
}

func (f *fakeNoteService) List(context.Context) ([]entity.Note, error) {
	return []entity.Note{{Id: "n-1", Title: "First"}}, nil
}

type fakeWorkspaceService struct {
	deleted *dto.DeleteItemRequest
	addErr  error
}

func (f *fakeWorkspaceService) GetTree(context.Context) *dto.WorkspaceTreeResponse {
	return &dto.WorkspaceTreeResponse{Version: 3, Folders: []entity.Folder{}, Categories: map[string]workspace.Category{}}
}

func (f *fakeWorkspaceService) AddItem(context.Context, *dto.AddItemRequest) (*dto.AddItemResponse, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &dto.AddItemResponse{Version: 4}, nil
}

func (f *fakeWorkspaceService) DeleteItem(_ context.Context, req *dto.DeleteItemRequest) error {
	f.deleted = req
	return nil
}

func (f *fakeWorkspaceService) GetCategory(_ context.Context, id string) (*dto.CategoryResponse, error) {
	if id == "missing" {
		return nil, fmt.Errorf("classify %s: %w", id, workspace.ErrParentNotFound)
	}
	return &dto.CategoryResponse{Id: id, Category: workspace.CategoryFolder}, nil
}

func (f *fakeWorkspaceService) Close() {}

func asUser(userId string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(serverutils.LocalsUserId, userId)
		return ctx.Next()
	}
}

func newTestApp(notes *fakeNoteService, ws *fakeWorkspaceService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(ErrorMappings...))
	api := app.Group("/api")
	NewNoteController(notes, asUser("user-7")).RegisterRoutes(api)
	NewWorkspaceController(ws, asUser("user-7")).RegisterRoutes(api)
	NewAdminController(logger.NewNopLogger(), asUser("user-7")).RegisterRoutes(api)
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestNoteRoutes(t *testing.T) {
	notes := &fakeNoteService{}
	app := newTestApp(notes, &fakeWorkspaceService{})

	req := httptest.NewRequest(http.MethodPost, "/api/note/v1", strings.NewReader(`{"title":"Plan","tags":["a"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "user-7", notes.createdBy)
	assert.Equal(t, "Plan", notes.created.Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/note/v1", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}

func TestNoteDeleteRequiresConfirmation(t *testing.T) {
	notes := &fakeNoteService{}
	app := newTestApp(notes, &fakeWorkspaceService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/note/v1/n-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, notes.deleted)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/note/v1/n-1?confirm=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, notes.deleted)
	assert.Equal(t, "n-1", notes.deleted.Id)
}

func TestNoteDeleteNotFound(t *testing.T) {
	notes := &fakeNoteService{deleteErr: contract.ErrNoteNotFound}
	app := newTestApp(notes, &fakeWorkspaceService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/note/v1/x?confirm=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "note not found", decode(t, resp)["message"])
}

func TestWorkspaceDeleteItem(t *testing.T) {
	ws := &fakeWorkspaceService{}
	app := newTestApp(&fakeNoteService{}, ws)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/workspace/v1/items/t1?type=task&parentFolderId=f1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, ws.deleted)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/workspace/v1/items/t1?type=task&parentFolderId=f1&confirm=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, &dto.DeleteItemRequest{Id: "t1", Type: entity.KindTask, ParentFolderId: "f1", Confirm: true}, ws.deleted)
}

func TestWorkspaceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		addErr error
		code   int
	}{
		{"unknown parent", fmt.Errorf("add: %w", workspace.ErrParentNotFound), fiber.StatusNotFound},
		{"duplicate id", workspace.ErrDuplicateId, fiber.StatusConflict},
		{"unknown kind", workspace.ErrUnknownKind, fiber.StatusBadRequest},
		{"malformed item", dto.ErrMalformedItem, fiber.StatusBadRequest},
		{"parent mismatch", workspace.ErrParentMismatch, fiber.StatusBadRequest},
		{"missing parent", &serverutils.ValidationError{Fields: map[string]string{"ParentFolderId": "failed on required_unless"}}, fiber.StatusBadRequest},
		{"unexpected", errors.New("disk full"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeNoteService{}, &fakeWorkspaceService{addErr: tt.addErr})
			req := httptest.NewRequest(http.MethodPost, "/api/workspace/v1/items", strings.NewReader(`{"type":"task","parentFolderId":"f1","item":{}}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestWorkspaceTreeAndCategory(t *testing.T) {
	app := newTestApp(&fakeNoteService{}, &fakeWorkspaceService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/workspace/v1", nil))
	require.NoError(t, err)
	data := decode(t, resp)["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["version"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/workspace/v1/containers/s1/category", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/workspace/v1/containers/missing/category", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminLogs(t *testing.T) {
	app := newTestApp(&fakeNoteService{}, &fakeWorkspaceService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/logs?page=2&limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "System logs", decode(t, resp)["message"])
}
