package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/logger"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/pkg/events"
	"workspace-be/pkg/workspace"
)

type IWorkspaceService interface {
	GetTree(ctx context.Context) *dto.WorkspaceTreeResponse
	AddItem(ctx context.Context, req *dto.AddItemRequest) (*dto.AddItemResponse, error)
	DeleteItem(ctx context.Context, req *dto.DeleteItemRequest) error
	GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error)
	Close()
}

// WorkspaceMetrics records tree mutation outcomes. May be nil.
type WorkspaceMetrics interface {
	ObserveWorkspaceOp(op, kind string, err error)
}

type workspaceService struct {
	store       *workspace.Store
	publisher   IEventPublisher
	metrics     WorkspaceMetrics
	logger      logger.ILogger
	newID       func() string
	now         func() time.Time
	unsubscribe func()
}

func NewWorkspaceService(
	store *workspace.Store,
	snapshotPath string,
	publisher IEventPublisher,
	metrics WorkspaceMetrics,
	log logger.ILogger,
) IWorkspaceService {
	s := &workspaceService{
		store:       store,
		publisher:   publisher,
		metrics:     metrics,
		logger:      log,
		newID:       workspace.NewID,
		now:         time.Now,
		unsubscribe: func() {},
	}
	if snapshotPath != "" {
		p := &snapshotPersister{path: snapshotPath, logger: log}
		s.unsubscribe = store.Subscribe(p.save)
	}
	return s
}

func (s *workspaceService) Close() {
	s.unsubscribe()
}

func (s *workspaceService) GetTree(ctx context.Context) *dto.WorkspaceTreeResponse {
	version := s.store.Version()
	forest := s.store.Snapshot()

	categories := make(map[string]workspace.Category)
	for _, f := range forest {
		collectCategories(f, categories)
	}
	return &dto.WorkspaceTreeResponse{
		Version:    version,
		Folders:    forest,
		Categories: categories,
	}
}

func collectCategories(c entity.Container, into map[string]workspace.Category) {
	into[c.ContainerId()] = workspace.Classify(c)
	for _, sub := range c.Content().Subfolders {
		collectCategories(sub, into)
	}
}

func (s *workspaceService) AddItem(ctx context.Context, req *dto.AddItemRequest) (res *dto.AddItemResponse, err error) {
	defer func() { s.observe("add", string(req.Type), err) }()

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	item, err := req.DecodeItem()
	if err != nil {
		return nil, err
	}
	item = s.withDefaults(item, req.ParentFolderId)
	if err := serverutils.ValidateRequest(item); err != nil {
		return nil, err
	}

	if _, err := s.store.AddItem(item, req.ParentFolderId); err != nil {
		return nil, err
	}
	version := s.store.Version()

	s.publish(ctx, events.WorkspaceChanged(version, "add", string(item.Kind()), item.ItemId(), req.ParentFolderId, s.now().UTC()))
	s.logger.Info("WorkspaceService", "Item added", map[string]interface{}{
		"type":      item.Kind(),
		"item_id":   item.ItemId(),
		"parent_id": req.ParentFolderId,
	})
	return &dto.AddItemResponse{Version: version, Item: placed(item, req.ParentFolderId)}, nil
}

// DeleteItem removes an item once the caller has confirmed the deletion.
func (s *workspaceService) DeleteItem(ctx context.Context, req *dto.DeleteItemRequest) (err error) {
	defer func() { s.observe("delete", string(req.Type), err) }()

	if !req.Confirm {
		return ErrConfirmationRequired
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if !req.Type.Valid() {
		return fmt.Errorf("%w: %q", workspace.ErrUnknownKind, req.Type)
	}

	if _, err := s.store.DeleteItem(req.Type, req.Id, req.ParentFolderId); err != nil {
		return err
	}

	s.publish(ctx, events.WorkspaceChanged(s.store.Version(), "delete", string(req.Type), req.Id, req.ParentFolderId, s.now().UTC()))
	s.logger.Info("WorkspaceService", "Item deleted", map[string]interface{}{
		"type":      req.Type,
		"item_id":   req.Id,
		"parent_id": req.ParentFolderId,
	})
	return nil
}

func (s *workspaceService) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, ok := s.store.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: container %s", workspace.ErrParentNotFound, id)
	}
	return &dto.CategoryResponse{Id: id, Category: workspace.Classify(c)}, nil
}

// withDefaults fills what a client may omit: id, creation time, the
// subfolder back-reference and task/note defaults.
func (s *workspaceService) withDefaults(item entity.Item, parentId string) entity.Item {
	now := s.now().UTC()
	id := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return s.newID()
		}
		return v
	}
	created := func(t time.Time) time.Time {
		if t.IsZero() {
			return now
		}
		return t
	}

	switch v := item.(type) {
	case entity.Folder:
		v.Id, v.CreatedAt = id(v.Id), created(v.CreatedAt)
		return v
	case entity.Subfolder:
		v.Id, v.CreatedAt = id(v.Id), created(v.CreatedAt)
		v.ParentFolderId = parentId
		return v
	case entity.Task:
		v.Id, v.CreatedAt = id(v.Id), created(v.CreatedAt)
		if v.Status == "" {
			v.Status = entity.TaskPending
		}
		if v.Priority == "" {
			v.Priority = entity.PriorityMedium
		}
		return v
	case entity.Note:
		v.Id, v.CreatedAt = id(v.Id), created(v.CreatedAt)
		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = v.CreatedAt
		}
		if len(v.Body) == 0 {
			v.Body = entity.DefaultNoteBody()
		}
		v.Tags = entity.NormalizeTags(v.Tags)
		return v
	case entity.CalendarSchedule:
		v.Id, v.CreatedAt = id(v.Id), created(v.CreatedAt)
		return v
	}
	return item
}

// placed mirrors the parent bookkeeping AddItem performs so the response
// shows the item as stored.
func placed(item entity.Item, parentId string) entity.Item {
	switch v := item.(type) {
	case entity.Folder:
		v.ParentFolderId = nil
		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = v.CreatedAt
		}
		return v
	case entity.Task:
		v.FolderId = &parentId
		return v
	case entity.Note:
		v.FolderId = &parentId
		return v
	case entity.CalendarSchedule:
		v.FolderId = &parentId
		return v
	}
	return item
}

func (s *workspaceService) observe(op, kind string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveWorkspaceOp(op, kind, err)
	}
}

func (s *workspaceService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("WorkspaceService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// snapshotPersister writes the forest after each change. Deliveries can
// arrive out of order across goroutines, so older versions are skipped.
type snapshotPersister struct {
	mu      sync.Mutex
	path    string
	written uint64
	logger  logger.ILogger
}

func (p *snapshotPersister) save(change workspace.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if change.Version <= p.written {
		return
	}
	if err := workspace.SaveSnapshot(p.path, change.Folders); err != nil {
		p.logger.Error("WorkspaceService", "Failed to persist workspace snapshot", map[string]interface{}{
			"path":    p.path,
			"version": change.Version,
			"error":   err,
		})
		return
	}
	p.written = change.Version
}
