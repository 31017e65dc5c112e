package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"workspace-be/internal/dto"
	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/logger"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/internal/repository/contract"
	"workspace-be/pkg/events"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)

const noteListCacheKey = "notes:all"

type INoteService interface {
	Create(ctx context.Context, userId string, req *dto.CreateNoteRequest) (*entity.Note, error)
	Delete(ctx context.Context, req *dto.DeleteNoteRequest) error
	List(ctx context.Context) ([]entity.Note, error)
}

// NoteMetrics records note operation outcomes. May be nil.
type NoteMetrics interface {
	ObserveNoteOp(op string, err error)
}

type noteService struct {
	repo      contract.NoteRepository
	listCache *cache.Cache
	// listGen changes on every write so a list read that raced a write is
	// not cached. listMu orders the check and Set against invalidation.
	listMu    sync.Mutex
	listGen   atomic.Uint64
	publisher IEventPublisher
	metrics   NoteMetrics
	logger    logger.ILogger
	now       func() time.Time
}

func NewNoteService(
	repo contract.NoteRepository,
	listCacheTTL time.Duration,
	publisher IEventPublisher,
	metrics NoteMetrics,
	log logger.ILogger,
) INoteService {
	return &noteService{
		repo:      repo,
		listCache: cache.New(listCacheTTL, 2*listCacheTTL),
		publisher: publisher,
		metrics:   metrics,
		logger:    log,
		now:       time.Now,
	}
}

func (s *noteService) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveNoteOp(op, err)
	}
}

func (s *noteService) Create(ctx context.Context, userId string, req *dto.CreateNoteRequest) (note *entity.Note, err error) {
	defer func() { s.observe("create", err) }()

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created := entity.Note{
		Id:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
		FolderId:  req.FolderId,
		Tags:      entity.NormalizeTags(req.Tags),
		Owners:    req.Owners,
	}
	if len(created.Body) == 0 {
		created.Body = entity.DefaultNoteBody()
	}
	if len(created.Owners) == 0 && userId != "" && userId != serverutils.AnonymousUser {
		created.Owners = []entity.Owner{{Id: userId}}
	}
	for _, b := range created.Body {
		if err := b.Validate(); err != nil {
			return nil, &serverutils.ValidationError{Fields: map[string]string{"body": err.Error()}}
		}
	}

	if err := s.repo.Create(ctx, &created); err != nil {
		s.logger.Error("NoteService", "Failed to create note", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.invalidateList()

	s.publish(ctx, events.NoteCreated(created.Id, created.Title, now))
	s.logger.Info("NoteService", "Note created", map[string]interface{}{"note_id": created.Id})
	return &created, nil
}

func (s *noteService) Delete(ctx context.Context, req *dto.DeleteNoteRequest) (err error) {
	defer func() { s.observe("delete", err) }()

	if !req.Confirm {
		return ErrConfirmationRequired
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, req.Id); err != nil {
		if errors.Is(err, contract.ErrNoteNotFound) {
			return err
		}
		s.logger.Error("NoteService", "Failed to delete note", map[string]interface{}{"note_id": req.Id, "error": err})
		return fmt.Errorf("delete note %s: %w", req.Id, err)
	}
	s.invalidateList()

	s.publish(ctx, events.NoteDeleted(req.Id, s.now().UTC()))
	s.logger.Info("NoteService", "Note deleted", map[string]interface{}{"note_id": req.Id})
	return nil
}

func (s *noteService) List(ctx context.Context) ([]entity.Note, error) {
	if cached, found := s.listCache.Get(noteListCacheKey); found {
		return entity.CloneNotes(cached.([]entity.Note)), nil
	}

	gen := s.listGen.Load()
	notes, err := s.repo.FindAll(ctx)
	if err != nil {
		s.observe("list", err)
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	s.listMu.Lock()
	if s.listGen.Load() == gen {
		s.listCache.Set(noteListCacheKey, entity.CloneNotes(notes), cache.DefaultExpiration)
	}
	s.listMu.Unlock()
	s.observe("list", nil)
	return notes, nil
}

func (s *noteService) invalidateList() {
	s.listMu.Lock()
	defer s.listMu.Unlock()
	s.listGen.Add(1)
	s.listCache.Delete(noteListCacheKey)
}

func (s *noteService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("NoteService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
