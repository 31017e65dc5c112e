package bootstrap

import (
	"context"
	"fmt"
	"time"

	"workspace-be/internal/config"
	"workspace-be/internal/controller"
	"workspace-be/internal/handler"
	"workspace-be/internal/metrics"
	"workspace-be/internal/pkg/logger"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/internal/repository/contract"
	"workspace-be/internal/repository/filestore"
	"workspace-be/internal/repository/implementation"
	"workspace-be/internal/service"
	"workspace-be/internal/websocket"
	"workspace-be/pkg/workspace"

	pktNats "workspace-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController      controller.INoteController
	WorkspaceController controller.IWorkspaceController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventStreamHandler *handler.EventStreamHandler
	WebSocketHub       *websocket.Hub

	Metrics *metrics.Metrics
	Logger  logger.ILogger

	closers []func()
}

// NewContainer wires every component. db is only used when the note store
// driver is "postgres" and may be nil otherwise. NATS and Redis are optional;
// the container degrades to in-process delivery when they are unreachable.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	m := metrics.New()
	auth := serverutils.NewJwtMiddleware(cfg.App.JwtSecret)
	c := &Container{Metrics: m, Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { pubSub.Close() })

	var durable service.DurablePublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			durable = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb = newRedisClient(cfg.App.RedisURL, sysLogger)
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// 3. Repositories
	noteRepo, err := newNoteRepository(db, cfg)
	if err != nil {
		return nil, err
	}

	forest, err := workspace.LoadSnapshot(cfg.Workspace.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("load workspace snapshot: %w", err)
	}
	store := workspace.NewStore(forest)
	sysLogger.Info("Bootstrap", "Workspace loaded", map[string]interface{}{
		"path":    cfg.Workspace.SnapshotPath,
		"folders": len(forest),
	})

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub, durable, m.ObserveEvent, sysLogger)

	snapshotPath := ""
	if cfg.Workspace.Persist {
		snapshotPath = cfg.Workspace.SnapshotPath
	}
	workspaceService := service.NewWorkspaceService(store, snapshotPath, publisherService, m, sysLogger)
	c.closers = append(c.closers, workspaceService.Close)

	listTTL := time.Duration(cfg.Store.ListCacheTTLSeconds) * time.Second
	noteService := service.NewNoteService(noteRepo, listTTL, publisherService, m, sysLogger)

	// 5. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger, websocket.WithConnectionHooks(m.ClientConnected, m.ClientDisconnected))
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, c.WebSocketHub, sysLogger)

	// 6. Controllers
	c.NoteController = controller.NewNoteController(noteService, auth)
	c.WorkspaceController = controller.NewWorkspaceController(workspaceService, auth)
	c.AdminController = controller.NewAdminController(sysLogger, auth)
	c.EventStreamHandler = handler.NewEventStreamHandler(c.WebSocketHub, cfg.App.JwtSecret, wsLogger)

	return c, nil
}

// Close releases background resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

func newNoteRepository(db *gorm.DB, cfg *config.Config) (contract.NoteRepository, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("store driver postgres requires DB_CONNECTION_STRING")
		}
		return implementation.NewNoteRepository(db), nil
	case "file", "":
		repo, err := filestore.NewNoteRepository(cfg.Store.NotesFilePath)
		if err != nil {
			return nil, fmt.Errorf("open note file store: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	return rdb
}
