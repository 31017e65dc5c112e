package handler

import (
	"workspace-be/internal/pkg/logger"
	"workspace-be/internal/pkg/serverutils"
	internalWS "workspace-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventStreamHandler upgrades authenticated requests to the workspace
// event stream.
type EventStreamHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewEventStreamHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *EventStreamHandler {
	return &EventStreamHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs authenticates the handshake, then hands the connection to the hub.
func (h *EventStreamHandler) ServeWs(c *fiber.Ctx) error {
	userId := serverutils.AnonymousUser
	if h.jwtSecret != "" {
		tokenStr := serverutils.ExtractToken(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
		}

		var err error
		userId, err = serverutils.ParseUserId(h.jwtSecret, tokenStr)
		if err != nil {
			h.logger.Warn("EventStreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("EventStreamHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userId})
		internalWS.ServeWs(h.hub, conn, userId)
		h.logger.Info("EventStreamHandler", "WebSocket session ended", map[string]interface{}{"user_id": userId})
	})(c)
}

func (h *EventStreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
