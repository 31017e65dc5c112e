package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace-be/internal/pkg/logger"
	internalWS "workspace-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(secret string) *fiber.App {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New()
	NewEventStreamHandler(hub, secret, logger.NewNopLogger()).RegisterRoutes(app)
	return app
}

func TestServeWsHandshake(t *testing.T) {
	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		target string
		code   int
	}{
		{"missing token", "s3cret", "/ws", fiber.StatusUnauthorized},
		{"bad token", "s3cret", "/ws?token=garbage", fiber.StatusUnauthorized},
		{"valid token without upgrade", "s3cret", "/ws?token=" + valid, fiber.StatusUpgradeRequired},
		{"auth disabled without upgrade", "", "/ws", fiber.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(tt.secret).Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}
