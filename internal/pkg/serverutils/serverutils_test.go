package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("thing not found")

func TestErrorHandlerMiddleware(t *testing.T) {
	type body struct {
		Title string `validate:"required"`
	}

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(StatusMapping{Err: errMissing, Code: fiber.StatusNotFound}))
	app.Get("/missing", func(c *fiber.Ctx) error { return fmt.Errorf("lookup: %w", errMissing) })
	app.Get("/invalid", func(c *fiber.Ctx) error { return ValidateRequest(body{}) })
	app.Get("/conflict", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "already there") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/missing", 404, "lookup: thing not found"},
		{"/invalid", 400, "validation failed: Title is required"},
		{"/conflict", 409, "already there"},
		{"/boom", 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			var got BaseResponse[any]
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.False(t, got.Success)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	app := fiber.New()
	app.Get("/me", NewJwtMiddleware(secret), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalsUserId).(string))
	})

	valid := sign(jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(time.Hour).Unix()})
	expired := sign(jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"header", "Bearer " + valid, "", 200},
		{"query", "", "?token=" + valid, 200},
		{"missing", "", "", 401},
		{"expired", "Bearer " + expired, "", 401},
		{"garbage", "Bearer abc", "", 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestJwtMiddlewareWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Get("/me", NewJwtMiddleware(""), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalsUserId).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, AnonymousUser, string(raw))
}
