package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"refnet/internal/models"
	"refnet/internal/ratelimit"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newAuthApp(guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{NewAuthMiddleware(secret, nil).Handler}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})
	app.Get("/", handlers...)
	return app
}

func bearer(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(secret, userID, role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer abc", fiber.StatusUnauthorized},
		{"valid token", bearer(t, 7, models.RoleUser), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoleGuards(t *testing.T) {
	admin := newAuthApp(RequireAdmin)
	internal := newAuthApp(RequireInternal)

	check := func(app *fiber.App, role string, want int) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", bearer(t, 1, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}

	check(admin, models.RoleAdmin, fiber.StatusOK)
	check(admin, models.RoleUser, fiber.StatusForbidden)
	check(admin, models.RoleService, fiber.StatusForbidden)
	check(internal, models.RoleService, fiber.StatusOK)
	check(internal, models.RoleAdmin, fiber.StatusOK)
	check(internal, models.RoleUser, fiber.StatusForbidden)
}

func TestRateLimit(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Minute)
	defer store.Close()

	app := fiber.New()
	app.Use(RateLimit(ratelimit.NewLimiter(store, 2, time.Minute), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

type brokenStore struct{}

func (brokenStore) Increment(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(ratelimit.NewLimiter(brokenStore{}, 1, time.Minute), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}
