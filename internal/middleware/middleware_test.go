package middleware

import (
	"net/http/httptest"
	"testing"

	"calorie-tracker/domain"
	"calorie-tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*fiber.App, jwt.JWTService) {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret")
	m := NewMiddleware("")

	app := fiber.New()
	app.Use(m.CORSMiddleware())
	app.Get("/me", m.AuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string) + "/" + c.Locals("role").(string))
	})
	app.Get("/admin", m.AuthMiddleware(jwtService), m.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, jwtService
}

func TestAuthMiddleware(t *testing.T) {
	app, jwtService := newApp(t)
	token, err := jwtService.GenerateTokenUser("alice", domain.RoleUser, "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	app, jwtService := newApp(t)

	for role, want := range map[string]int{
		domain.RoleUser:  fiber.StatusForbidden,
		domain.RoleAdmin: fiber.StatusNoContent,
	} {
		token, err := jwtService.GenerateTokenUser("u", role, "")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
