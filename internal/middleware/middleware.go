package middleware

import (
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/internal/api/presenters"
	"calorie-tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminOnly() fiber.Handler
	}

	middleware struct {
		allowOrigins string
	}
)

// NewMiddleware allows the given comma separated origins, or any origin
// when empty.
func NewMiddleware(allowOrigins string) Middleware {
	if strings.TrimSpace(allowOrigins) == "" {
		allowOrigins = "*"
	}
	return &middleware{allowOrigins: allowOrigins}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: m.allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

// AuthMiddleware stores user_id, role and name in Locals. Event streams
// cannot set headers, so a token query parameter is accepted as well.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
			}
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else {
			token = c.Query("token")
		}
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		claims, err := jwtService.GetUserByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("name", claims.Name)
		return c.Next()
	}
}

func (m *middleware) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}
