package api

import (
	"strings"

	"github.com/example/todo-api-demo/modules/auth"
	"github.com/example/todo-api-demo/modules/ratelimit"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates bearer tokens.
//
// Every failure mode (missing header, wrong scheme, bad signature, expired
// token, missing subject) produces the identical 401 response, so callers
// cannot learn anything about why a token was rejected.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthorized(c)
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c)
		}

		// Store claims for handlers and the user id for rate limiting
		c.Locals(UserContextKey, claims)
		c.Locals(ratelimit.UserIDLocalsKey, claims.UserID)

		return c.Next()
	}
}

// unauthorized sends the uniform authentication failure response.
func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "Invalid or expired token",
	})
}
