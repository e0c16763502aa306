package jwt

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Locals keys set by NewAuthMiddleware.
const (
	LocalUserID         = "userId"
	LocalTokenID        = "tokenId"
	LocalTokenExpiresAt = "tokenExpiresAt"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets the numeric user id (subject) into c.Locals("userId").
func NewAuthMiddleware(secret, expectedIssuer string, revocations RevocationChecker) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		tokenStr := strings.TrimSpace(authHeader)
		if parts := strings.SplitN(tokenStr, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenStr = strings.TrimSpace(parts[1])
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "empty token"})
		}
		claims, err := Parse(tokenStr, secretBytes, expectedIssuer)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("token revocation lookup failed")
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to verify token"})
			}
			if revoked {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "token has been revoked"})
			}
		}
		uid, _ := claims.UserID()
		c.Locals(LocalUserID, uid)
		c.Locals(LocalTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalTokenExpiresAt, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

// RequireOwner rejects requests whose path parameter does not name the
// authenticated user. It must run after NewAuthMiddleware.
func RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok := c.Locals(LocalUserID).(int64)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "unauthenticated"})
		}
		pathID, err := strconv.ParseInt(c.Params(param), 10, 64)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
		}
		if pathID != uid {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "access to another user's watchlist is forbidden"})
		}
		return c.Next()
	}
}
