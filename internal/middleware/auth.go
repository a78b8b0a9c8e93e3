// Package middleware provides the fiber middleware guarding the API.
package middleware

import (
	"strings"

	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware validates HS256 bearer tokens issued by the identity service
// and stores the claims in the request context.
type AuthMiddleware struct {
	secret string
	log    *zap.Logger
}

func NewAuthMiddleware(secret string, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: secret,
		log:    logger.OrNop(log).Named("auth"),
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(m.secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token rejected", zap.String("ip", c.IP()), zap.Error(err))
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireAdmin lets through only callers with the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	return requireRole(c, (*models.UserClaims).IsAdmin)
}

// RequireInternal lets through collaborating services such as the order and identity services.
func RequireInternal(c *fiber.Ctx) error {
	return requireRole(c, (*models.UserClaims).IsInternal)
}

func requireRole(c *fiber.Ctx, allowed func(*models.UserClaims) bool) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !allowed(claims) {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}
