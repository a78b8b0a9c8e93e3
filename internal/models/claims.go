package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried in bearer tokens issued by the identity service
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleService = "service"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsInternal reports whether the caller is a collaborating service (or an admin acting as one).
func (c *UserClaims) IsInternal() bool {
	return c.Role == RoleAdmin || c.Role == RoleService
}
