package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried by platform access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleTeacher    UserRole = "teacher"
	RoleParent     UserRole = "parent"
)

// JWTClaims represents the access token payload issued by the platform auth service.
type JWTClaims struct {
	UserID     string   `json:"sub_id,omitempty"`
	Role       UserRole `json:"role" validate:"required,oneof=superadmin admin teacher parent"`
	Email      string   `json:"email" validate:"omitempty,email"`
	MadrasahID string   `json:"madrasah_id" validate:"required_unless=Role superadmin"`
	jwt.RegisteredClaims
}

// ActorID returns the user id, falling back to the registered subject claim.
func (c *JWTClaims) ActorID() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
