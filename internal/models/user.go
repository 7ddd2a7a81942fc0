package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User account states. A purged user has no row at all, so there is no
// DELETED status value.
const (
	UserStatusActive  = "ACTIVE"
	UserStatusBlocked = "BLOCKED"
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex"`
	Email     string    `json:"email" gorm:"size:100;uniqueIndex"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Role      string    `json:"role" gorm:"size:20;default:USER"`
	Status    string    `json:"status" gorm:"size:20;default:ACTIVE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCompact returns the author/actor shape embedded in feed entries and
// enriched notifications.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// UserCompact is the minimal user projection for embedding in responses.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
