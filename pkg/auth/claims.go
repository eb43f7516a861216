package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/enums"
)

// SessionPayload captures the data available when minting a session token.
type SessionPayload struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
	Name    string
	Email   string
	Active  bool
	Role    enums.Role
	JTI     string
}

// SessionClaims represents the typed JWT carried in the session cookie.
type SessionClaims struct {
	UserID  uuid.UUID  `json:"user_id"`
	StoreID uuid.UUID  `json:"store_id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Active  bool       `json:"active"`
	Role    enums.Role `json:"role"`
	jwt.RegisteredClaims
}
