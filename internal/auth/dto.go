package auth

import (
	"github.com/rmolina-dev/pos-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the session token, the authenticated user, and the
// role-indexed dashboard the client should navigate to.
type LoginResponse struct {
	Token    string         `json:"token"`
	User     *users.UserDTO `json:"user"`
	Redirect string         `json:"redirect"`
}

// SignupRequest captures the payload for provisioning a new operator account.
// Role defaults to cashier when omitted.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=storeManager cashier"`
	StoreID  string `json:"store_id" validate:"omitempty,uuid"`
}

// SignupResponse returns the created account.
type SignupResponse struct {
	User *users.UserDTO `json:"user"`
}
