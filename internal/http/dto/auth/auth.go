// Package auth contiene DTOs para endpoints de autenticación.
package auth

import "github.com/dropDatabas3/chasqui/internal/domain/rbac"

// RegisterRequest es el body de POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse es la respuesta 201 del registro.
type RegisterResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	Message  string   `json:"message"`
}

// LoginRequest acepta email y/o username. Identifier es un atajo: si
// contiene "@" se usa como email, si no como username.
type LoginRequest struct {
	Identifier string `json:"identifier,omitempty"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password"`
}

// LoginResponse es la respuesta exitosa de login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // segundos
	ExpiresAt   int64  `json:"expires_at"` // unix
}

// MeResponse es la vista de las claims del token actual.
type MeResponse struct {
	Sub         string   `json:"sub"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IssuedAt    int64    `json:"iat"`
	ExpiresAt   int64    `json:"exp"`
}

// RolesResponse lista el catálogo de roles.
type RolesResponse struct {
	Roles []rbac.Role `json:"roles"`
}
