package jwt

import "errors"

var (
	// ErrSigningConfig: clave de firma ausente o demasiado corta. Es un error
	// de arranque; no existe clave por defecto.
	ErrSigningConfig = errors.New("jwt: signing key missing or too short")

	// ErrTokenInvalid: firma, algoritmo, formato o expiración inválidos.
	ErrTokenInvalid = errors.New("jwt: invalid token")
)
