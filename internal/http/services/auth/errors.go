package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: input rechazado antes de tocar storage. Ver *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrCredential: falló el hashing de la password en el registro.
	ErrCredential = errors.New("credential hashing failed")

	// ErrInvalidCredentials es el único error de login visible para el
	// cliente ante identidad inexistente, legacy o password incorrecta.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPersistence: falla del storage (incluye duplicados y ctx cancelado).
	ErrPersistence = errors.New("persistence failure")

	// ErrTokenIssue: el login fue correcto pero no se pudo firmar el token.
	ErrTokenIssue = errors.New("token issuance failed")
)

// ValidationError indica qué campo falló y por qué.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Motivos internos de un login rechazado. Se loguean y se pueden asertar en
// tests; el cliente siempre ve ErrInvalidCredentials.
const (
	ReasonNotFound         = "not_found"
	ReasonLookupFailed     = "lookup_failed"
	ReasonNoCredential     = "no_credential"
	ReasonPasswordMismatch = "password_mismatch"
)

// CredentialsError es la variante explícita de "credenciales inválidas".
// Error() es idéntico para todos los motivos.
type CredentialsError struct {
	Reason string
	Err    error
}

func (e *CredentialsError) Error() string { return ErrInvalidCredentials.Error() }

func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

func (e *CredentialsError) Unwrap() error { return e.Err }

func invalidCredentials(reason string, cause error) error {
	return &CredentialsError{Reason: reason, Err: cause}
}
