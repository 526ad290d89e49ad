package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
)

type identityRepo struct{ pool *pgxpool.Pool }

// nullIfEmpty devuelve nil para strings vacíos (columnas opcionales).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *identityRepo) Create(ctx context.Context, u *identity.Identity) (*identity.Identity, error) {
	if u == nil || u.ID == "" || u.Username == "" {
		return nil, repository.ErrInvalidInput
	}
	stored := u.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	doc, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("pg: encode identity: %w", err)
	}

	const query = `
		INSERT INTO identity (id, username, email, doc, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	email := strings.ToLower(strings.TrimSpace(stored.Email))
	if _, err := r.pool.Exec(ctx, query, stored.ID, stored.Username, nullIfEmpty(email), doc, stored.CreatedAt); err != nil {
		return nil, mapErr("create identity", err)
	}
	return stored, nil
}

func (r *identityRepo) GetByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	const query = `SELECT doc FROM identity WHERE username = $1`
	return r.getOne(ctx, "get identity by username", query, username)
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	// registros legacy (sin hash) no se resuelven por email
	const query = `
		SELECT doc FROM identity
		WHERE email = $1 AND COALESCE(doc->>'password_hash', '') <> ''
	`
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "get identity by email", query, email)
}

func (r *identityRepo) getOne(ctx context.Context, op, query string, arg any) (*identity.Identity, error) {
	var doc []byte
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&doc); err != nil {
		return nil, mapErr(op, err)
	}
	var u identity.Identity
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, fmt.Errorf("pg: decode identity: %w", err)
	}
	return &u, nil
}
