// Package memory implementa un adapter in-process. Sirve para desarrollo y
// tests; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	"github.com/dropDatabas3/chasqui/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.AdapterConnection, error) {
	return NewConnection(), nil
}

// Connection guarda identidades y tareas en maps protegidos por RWMutex.
type Connection struct {
	ids   *identityRepo
	tasks *taskRepo
}

// NewConnection crea una conexión vacía (útil en tests sin pasar por el registry).
func NewConnection() *Connection {
	return &Connection{
		ids: &identityRepo{
			byID:       map[string]*identity.Identity{},
			byUsername: map[string]string{},
			usernames:  map[string]struct{}{},
			byEmail:    map[string]string{},
		},
		tasks: &taskRepo{byID: map[string]repository.Task{}},
	}
}

func (c *Connection) Name() string                   { return "memory" }
func (c *Connection) Ping(ctx context.Context) error { return ctx.Err() }
func (c *Connection) Close() error                   { return nil }

func (c *Connection) Identities() repository.IdentityRepository { return c.ids }
func (c *Connection) Tasks() repository.TaskRepository          { return c.tasks }

// ─── IdentityRepository ───

type identityRepo struct {
	mu         sync.RWMutex
	byID       map[string]*identity.Identity
	byUsername map[string]string   // username -> id (lookup exacto)
	usernames  map[string]struct{} // lower(username): unicidad
	byEmail    map[string]string   // lower(email) -> id
}

func emailKey(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func usernameKey(u string) string { return strings.ToLower(u) }

func (r *identityRepo) Create(ctx context.Context, u *identity.Identity) (*identity.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u == nil || u.ID == "" || u.Username == "" {
		return nil, repository.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[u.ID]; dup {
		return nil, repository.ErrConflict
	}
	uk := usernameKey(u.Username)
	if _, dup := r.usernames[uk]; dup {
		return nil, repository.ErrConflict
	}
	ek := emailKey(u.Email)
	if ek != "" {
		if _, dup := r.byEmail[ek]; dup {
			return nil, repository.ErrConflict
		}
	}

	stored := u.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	r.usernames[uk] = struct{}{}
	if ek != "" {
		r.byEmail[ek] = stored.ID
	}
	return stored.Clone(), nil
}

func (r *identityRepo) GetByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ek := emailKey(email)
	if ek == "" {
		return nil, repository.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[ek]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	// registros legacy sin hash no se resuelven por email
	if !u.HasUsableCredential() {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

// ─── TaskRepository ───

type taskRepo struct {
	mu   sync.RWMutex
	byID map[string]repository.Task
}

func (r *taskRepo) List(ctx context.Context) ([]repository.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]repository.Task, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *taskRepo) Create(ctx context.Context, t repository.Task) (*repository.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.ID == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[t.ID]; dup {
		return nil, repository.ErrConflict
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	r.byID[t.ID] = t
	return &t, nil
}

func (r *taskRepo) Update(ctx context.Context, id string, patch repository.TaskPatch) (*repository.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	r.byID[id] = t
	return &t, nil
}
