package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	"github.com/dropDatabas3/chasqui/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(username, email, hash string) *identity.Identity {
	return &identity.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []rbac.Role{rbac.User()},
	}
}

func TestRegistry_OpensMemory(t *testing.T) {
	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory"})
	require.NoError(t, err)
	require.Equal(t, "memory", conn.Name())
	require.NoError(t, conn.Ping(context.Background()))
	require.Contains(t, store.ListAdapters(), "memory")

	_, err = store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "surreal"})
	require.ErrorIs(t, err, repository.ErrNoDatabase)
}

func TestIdentities_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()

	in := newRecord("Alice", "alice@example.com", "$2a$hash")
	saved, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.GetByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)

	got, err = repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIdentities_UsernameUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()
	_, err := repo.Create(ctx, newRecord("Alice", "alice@example.com", "h"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRecord("alice", "other@example.com", "h"))
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIdentities_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()
	_, err := repo.Create(ctx, newRecord("Alice", "alice@example.com", "h"))
	require.NoError(t, err)

	got, _ := repo.GetByUsername(ctx, "Alice")
	got.AddRole(rbac.Admin())

	again, _ := repo.GetByUsername(ctx, "Alice")
	assert.False(t, again.IsAdmin())
}

func TestIdentities_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()
	_, err := repo.Create(ctx, newRecord("Alice", "alice@example.com", "h"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRecord("Alice", "other@example.com", "h"))
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.Create(ctx, newRecord("Bob", "Alice@Example.com", "h"))
	assert.ErrorIs(t, err, repository.ErrConflict)

	// sin email no colisiona
	_, err = repo.Create(ctx, newRecord("Carol", "", "h"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRecord("Dave", "", "h"))
	require.NoError(t, err)
}

func TestIdentities_EmailExcludesLegacy(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()
	_, err := repo.Create(ctx, newRecord("Old", "old@example.com", ""))
	require.NoError(t, err)

	_, err = repo.GetByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByUsername(ctx, "Old")
	require.NoError(t, err)
	assert.False(t, got.HasUsableCredential())
}

func TestIdentities_ConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Identities()

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newRecord("Race", "", "h"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrConflict)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestIdentities_CancelledContext(t *testing.T) {
	repo := NewConnection().Identities()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.GetByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	repo := NewConnection().Tasks()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := repo.Create(ctx, repository.Task{ID: uuid.NewString(), Name: "write docs"})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	done := true
	updated, err := repo.Update(ctx, created.ID, repository.TaskPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write docs", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = repo.Update(ctx, uuid.NewString(), repository.TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)
}
