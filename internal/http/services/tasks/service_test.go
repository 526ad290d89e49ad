package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/chasqui/internal/cache"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	"github.com/dropDatabas3/chasqui/internal/store/adapters/memory"
)

// countingRepo cuenta llamadas a List para verificar el cache.
type countingRepo struct {
	repository.TaskRepository
	lists int
}

func (r *countingRepo) List(ctx context.Context) ([]repository.Task, error) {
	r.lists++
	return r.TaskRepository.List(ctx)
}

type failingRepo struct{ repository.TaskRepository }

func (failingRepo) List(context.Context) ([]repository.Task, error) {
	return nil, errors.New("db down")
}

// gatedRepo frena el primer List después de tomar el snapshot hasta que
// se cierre release.
type gatedRepo struct {
	repository.TaskRepository
	gated       atomic.Bool
	snapshotted chan struct{}
	release     chan struct{}
}

func (r *gatedRepo) List(ctx context.Context) ([]repository.Task, error) {
	list, err := r.TaskRepository.List(ctx)
	if r.gated.CompareAndSwap(false, true) {
		close(r.snapshotted)
		<-r.release
	}
	return list, err
}

func newService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	repo := &countingRepo{TaskRepository: memory.NewConnection().Tasks()}
	return NewService(Deps{Tasks: repo, Cache: cache.NewMemory(time.Minute), CacheTTL: time.Minute}), repo
}

func TestList_EmptyIsNotError(t *testing.T) {
	svc, _ := newService(t)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreateAndComplete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Name)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	done, err := svc.Complete(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "buy milk", done.Name)

	renamed := "buy oat milk"
	done, err = svc.Complete(ctx, created.ID, &renamed)
	require.NoError(t, err)
	assert.Equal(t, renamed, done.Name)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Complete(ctx, "not-a-uuid", nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Complete(ctx, uuid.NewString(), nil)
	require.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(ctx, "x")
	require.NoError(t, err)
	empty := " "
	_, err = svc.Complete(ctx, created.ID, &empty)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_CachedAndInvalidated(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists, "second list should hit the cache")

	created, err := svc.Create(ctx, "write tests")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)

	_, err = svc.Complete(ctx, created.ID, nil)
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, list[0].Completed)
	assert.Equal(t, 3, repo.lists)
}

func TestList_WithoutCache(t *testing.T) {
	svc := NewService(Deps{Tasks: memory.NewConnection().Tasks()})
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_PersistenceError(t *testing.T) {
	svc := NewService(Deps{Tasks: failingRepo{}})
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, ErrPersistence)
}

func TestList_WriteDuringReadIsNotCachedStale(t *testing.T) {
	repo := &gatedRepo{
		TaskRepository: memory.NewConnection().Tasks(),
		snapshotted:    make(chan struct{}),
		release:        make(chan struct{}),
	}
	svc := NewService(Deps{Tasks: repo, Cache: cache.NewMemory(time.Minute), CacheTTL: time.Minute})
	ctx := context.Background()

	done := make(chan []repository.Task)
	go func() {
		list, err := svc.List(ctx)
		assert.NoError(t, err)
		done <- list
	}()

	<-repo.snapshotted
	created, err := svc.Create(ctx, "write report")
	require.NoError(t, err)
	close(repo.release)
	assert.Empty(t, <-done, "in-flight read returns its own snapshot")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}
