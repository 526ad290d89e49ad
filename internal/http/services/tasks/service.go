// Package tasks implementa el CRUD de tareas sobre repository.TaskRepository
// con un read-through cache del listado.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dropDatabas3/chasqui/internal/cache"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	"github.com/dropDatabas3/chasqui/internal/metrics"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"go.uber.org/zap"
)

const listCacheKey = "tasks:list"

var (
	ErrInvalidInput = errors.New("invalid task input")
	ErrNotFound     = errors.New("task not found")
	ErrPersistence  = errors.New("task persistence failure")
)

// Deps contiene las dependencias del servicio de tareas. Cache es opcional.
type Deps struct {
	Tasks    repository.TaskRepository
	Cache    cache.Client
	CacheTTL time.Duration
}

type Service struct {
	deps     Deps
	validate *validator.Validate

	// gen cuenta escrituras. Un List solo cachea su snapshot si gen no se
	// movió desde que leyó el repo; cacheMu serializa ese chequeo contra
	// el bump + invalidate de las escrituras.
	cacheMu sync.Mutex
	gen     uint64
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps, validate: validator.New()}
}

type createInput struct {
	Name string `validate:"required,max=200"`
}

// List devuelve todas las tareas; lista vacía no es error.
func (s *Service) List(ctx context.Context) ([]repository.Task, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("tasks"), logger.Op("List"))

	if cached, ok := s.cachedList(ctx, log); ok {
		return cached, nil
	}

	gen := s.generation()
	list, err := s.deps.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if list == nil {
		list = []repository.Task{}
	}
	s.storeList(ctx, gen, list, log)
	return list, nil
}

// Create valida el nombre y persiste una tarea nueva con ID generado.
func (s *Service) Create(ctx context.Context, name string) (*repository.Task, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("tasks"), logger.Op("Create"))

	in := createInput{Name: strings.TrimSpace(name)}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: name is required (max 200 chars)", ErrInvalidInput)
	}

	t, err := s.deps.Tasks.Create(ctx, repository.Task{ID: uuid.NewString(), Name: in.Name})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.invalidate(ctx, log)
	log.Info("task created", logger.TaskID(t.ID))
	return t, nil
}

// Complete marca la tarea como completada; rename opcional.
func (s *Service) Complete(ctx context.Context, id string, rename *string) (*repository.Task, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("tasks"), logger.Op("Complete"), logger.TaskID(id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id must be a UUID", ErrInvalidInput)
	}
	done := true
	patch := repository.TaskPatch{Completed: &done}
	if rename != nil {
		n := strings.TrimSpace(*rename)
		if err := s.validate.Struct(createInput{Name: n}); err != nil {
			return nil, fmt.Errorf("%w: name must be non-empty (max 200 chars)", ErrInvalidInput)
		}
		patch.Name = &n
	}

	t, err := s.deps.Tasks.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.invalidate(ctx, log)
	log.Info("task completed")
	return t, nil
}

// ─── cache ───

func (s *Service) cachedList(ctx context.Context, log *zap.Logger) ([]repository.Task, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	b, err := s.deps.Cache.Get(ctx, listCacheKey)
	if err != nil {
		if cache.IsNotFound(err) {
			metrics.TaskCacheTotal.WithLabelValues("miss").Inc()
		} else {
			metrics.TaskCacheTotal.WithLabelValues("error").Inc()
			log.Warn("task cache get failed", logger.Err(err))
		}
		return nil, false
	}
	var list []repository.Task
	if err := json.Unmarshal(b, &list); err != nil {
		metrics.TaskCacheTotal.WithLabelValues("error").Inc()
		log.Warn("task cache entry corrupt", logger.Err(err))
		return nil, false
	}
	metrics.TaskCacheTotal.WithLabelValues("hit").Inc()
	if list == nil {
		list = []repository.Task{}
	}
	return list, true
}

func (s *Service) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gen
}

// storeList cachea list salvo que una escritura haya ocurrido desde gen:
// en ese caso el snapshot puede no incluirla.
func (s *Service) storeList(ctx context.Context, gen uint64, list []repository.Task, log *zap.Logger) {
	if s.deps.Cache == nil {
		return
	}
	b, err := json.Marshal(list)
	if err != nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gen != gen {
		metrics.TaskCacheTotal.WithLabelValues("stale").Inc()
		return
	}
	if err := s.deps.Cache.Set(ctx, listCacheKey, b, s.deps.CacheTTL); err != nil {
		log.Warn("task cache set failed", logger.Err(err))
	}
}

// invalidate avanza la generación y borra el listado cacheado; una falla
// del backend solo se loguea (el TTL acota la ventana de datos viejos).
func (s *Service) invalidate(ctx context.Context, log *zap.Logger) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Delete(ctx, listCacheKey); err != nil {
		log.Warn("task cache invalidate failed", logger.Err(err))
	}
}
