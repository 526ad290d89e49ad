// Package cache provee un cliente key/value con TTL y dos backends:
//
//   - memory (in-process, go-cache) para dev y single-node
//   - redis  (go-redis) para despliegues con varias réplicas
//
// Lo usa el servicio de tareas como read-through cache del listado.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound: la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda un valor. ttl 0 => TTL por defecto del backend.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete elimina una key; borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close libera recursos.
	Close() error
}

type Config struct {
	Kind       string // "memory" | "redis"
	DefaultTTL time.Duration
	Redis      RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New crea el cliente según cfg.Kind. Para redis verifica la conexión.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "memory", "":
		return NewMemory(cfg.DefaultTTL), nil
	case "redis":
		r, err := NewRedis(ctx, cfg.Redis, cfg.DefaultTTL)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
