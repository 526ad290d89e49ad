// Package password hashea y verifica credenciales con bcrypt.
//
// El trabajo es CPU-bound: cada operación pasa por un semáforo acotado para
// que una ráfaga de logins no deje sin CPU a los requests de I/O.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost es el costo bcrypt por defecto (~250ms en hardware actual).
const DefaultCost = 12

// ErrHashing envuelve cualquier falla de la primitiva de hashing.
var ErrHashing = errors.New("password: hashing failed")

type Config struct {
	// Cost de bcrypt; 0 => DefaultCost. Fuera de [bcrypt.MinCost, bcrypt.MaxCost] es error.
	Cost int
	// Workers concurrentes; <=0 => GOMAXPROCS.
	Workers int
}

// Hasher es seguro para uso concurrente.
type Hasher struct {
	cost int
	gate *semaphore.Weighted
}

func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: invalid bcrypt cost %d (allowed %d..%d)", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, gate: semaphore.NewWeighted(int64(workers))}, nil
}

// Cost devuelve el costo efectivo.
func (h *Hasher) Cost() int { return h.cost }

// Hash genera un hash bcrypt con salt aleatorio. Dos llamadas con el mismo
// input devuelven hashes distintos.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	defer h.gate.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	return string(b), nil
}

// Verify compara en tiempo constante. Hash malformado, error interno o ctx
// cancelado => false.
func (h *Hasher) Verify(ctx context.Context, plain, hash string) bool {
	if hash == "" {
		return false
	}
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.gate.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
