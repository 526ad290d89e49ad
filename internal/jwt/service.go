// Package jwt emite y valida los access tokens (HS256).
//
// El servicio es de solo lectura después de construido y seguro para uso
// concurrente. No hay revocación: un token vale hasta su exp.
package jwt

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLen es el largo mínimo de la clave HMAC (bytes).
const MinKeyLen = 32

// DefaultTTL de los access tokens.
const DefaultTTL = 24 * time.Hour

type Config struct {
	SigningKey []byte
	TTL        time.Duration // 0 => DefaultTTL
	Issuer     string        // opcional; si se setea, Verify lo exige
}

type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewService valida la configuración de firma. Clave vacía o corta =>
// ErrSigningConfig.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if len(cfg.SigningKey) < MinKeyLen {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrSigningConfig, MinKeyLen, len(cfg.SigningKey))
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		key:    append([]byte(nil), cfg.SigningKey...),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// TTL devuelve la vida útil de los tokens emitidos.
func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Issue firma un token para subject. iat/exp tienen precisión de segundo, así
// que exp-iat == TTL exacto.
func (s *Service) Issue(subject, username string, roles []string) (string, Claims, error) {
	if s == nil || len(s.key) < MinKeyLen {
		return "", Claims{}, ErrSigningConfig
	}
	now := s.clock().UTC().Truncate(time.Second)
	claims := Claims{
		Username: username,
		Roles:    append([]string(nil), roles...),
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(s.key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, claims, nil
}

// Verify valida firma HS256, exp > now e iss (si está configurado).
// Cualquier falla => ErrTokenInvalid envolviendo la causa.
func (s *Service) Verify(token string) (*Claims, error) {
	if s == nil || len(s.key) < MinKeyLen {
		return nil, ErrSigningConfig
	}
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.clock),
	}
	if s.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(s.issuer))
	}

	var claims Claims
	tok, err := jwtv5.ParseWithClaims(token, &claims, func(*jwtv5.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrTokenInvalid)
	}
	return &claims, nil
}
