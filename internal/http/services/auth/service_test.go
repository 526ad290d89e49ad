package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/chasqui/internal/jwt"
	"github.com/dropDatabas3/chasqui/internal/security/password"
	"github.com/dropDatabas3/chasqui/internal/store/adapters/memory"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const testTTL = 2 * time.Hour

type fixture struct {
	svc    *Service
	repo   repository.IdentityRepository
	hasher *password.Hasher
	tokens *jwtx.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h, err := password.NewHasher(password.Config{Cost: bcrypt.MinCost})
	require.NoError(t, err)
	tokens, err := jwtx.NewService(jwtx.Config{SigningKey: testKey, TTL: testTTL})
	require.NoError(t, err)
	repo := memory.NewConnection().Identities()
	return &fixture{
		svc:    NewService(Deps{Identities: repo, Hasher: h, Tokens: tokens}),
		repo:   repo,
		hasher: h,
		tokens: tokens,
	}
}

func (f *fixture) registerAlice(t *testing.T) *identity.Identity {
	t.Helper()
	u, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice",
		Email:    "alice@example.com",
		Password: "Super$ecret123",
	})
	require.NoError(t, err)
	return u
}

// ─── stubs ───

type stubRepo struct {
	byEmail    func(string) (*identity.Identity, error)
	byUsername func(string) (*identity.Identity, error)
	create     func(*identity.Identity) (*identity.Identity, error)
}

func (s *stubRepo) Create(_ context.Context, u *identity.Identity) (*identity.Identity, error) {
	if s.create != nil {
		return s.create(u)
	}
	return u, nil
}

func (s *stubRepo) GetByUsername(_ context.Context, name string) (*identity.Identity, error) {
	if s.byUsername != nil {
		return s.byUsername(name)
	}
	return nil, repository.ErrNotFound
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*identity.Identity, error) {
	if s.byEmail != nil {
		return s.byEmail(email)
	}
	return nil, repository.ErrNotFound
}

type failingIssuer struct{}

func (failingIssuer) Issue(string, string, []string) (string, jwtx.Claims, error) {
	return "", jwtx.Claims{}, jwtx.ErrSigningConfig
}

type failingHasher struct{ Hasher }

func (failingHasher) Hash(context.Context, string) (string, error) {
	return "", password.ErrHashing
}

// countingHasher registra los hashes que recibe Verify.
type countingHasher struct {
	Hasher
	verified []string
}

func (c *countingHasher) Verify(ctx context.Context, plain, hash string) bool {
	c.verified = append(c.verified, hash)
	return c.Hasher.Verify(ctx, plain, hash)
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var ce *CredentialsError
	require.True(t, errors.As(err, &ce), "expected *CredentialsError, got %v", err)
	return ce.Reason
}

// ─── Register ───

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	u := f.registerAlice(t)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Username)
	assert.Equal(t, []string{rbac.RoleUser}, u.RoleNames())
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "Super$ecret123", u.PasswordHash)

	stored, err := f.repo.GetByUsername(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		in    dto.RegisterRequest
		field string
	}{
		{"digit in username", dto.RegisterRequest{Username: "alice1", Email: "alice@example.com", Password: "pw"}, "username"},
		{"empty username", dto.RegisterRequest{Username: "  ", Email: "alice@example.com", Password: "pw"}, "username"},
		{"non-ascii username", dto.RegisterRequest{Username: "Añade", Email: "a@example.com", Password: "pw"}, "username"},
		{"email without at", dto.RegisterRequest{Username: "Alice", Email: "alice.example.com", Password: "pw"}, "email"},
		{"email too short", dto.RegisterRequest{Username: "Alice", Email: "a@b", Password: "pw"}, "email"},
		{"missing password", dto.RegisterRequest{Username: "Alice", Email: "alice@example.com"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRegister_DuplicateIsPersistenceConflict(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)

	_, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice", Email: "other@example.com", Password: "pw",
	})
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestRegister_HashFailureIsCredentialError(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Deps{Identities: f.repo, Hasher: failingHasher{f.hasher}, Tokens: f.tokens})

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice", Email: "alice@example.com", Password: "pw",
	})
	require.ErrorIs(t, err, ErrCredential)
	require.NotErrorIs(t, err, ErrPersistence)
}

func TestRegister_StorageFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("db down")
	svc := NewService(Deps{
		Identities: &stubRepo{create: func(*identity.Identity) (*identity.Identity, error) { return nil, boom }},
		Hasher:     f.hasher,
		Tokens:     f.tokens,
	})
	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice", Email: "alice@example.com", Password: "pw",
	})
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, boom)
}

// ─── Login ───

func TestLogin_SuccessByEmail(t *testing.T) {
	f := newFixture(t)
	u := f.registerAlice(t)

	res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "Alice@Example.com", Password: "Super$ecret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(testTTL.Seconds()), res.ExpiresIn)

	claims, err := f.tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "Alice", claims.Username)
	assert.Contains(t, claims.Roles, rbac.RoleUser)
	assert.Equal(t, testTTL, claims.ExpiresAtTime().Sub(claims.IssuedAtTime()))
}

func TestLogin_ByUsernameAndIdentifier(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "Alice", Password: "Super$ecret123"})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "Alice", Password: "Super$ecret123"})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Identifier: "alice@example.com", Password: "Super$ecret123"})
	require.NoError(t, err)
}

func TestLogin_EmailMissFallsBackToUsername(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Username: "Alice", Password: "Super$ecret123",
	})
	require.NoError(t, err)
}

func TestLogin_WrongPasswordIndistinguishableFromMissing(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)

	_, wrongPw := f.svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "nope"})
	_, missing := f.svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "nope"})

	require.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	require.ErrorIs(t, missing, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), missing.Error())

	assert.Equal(t, ReasonPasswordMismatch, reasonOf(t, wrongPw))
	assert.Equal(t, ReasonNotFound, reasonOf(t, missing))
}

func TestLogin_RejectedLookupsStillRunBcrypt(t *testing.T) {
	f := newFixture(t)
	legacy := &identity.Identity{ID: "legacy-1", Username: "Old", Email: "old@example.com", Roles: []rbac.Role{rbac.User()}}
	_, err := f.repo.Create(context.Background(), legacy)
	require.NoError(t, err)

	ch := &countingHasher{Hasher: f.hasher}
	svc := NewService(Deps{Identities: f.repo, Hasher: ch, Tokens: f.tokens})
	require.NotEmpty(t, svc.dummyHash)
	cost, err := bcrypt.Cost([]byte(svc.dummyHash))
	require.NoError(t, err)
	assert.Equal(t, f.hasher.Cost(), cost)

	cases := []struct {
		name   string
		req    dto.LoginRequest
		reason string
	}{
		{"unknown email", dto.LoginRequest{Email: "ghost@example.com", Password: "pw"}, ReasonNotFound},
		{"unknown username", dto.LoginRequest{Username: "ghost", Password: "pw"}, ReasonNotFound},
		{"legacy record", dto.LoginRequest{Username: "Old", Password: "pw"}, ReasonNoCredential},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch.verified = nil
			_, err := svc.Login(context.Background(), tc.req)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, tc.reason, reasonOf(t, err))
			require.Len(t, ch.verified, 1)
			assert.Equal(t, svc.dummyHash, ch.verified[0])
		})
	}
}

func TestLogin_LegacyRecord(t *testing.T) {
	f := newFixture(t)
	legacy := &identity.Identity{ID: "legacy-1", Username: "Old", Email: "old@example.com", Roles: []rbac.Role{rbac.User()}}
	_, err := f.repo.Create(context.Background(), legacy)
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "Old", Password: "anything"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, ReasonNoCredential, reasonOf(t, err))

	// por email el registro legacy queda excluido => not found
	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Email: "old@example.com", Password: "anything"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, ReasonNotFound, reasonOf(t, err))
}

func TestLogin_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com"})
	require.ErrorIs(t, err, ErrValidation)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenFailureDistinctFromCredentials(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)
	svc := NewService(Deps{Identities: f.repo, Hasher: f.hasher, Tokens: failingIssuer{}})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Super$ecret123"})
	require.ErrorIs(t, err, ErrTokenIssue)
	require.ErrorIs(t, err, jwtx.ErrSigningConfig)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LookupFailureCollapses(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Deps{
		Identities: &stubRepo{byEmail: func(string) (*identity.Identity, error) { return nil, errors.New("decode failed") }},
		Hasher:     f.hasher,
		Tokens:     f.tokens,
	})
	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, ReasonLookupFailed, reasonOf(t, err))
	assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
}

func TestLogin_ContextCancellationIsPersistence(t *testing.T) {
	f := newFixture(t)
	f.registerAlice(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "Super$ecret123"})
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLogin_RolesFromRecord(t *testing.T) {
	f := newFixture(t)
	u := f.registerAlice(t)

	mod := u.Clone()
	mod.AddRole(rbac.Moderator())
	svc := NewService(Deps{
		Identities: &stubRepo{byEmail: func(string) (*identity.Identity, error) { return mod, nil }},
		Hasher:     f.hasher,
		Tokens:     f.tokens,
	})
	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Super$ecret123"})
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleUser, rbac.RoleModerator}, res.Roles)

	// registro sin roles => ["user"]
	bare := u.Clone()
	bare.Roles = nil
	svc = NewService(Deps{
		Identities: &stubRepo{byEmail: func(string) (*identity.Identity, error) { return bare, nil }},
		Hasher:     f.hasher,
		Tokens:     f.tokens,
	})
	res, err = svc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Super$ecret123"})
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleUser}, res.Roles)
}
