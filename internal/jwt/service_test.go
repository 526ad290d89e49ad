package jwt

import (
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestNewService_RejectsMissingKey(t *testing.T) {
	for _, key := range [][]byte{nil, {}, []byte("short-key")} {
		_, err := NewService(Config{SigningKey: key})
		require.ErrorIs(t, err, ErrSigningConfig, "key %q", key)
	}
}

func TestZeroValueService(t *testing.T) {
	var s Service
	_, _, err := s.Issue("sub", "alice", nil)
	require.ErrorIs(t, err, ErrSigningConfig)
	_, err = s.Verify("x.y.z")
	require.ErrorIs(t, err, ErrSigningConfig)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 500, time.UTC)
	s, err := NewService(Config{SigningKey: testKey, Issuer: "chasqui"}, WithClock(fixedClock(now)))
	require.NoError(t, err)

	tok, issued, err := s.Issue("id-1", "Alice", []string{"user"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, issued.ExpiresAtTime().Sub(issued.IssuedAtTime()))
	assert.NotEmpty(t, issued.ID, "jti")

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.Subject)
	assert.Equal(t, "Alice", claims.Username)
	assert.True(t, claims.HasRole("user"))
	assert.Equal(t, "chasqui", claims.Issuer)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewService(Config{SigningKey: testKey, TTL: time.Minute}, WithClock(fixedClock(now)))
	require.NoError(t, err)
	tok, _, err := issuer.Issue("id-1", "alice", []string{"user"})
	require.NoError(t, err)

	// exactamente en exp ya no es válido
	later, _ := NewService(Config{SigningKey: testKey, TTL: time.Minute}, WithClock(fixedClock(now.Add(time.Minute))))
	_, err = later.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)

	before, _ := NewService(Config{SigningKey: testKey, TTL: time.Minute}, WithClock(fixedClock(now.Add(59*time.Second))))
	_, err = before.Verify(tok)
	require.NoError(t, err)
}

func TestVerify_WrongKeyAndTampering(t *testing.T) {
	a, _ := NewService(Config{SigningKey: testKey})
	b, _ := NewService(Config{SigningKey: []byte(strings.Repeat("k", 32))})

	tok, _, err := a.Issue("id-1", "alice", []string{"user"})
	require.NoError(t, err)

	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid, "wrong key")

	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = a.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid, "tampered payload")

	_, err = a.Verify("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid, "garbage")
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	s, _ := NewService(Config{SigningKey: testKey})
	claims := Claims{
		Username: "alice",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "id-1",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid, "HS512")

	none, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none)
	assert.ErrorIs(t, err, ErrTokenInvalid, "alg=none")
}

func TestVerify_IssuerMismatch(t *testing.T) {
	a, _ := NewService(Config{SigningKey: testKey, Issuer: "other"})
	b, _ := NewService(Config{SigningKey: testKey, Issuer: "chasqui"})
	tok, _, err := a.Issue("id-1", "alice", nil)
	require.NoError(t, err)
	_, err = b.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_MissingExp(t *testing.T) {
	s, _ := NewService(Config{SigningKey: testKey})
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, Claims{
		RegisteredClaims: jwtv5.RegisteredClaims{Subject: "id-1"},
	}).SignedString(testKey)
	require.NoError(t, err)
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
