package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	userID, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 24*time.Hour).WithClock(fixedClock(issuedAt))

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(issuedAt.Add(23 * time.Hour))).Validate(token)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(issuedAt.Add(25 * time.Hour))).Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_IssueWithExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 24*time.Hour).WithClock(fixedClock(now))

	token, err := issuer.IssueWithExpiry(1, time.Minute)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(now.Add(2 * time.Minute))).Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_RejectsOtherKey(t *testing.T) {
	token, err := NewTokenIssuer("other-secret", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsNonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsMissingExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_RejectsMalformed(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractBearerToken("Basic abc")
	assert.Error(t, err)

	_, err = ExtractBearerToken("Bearer ")
	assert.Error(t, err)
}
