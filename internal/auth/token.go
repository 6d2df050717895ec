package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenIssuer issues and validates HS256 bearer tokens whose subject is a user ID.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with secret.
// Tokens issued with Issue expire after lifetime.
func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// WithClock returns a copy of the issuer that reads the current time from now.
func (ti *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *ti
	clone.now = now
	return &clone
}

// Lifetime returns the default token lifetime.
func (ti *TokenIssuer) Lifetime() time.Duration {
	return ti.lifetime
}

// Issue creates a token for userID using the default lifetime.
func (ti *TokenIssuer) Issue(userID uint64) (string, error) {
	return ti.IssueWithExpiry(userID, ti.lifetime)
}

// IssueWithExpiry creates a token for userID that expires ttl from now.
func (ti *TokenIssuer) IssueWithExpiry(userID uint64, ttl time.Duration) (string, error) {
	now := ti.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of tokenString and returns the user ID it carries.
func (ti *TokenIssuer) Validate(tokenString string) (uint64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	},
		jwt.WithTimeFunc(ti.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return 0, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed subject", ErrTokenInvalid)
	}

	return userID, nil
}

// ExtractBearerToken extracts the token from an Authorization header value.
func ExtractBearerToken(authHeader string) (string, error) {
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", errors.New("authorization header format must be Bearer {token}")
	}
	token := authHeader[7:]
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
