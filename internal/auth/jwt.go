// Package auth provides token issuance/verification, password hashing, and
// the bearer-token gate for protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Owner signs up or logs in with email + password (POST /api/auth/*)
//  2. Server verifies the bcrypt hash and issues a signed JWT (7 days)
//  3. Client keeps the token and sends "Authorization: Bearer <jwt>"
//  4. RequireBearer verifies signature and expiry and puts the claims in the
//     request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"id":1,"email":"owner@x.com","role":"owner","iss":"sehyaatri","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// Tokens are not stored server-side. A token stays valid for its whole
// lifetime; the claims are a snapshot of the account at issuance and are
// never re-checked against the account store.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sehyaatri/sehyaatri/internal/model"
)

const (
	// DefaultTokenTTL is the lifetime of an issued token.
	DefaultTokenTTL = 7 * 24 * time.Hour

	issuer = "sehyaatri"

	minSecretLength = 16
)

var (
	// ErrInvalidToken covers bad signatures, wrong algorithms, malformed
	// input and missing claims.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired is returned for a well-formed, correctly signed token
	// whose exp is in the past.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims is the JWT payload: the account identity at issuance time plus the
// registered claims (iss, iat, exp, jti).
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with one process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService. A ttl of zero means DefaultTokenTTL.
// The secret must be at least 16 characters.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token carrying the account's id, email and role.
func (s *TokenService) Issue(account *model.Account) (string, error) {
	if account == nil {
		return "", errors.New("auth: cannot issue a token for a nil account")
	}

	now := s.now()
	c := Claims{
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			// jti keeps two tokens issued in the same second distinct.
			ID: xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses tokenStr and returns its claims.
//
// Checks performed:
//   - signature matches the secret
//   - algorithm is HS256 (rejects "none" and asymmetric-key confusion)
//   - issuer is "sehyaatri"
//   - exp is present and in the future (according to the service clock)
//
// Expired tokens return ErrTokenExpired; every other failure ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.ID == 0 || c.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return c, nil
}
