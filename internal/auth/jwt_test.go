package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sehyaatri/sehyaatri/internal/model"
)

const testSecret = "test-secret-at-least-16-chars!!"

// fakeClock is a settable time source shared by issuance and verification.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, 0, opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func testAccount() *model.Account {
	return &model.Account{ID: 1, Email: "owner@x.com", Name: "Owner", Role: model.RoleOwner}
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", 0); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	ts := newTestTokenService(t)
	if ts.TTL() != 7*24*time.Hour {
		t.Errorf("TTL() = %v, want 168h", ts.TTL())
	}
}

// =========================================================================
// ISSUE / VERIFY
// =========================================================================

func TestIssue_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Issue() token doesn't look like a JWT: %q", token)
	}
}

func TestIssue_SameAccountTwiceDiffers(t *testing.T) {
	ts := newTestTokenService(t)

	t1, _ := ts.Issue(testAccount())
	t2, _ := ts.Issue(testAccount())
	if t1 == t2 {
		t.Error("Issue() returned identical tokens for two issuances")
	}
}

func TestVerify_RoundTripClaims(t *testing.T) {
	ts := newTestTokenService(t)
	acc := testAccount()

	token, err := ts.Issue(acc)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.ID != acc.ID || claims.Email != acc.Email || claims.Role != acc.Role {
		t.Errorf("claims = {%d %q %q}, want {%d %q %q}",
			claims.ID, claims.Email, claims.Role, acc.ID, acc.Email, acc.Role)
	}
	if claims.Issuer != "sehyaatri" {
		t.Errorf("Issuer = %q, want sehyaatri", claims.Issuer)
	}
}

func TestVerify_ExpiryHorizon(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, WithClock(clock.Now))

	token, err := ts.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	issuedAt := clock.t

	clock.t = issuedAt.Add(6 * 24 * time.Hour)
	if _, err := ts.Verify(token); err != nil {
		t.Errorf("Verify() at T+6d error = %v, want valid", err)
	}

	clock.t = issuedAt.Add(8 * 24 * time.Hour)
	if _, err := ts.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() at T+8d error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Issue(testAccount())

	tampered := token[:len(token)-3] + "xxx"
	if _, err := ts.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(tampered) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", 0)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", 0)

	token, _ := ts1.Issue(testAccount())
	if _, err := ts2.Verify(token); err == nil {
		t.Fatal("Verify() should fail when using a different secret")
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	ts := newTestTokenService(t)

	c := Claims{
		ID: 1, Email: "owner@x.com", Role: model.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sehyaatri",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("building alg=none token: %v", err)
	}

	if _, err := ts.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(alg=none) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsMissingExpiry(t *testing.T) {
	ts := newTestTokenService(t)

	c := Claims{ID: 1, Email: "owner@x.com", Role: model.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sehyaatri"}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))

	if _, err := ts.Verify(token); err == nil {
		t.Fatal("Verify() should reject a token without exp")
	}
}

func TestVerify_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, in := range []string{"", "not.a.jwt", "abc"} {
		if _, err := ts.Verify(in); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", in, err)
		}
	}
}
