package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT(Claims{Email: "a@x.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) != DefaultTTL {
		t.Fatalf("expected default ttl, got %+v", claims.RegisteredClaims)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	expired, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	valid, _ := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	tampered := valid[:strings.LastIndex(valid, ".")+1] + "invalidsig"

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{
		"expired":  expired,
		"tampered": tampered,
		"alg none": unsigned,
		"garbage":  "not.a.token",
	} {
		if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestSignRequiresSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := SignJWT(Claims{}); err == nil {
		t.Fatalf("expected error without subject")
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "production")
	if _, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}); !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected errMissingSecret, got %v", err)
	}
}
