package token

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"marketplace/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "test-secret"})

	tokenString, err := issuer.Issue(42, domain.RoleBuyer)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != "42" {
		t.Errorf("expected userId claim %q, got %q", "42", claims.UserID)
	}
	if claims.UserType != domain.RoleBuyer {
		t.Errorf("expected userType claim %q, got %q", domain.RoleBuyer, claims.UserType)
	}
	if claims.IssuedAtMillis == 0 {
		t.Error("expected issue time claim to be set")
	}

	subject, err := claims.Subject()
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if subject != 42 {
		t.Errorf("expected subject 42, got %d", subject)
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	issuer := NewIssuer(Config{})

	if _, err := issuer.Issue(1, domain.RoleSeller); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := issuer.Verify("whatever"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "test-secret"})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:         "7",
		UserType:       domain.RoleSeller,
		IssuedAtMillis: time.Now().Add(-2 * time.Hour).UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	tokenString, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to build expired token: %v", err)
	}

	if _, err := issuer.Verify(tokenString); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "correct-secret"})
	other := NewIssuer(Config{Secret: "other-secret"})

	tokenString, err := issuer.Issue(7, domain.RoleBuyer)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "test-secret"})

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "test-secret"})

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId":   "1",
		"userType": "buyer",
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := issuer.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	issuer := NewIssuer(Config{Secret: "test-secret"})

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   "1",
		"userType": "admin",
		"time":     time.Now().UnixMilli(),
	})
	tokenString, err := forged.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	if _, err := issuer.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}

func TestProperty_TokenRoundTripPreservesIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("verify returns the identity that was issued", prop.ForAll(
		func(userID int64, isBuyer bool) bool {
			issuer := NewIssuer(Config{Secret: "round-trip-secret"})

			role := domain.RoleSeller
			if isBuyer {
				role = domain.RoleBuyer
			}

			tokenString, err := issuer.Issue(userID, role)
			if err != nil {
				t.Logf("FAIL: Issue returned error: %v", err)
				return false
			}

			claims, err := issuer.Verify(tokenString)
			if err != nil {
				t.Logf("FAIL: Verify returned error: %v", err)
				return false
			}

			if claims.UserID != strconv.FormatInt(userID, 10) {
				t.Logf("FAIL: userId claim mismatch: %s", claims.UserID)
				return false
			}
			if claims.UserType != role {
				t.Logf("FAIL: userType claim mismatch: %s", claims.UserType)
				return false
			}

			subject, err := claims.Subject()
			if err != nil {
				t.Logf("FAIL: Subject returned error: %v", err)
				return false
			}
			return subject == userID
		},
		gen.Int64Range(1, 1<<40),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
