package token

import (
	"errors"
	"strconv"
	"time"

	"marketplace/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry mirrors the platform's long-lived session window.
const DefaultExpiry = 30 * 24 * time.Hour

var (
	ErrMissingSecret = domain.NewConfigurationError("JWT secret is required")
	ErrInvalidToken  = domain.NewAuthenticationError("invalid token")
	ErrExpiredToken  = domain.NewAuthenticationError("token expired")
)

// Claims is the signed token payload. IssuedAtMillis exists so that two
// tokens minted for the same user are different byte strings even when the
// registered claims round to the same second.
type Claims struct {
	UserID         string      `json:"userId"`
	UserType       domain.Role `json:"userType"`
	IssuedAtMillis int64       `json:"time"`
	jwt.RegisteredClaims
}

// Config holds the signing material for an Issuer. Passing it explicitly
// (rather than reading ambient globals) lets tests run isolated issuers
// side by side.
type Config struct {
	Secret    string
	ExpiresIn time.Duration
}

// Issuer mints and verifies HS256 bearer tokens. Minting is stateless;
// session persistence is the SessionRepository's job.
type Issuer struct {
	secret    []byte
	expiresIn time.Duration
}

// NewIssuer creates an Issuer from the given config.
func NewIssuer(cfg Config) *Issuer {
	expiresIn := cfg.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = DefaultExpiry
	}
	return &Issuer{
		secret:    []byte(cfg.Secret),
		expiresIn: expiresIn,
	}
}

// Issue signs a token for the given user identity and role.
func (i *Issuer) Issue(userID int64, userType domain.Role) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := &Claims{
		UserID:         strconv.FormatInt(userID, 10),
		UserType:       userType,
		IssuedAtMillis: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks the signature and expiry window and returns the decoded
// claims. Note that this says nothing about logical revocation; a verified
// token may still belong to a logged-out session.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if _, err := domain.ParseRole(string(claims.UserType)); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Subject returns the numeric user id carried by the claims.
func (c *Claims) Subject() (int64, error) {
	userID, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
