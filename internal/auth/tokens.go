// Package auth issues and verifies the bearer tokens used by the HTTP API.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/config"
)

const revokedKeyPrefix = "auth:revoked:"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller behind a token.
type Identity struct {
	UserID    uint
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

type Tokens struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist cache.Store
	now      func() time.Time
}

func NewTokens(cfg config.AuthConfig, denylist cache.Store) *Tokens {
	if denylist == nil {
		denylist = cache.Noop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{
		secret:   cfg.Secret(),
		issuer:   cfg.JWTIssuer,
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue signs an HS256 token for the user and returns it with its expiry.
func (t *Tokens) Issue(userID uint, role string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, issuer and expiry, then checks the revocation list.
func (t *Tokens) Parse(ctx context.Context, raw string) (Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if !claims.VerifyIssuer(t.issuer, true) || !claims.VerifyExpiresAt(t.now(), true) {
		return Identity{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 || claims.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	_, revoked, err := t.denylist.Get(ctx, revokedKeyPrefix+claims.ID)
	if err != nil {
		return Identity{}, err
	}
	if revoked {
		return Identity{}, ErrRevokedToken
	}

	return Identity{
		UserID:    uint(userID),
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke denies the token until it would have expired anyway.
func (t *Tokens) Revoke(ctx context.Context, identity Identity) error {
	ttl := identity.ExpiresAt.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	return t.denylist.Set(ctx, revokedKeyPrefix+identity.TokenID, []byte("1"), ttl)
}
