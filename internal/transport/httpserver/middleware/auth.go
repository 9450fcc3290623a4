package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"pharmaduty-go/internal/auth"
	userdomain "pharmaduty-go/internal/domain/user"
	"pharmaduty-go/pkg/logger"
)

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(ctx context.Context, raw string) (auth.Identity, error)
}

// AccountLookup loads the account behind a token subject.
type AccountLookup interface {
	Get(ctx context.Context, id uint) (*userdomain.User, error)
}

type JWTAuth struct {
	tokens   TokenParser
	accounts AccountLookup
	log      logger.Logger
}

type contextKey int

const userKey contextKey = 0

// User is the authenticated caller. Ownership is always resolved from ID, never from client input,
// and Role comes from the stored account rather than the token claim.
type User = auth.Identity

func NewJWTAuth(tokens TokenParser, accounts AccountLookup, log logger.Logger) *JWTAuth {
	if log == nil {
		log = logger.Nop()
	}
	return &JWTAuth{tokens: tokens, accounts: accounts, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		user, err := a.tokens.Parse(r.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrRevokedToken) {
				logger.FromContext(r.Context(), a.log).InternalError("auth: token check failed", err)
			}
			unauthorized(w)
			return
		}

		account, err := a.accounts.Get(r.Context(), user.UserID)
		if err != nil {
			if !errors.Is(err, userdomain.ErrUserNotFound) {
				logger.FromContext(r.Context(), a.log).InternalError("auth: account lookup failed", err, "user_id", user.UserID)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			logger.FromContext(r.Context(), a.log).BusinessError("auth: token subject no longer exists", err, "user_id", user.UserID)
			unauthorized(w)
			return
		}
		user.Role = account.Role

		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !slices.Contains(roles, user.Role) {
				writeError(w, http.StatusForbidden, "forbidden", "you are not allowed to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.UserID == 0 {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
