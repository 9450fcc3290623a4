package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaduty-go/internal/auth"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/pkg/logger"
)

type stubTokens struct {
	identity auth.Identity
	err      error
	seen     string
}

func (s *stubTokens) Parse(ctx context.Context, raw string) (auth.Identity, error) {
	s.seen = raw
	return s.identity, s.err
}

type stubAccounts struct {
	users map[uint]user.User
	err   error
}

func (s *stubAccounts) Get(ctx context.Context, id uint) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	found, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &found, nil
}

func accountsWith(users ...user.User) *stubAccounts {
	byID := make(map[uint]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &stubAccounts{users: byID}
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": user.UserID, "role": user.Role})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuthAcceptsBearerToken(t *testing.T) {
	tokens := &stubTokens{identity: auth.Identity{UserID: 7, Role: "pharmacist"}}
	accounts := accountsWith(user.User{ID: 7, Role: "pharmacist"})
	handler := NewJWTAuth(tokens, accounts, logger.Nop()).Middleware(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.def.ghi", tokens.seen)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 7, body["id"])
	assert.Equal(t, "pharmacist", body["role"])
}

func TestJWTAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg=="},
		{name: "invalid token", header: "Bearer broken", err: auth.ErrInvalidToken},
		{name: "revoked token", header: "Bearer revoked", err: auth.ErrRevokedToken},
		{name: "denylist unavailable", header: "Bearer fine", err: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &stubTokens{identity: auth.Identity{UserID: 1, Role: "admin"}, err: tt.err}
			accounts := accountsWith(user.User{ID: 1, Role: "admin"})
			handler := NewJWTAuth(tokens, accounts, logger.Nop()).Middleware(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "invalid_token", decodeBody(t, rec)["code"])
		})
	}
}

func TestJWTAuthTakesRoleFromStoredAccount(t *testing.T) {
	tokens := &stubTokens{identity: auth.Identity{UserID: 4, Role: "admin"}}
	accounts := accountsWith(user.User{ID: 4, Role: "pharmacist"})
	adminOnly := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler := NewJWTAuth(tokens, accounts, logger.Nop()).Middleware(adminOnly)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer still-signed")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := send()
	assert.Equal(t, http.StatusForbidden, rec.Code, "demoted admin keeps a valid token but loses the role")

	delete(accounts.users, 4)
	rec = send()
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "deleted account")
	assert.Equal(t, "invalid_token", decodeBody(t, rec)["code"])

	accounts.err = assert.AnError
	rec = send()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithUser(req.Context(), User{UserID: 3, Role: "pharmacist"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeBody(t, rec)["code"])

	req = req.WithContext(WithUser(req.Context(), User{UserID: 1, Role: "admin"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewCORS([]string{"https://duty.example.com", " "})(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/pharmacies", nil)
	req.Header.Set("Origin", "https://duty.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://duty.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/pharmacies", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	wildcard := NewCORS([]string{"*"})(next)
	rec = httptest.NewRecorder()
	wildcard.ServeHTTP(rec, req)
	assert.Equal(t, "https://evil.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerPassesStatusThrough(t *testing.T) {
	handler := RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
