package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pharmaduty-go/internal/auth"
	"pharmaduty-go/internal/config"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/transport/httpserver/handler"
	"pharmaduty-go/internal/transport/httpserver/handler/admin"
	authhandler "pharmaduty-go/internal/transport/httpserver/handler/auth"
	"pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/handler/pharmacist"
	"pharmaduty-go/internal/transport/httpserver/handler/public"
	"pharmaduty-go/pkg/logger"
)

type roleTokens map[string]auth.Identity

func (t roleTokens) Parse(ctx context.Context, raw string) (auth.Identity, error) {
	identity, ok := t[raw]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return identity, nil
}

type accountRoles map[uint]string

func (a accountRoles) Get(ctx context.Context, id uint) (*user.User, error) {
	role, ok := a[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &user.User{ID: id, Role: role}, nil
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error {
	return nil
}

func newTestRouter() http.Handler {
	log := logger.Nop()
	handlers := handler.New(
		common.New(okPinger{}, log),
		public.New(nil, nil, nil, nil, log),
		authhandler.New(nil, nil, nil, nil, log),
		pharmacist.New(nil, nil, nil, log),
		admin.New(nil, nil, nil, nil, nil, log),
	)
	tokens := roleTokens{
		"admin-token":      {UserID: 1, Role: "admin"},
		"pharmacist-token": {UserID: 2, Role: "pharmacist"},
		"demoted-token":    {UserID: 3, Role: "admin"},
		"deleted-token":    {UserID: 4, Role: "admin"},
	}
	accounts := accountRoles{1: user.RoleAdmin, 2: user.RolePharmacist, 3: user.RolePharmacist}
	return NewRouter(config.Config{CORSOrigins: []string{"http://localhost:5173"}}, handlers, tokens, accounts, log)
}

func TestRouterGuardsRoleScopes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "health is public", path: "/api/health", want: http.StatusOK},
		{name: "admin without token", path: "/api/admin/users", want: http.StatusUnauthorized},
		{name: "admin with bad token", path: "/api/admin/users", token: "forged", want: http.StatusUnauthorized},
		{name: "pharmacist on admin scope", path: "/api/admin/users", token: "pharmacist-token", want: http.StatusForbidden},
		{name: "admin on pharmacist scope", path: "/api/pharmacist/pharmacy", token: "admin-token", want: http.StatusForbidden},
		{name: "demoted admin token", path: "/api/admin/users", token: "demoted-token", want: http.StatusForbidden},
		{name: "deleted account token", path: "/api/admin/users", token: "deleted-token", want: http.StatusUnauthorized},
		{name: "me without token", path: "/api/auth/me", want: http.StatusUnauthorized},
		{name: "unknown route", path: "/api/nowhere", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouterAnswersPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/admin/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
