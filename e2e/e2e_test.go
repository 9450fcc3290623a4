//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"gorm.io/gorm"

	"pharmaduty-go/internal/auth"
	"pharmaduty-go/internal/config"
	"pharmaduty-go/internal/db"
	auditdomain "pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/moderation"
	neighborhooddomain "pharmaduty-go/internal/domain/neighborhood"
	pharmacydomain "pharmaduty-go/internal/domain/pharmacy"
	registrationdomain "pharmaduty-go/internal/domain/registration"
	scheduledomain "pharmaduty-go/internal/domain/schedule"
	statisticsdomain "pharmaduty-go/internal/domain/statistics"
	userdomain "pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/report"
	"pharmaduty-go/internal/repository/inmemory"
	auditrepo "pharmaduty-go/internal/repository/postgres/audit"
	neighborhoodrepo "pharmaduty-go/internal/repository/postgres/neighborhood"
	pharmacyrepo "pharmaduty-go/internal/repository/postgres/pharmacy"
	registrationrepo "pharmaduty-go/internal/repository/postgres/registration"
	schedulerepo "pharmaduty-go/internal/repository/postgres/schedule"
	statisticsrepo "pharmaduty-go/internal/repository/postgres/statistics"
	userrepo "pharmaduty-go/internal/repository/postgres/user"
	"pharmaduty-go/internal/transport/httpserver"
	"pharmaduty-go/internal/transport/httpserver/handler"
	"pharmaduty-go/internal/transport/httpserver/handler/admin"
	authhandler "pharmaduty-go/internal/transport/httpserver/handler/auth"
	"pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/handler/pharmacist"
	"pharmaduty-go/internal/transport/httpserver/handler/public"
	"pharmaduty-go/migrations"
	"pharmaduty-go/pkg/logger"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

// The schedule service sees a fixed afternoon so on-duty checks are deterministic.
var fixedNow = time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	users  *userdomain.Service
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.Nop()
	cfg := config.Config{
		Timezone:    "UTC",
		CORSOrigins: []string{"*"},
		DB:          config.DBConfig{DSN: dsn},
		Cache:       config.CacheConfig{TTL: time.Minute},
		Auth:        config.AuthConfig{JWTSecret: "e2e-secret", JWTIssuer: "pharmaduty-e2e", TokenTTL: time.Hour, BcryptCost: 4},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if _, err := db.Migrate(dbConn, migrations.Files, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	gate, err := moderation.NewGate(moderation.DefaultRules())
	if err != nil {
		t.Fatalf("moderation gate: %v", err)
	}
	store := inmemory.NewStore()

	auditService := auditdomain.NewService(auditrepo.NewPostgres(dbConn), log)
	neighborhoodService := neighborhooddomain.NewService(neighborhoodrepo.NewPostgres(dbConn), store, time.Minute, log)
	if _, err := neighborhoodService.Seed(context.Background()); err != nil {
		t.Fatalf("seed neighborhoods: %v", err)
	}
	pharmacyRepo := pharmacyrepo.NewPostgres(dbConn)
	pharmacyService := pharmacydomain.NewService(pharmacyRepo, gate, neighborhoodService, auditService, store, log)
	scheduleService := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn), pharmacyRepo, gate,
		scheduledomain.WithClock(func() time.Time { return fixedNow }),
		scheduledomain.WithAudit(auditService),
		scheduledomain.WithCache(store),
	)
	hasher := userdomain.NewHasher(cfg.Auth.BcryptCost)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), hasher, gate, auditService)
	registrationService := registrationdomain.NewService(registrationrepo.NewPostgres(dbConn), gate, neighborhoodService, hasher, store, log)
	statisticsService := statisticsdomain.NewService(statisticsrepo.NewPostgres(dbConn), store, time.Minute, time.UTC, log)
	tokens := auth.NewTokens(cfg.Auth, store)

	handlers := handler.New(
		common.New(db.NewChecker(dbConn), log),
		public.New(pharmacyService, scheduleService, neighborhoodService, statisticsService, log),
		authhandler.New(registrationService, userService, pharmacyService, tokens, log),
		pharmacist.New(pharmacyService, userService, scheduleService, log),
		admin.New(pharmacyService, scheduleService, userService, auditService, report.Schedules, log),
	)
	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, tokens, userService, log))

	return &testEnv{server: server, db: dbConn, users: userService}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = db.Close(e.db)
}

func (e *testEnv) adminToken(t *testing.T, client *http.Client) string {
	t.Helper()
	if _, err := e.users.EnsureAdmin(context.Background(), "Administrator", adminEmail, adminPassword); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	resp, body := requestJSON(t, client, http.MethodPost, e.server.URL+"/api/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, body, &login)
	return login.Token
}

func (e *testEnv) count(t *testing.T, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Raw(query, args...).Scan(&n).Error; err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE audit_logs, reviews, duty_schedules, pharmacies, users, neighborhoods RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func registration(ownerName string) map[string]interface{} {
	return map[string]interface{}{
		"name":                  "Rana Saleh",
		"email":                 "rana@example.com",
		"password":              "correct-horse",
		"password_confirmation": "correct-horse",
		"pharmacy_name":         "Al Shifa Pharmacy",
		"owner_name":            ownerName,
		"phone":                 "0933123456",
		"address":               "Main Street 12",
		"neighborhood_id":       1,
	}
}

func createPharmacy(t *testing.T, env *testEnv, client *http.Client, token, name string) uint {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/pharmacies", token, map[string]interface{}{
		"name":            name,
		"owner_name":      "Omar Haddad",
		"phone":           "0944555666",
		"address":         "Station Road 4",
		"neighborhood_id": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create pharmacy: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, body, &created)
	return created.ID
}

func TestE2EHealth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ERegistrationAutoApproves(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", registration("Rana Saleh"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	var registered struct {
		Token        string `json:"token"`
		AutoApproved bool   `json:"auto_approved"`
		Pharmacy     struct {
			ID    uint   `json:"id"`
			Phone string `json:"phone"`
		} `json:"pharmacy"`
	}
	decode(t, body, &registered)
	if !registered.AutoApproved {
		t.Fatalf("expected auto_approved, got %s", string(body))
	}
	if registered.Token == "" {
		t.Fatalf("expected token")
	}

	var stored struct {
		IsApproved bool
		Phone      string
	}
	if err := env.db.Raw("SELECT is_approved, phone FROM pharmacies WHERE id = ?", registered.Pharmacy.ID).Scan(&stored).Error; err != nil {
		t.Fatalf("load pharmacy: %v", err)
	}
	if !stored.IsApproved || stored.Phone != "0933123456" {
		t.Fatalf("unexpected stored pharmacy: %+v", stored)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/pharmacist/pharmacy", registered.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected own pharmacy, got %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/logout", registered.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", registered.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", resp.StatusCode)
	}
}

func TestE2ERegistrationRejectsBadWords(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", registration("Rana bastard"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, string(body))
	}

	var failed struct {
		Errors map[string][]string `json:"errors"`
	}
	decode(t, body, &failed)
	if len(failed.Errors["content"]) == 0 {
		t.Fatalf("expected errors.content, got %s", string(body))
	}
	if n := env.count(t, "SELECT COUNT(*) FROM users"); n != 0 {
		t.Fatalf("expected no users, got %d", n)
	}
	if n := env.count(t, "SELECT COUNT(*) FROM pharmacies"); n != 0 {
		t.Fatalf("expected no pharmacies, got %d", n)
	}
}

func TestE2EScheduleUniquenessAndBulk(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := env.adminToken(t, client)
	first := createPharmacy(t, env, client, token, "Al Amal Pharmacy")
	second := createPharmacy(t, env, client, token, "Al Noor Pharmacy")

	url := env.server.URL + "/api/admin/schedule"
	resp, body := requestJSON(t, client, http.MethodPost, url, token, map[string]interface{}{
		"pharmacy_id": first,
		"duty_date":   "2025-06-01",
		"notes":       "original",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, url, token, map[string]interface{}{
		"pharmacy_id": first,
		"duty_date":   "2025-06-01",
		"start_time":  "20:00",
		"end_time":    "08:00",
		"notes":       "duplicate",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, string(body))
	}
	if n := env.count(t, "SELECT COUNT(*) FROM duty_schedules WHERE pharmacy_id = ? AND notes = 'original' AND start_time = '08:00'", first); n != 1 {
		t.Fatalf("expected original row unchanged, got %d matches", n)
	}

	resp, body = requestJSON(t, client, http.MethodPost, url+"/bulk", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"pharmacy_id": first, "duty_date": "2025-06-01"},
			{"pharmacy_id": first, "duty_date": "2025-06-02"},
			{"pharmacy_id": second, "duty_date": "2025-06-01"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var bulk struct {
		SuccessCount int `json:"success_count"`
		ErrorCount   int `json:"error_count"`
	}
	decode(t, body, &bulk)
	if bulk.SuccessCount != 2 || bulk.ErrorCount != 1 {
		t.Fatalf("expected 2 created and 1 error, got %+v", bulk)
	}
	if n := env.count(t, "SELECT COUNT(*) FROM duty_schedules"); n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}

func TestE2EOnDutyNowIgnoresOvernightShift(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := env.adminToken(t, client)
	id := createPharmacy(t, env, client, token, "Al Amal Pharmacy")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/schedule", token, map[string]interface{}{
		"pharmacy_id": id,
		"duty_date":   fixedNow.Format(scheduledomain.DateLayout),
		"start_time":  "08:00",
		"end_time":    "20:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, body, &created)

	if n := onDutyNow(t, env, client); n != 1 {
		t.Fatalf("expected day shift on duty at 14:30, got %d", n)
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/admin/schedule/"+strconv.FormatUint(uint64(created.ID), 10), token, map[string]interface{}{
		"start_time": "20:00",
		"end_time":   "08:00",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	if n := onDutyNow(t, env, client); n != 0 {
		t.Fatalf("expected night shift off duty at 14:30, got %d", n)
	}
}

func onDutyNow(t *testing.T, env *testEnv, client *http.Client) int {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/pharmacies/on-duty-now", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("on-duty-now: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var result struct {
		Items []json.RawMessage `json:"items"`
	}
	decode(t, body, &result)
	return len(result.Items)
}
