package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/internal/transport/httpserver/middleware"
	"pharmaduty-go/pkg/logger"
)

type stubSchedules struct {
	existing  map[string]bool
	bulkItems []schedule.BulkItem
	rotation  schedule.RotationInput
	exported  schedule.ListFilter
}

func (s *stubSchedules) AdminList(ctx context.Context, filter schedule.ListFilter) ([]schedule.DutySchedule, pagination.Meta, error) {
	return nil, pagination.Meta{}, nil
}

func (s *stubSchedules) AdminCreate(ctx context.Context, input schedule.AdminInput) (*schedule.DutySchedule, error) {
	key := slotKey(input.PharmacyID, input.DutyDate)
	if s.existing[key] {
		return nil, schedule.ErrScheduleConflict
	}
	s.existing[key] = true
	return &schedule.DutySchedule{ID: 1, PharmacyID: input.PharmacyID, DutyDate: input.DutyDate, StartTime: "08:00", EndTime: "08:00"}, nil
}

func (s *stubSchedules) AdminUpdate(ctx context.Context, id uint, input schedule.UpdateInput) (*schedule.DutySchedule, error) {
	return nil, schedule.ErrScheduleNotFound
}

func (s *stubSchedules) AdminDelete(ctx context.Context, id uint) error {
	return nil
}

func (s *stubSchedules) BulkCreate(ctx context.Context, actorID uint, items []schedule.BulkItem) (*schedule.BulkResult, error) {
	s.bulkItems = items
	result := &schedule.BulkResult{}
	for i, item := range items {
		key := slotKey(item.PharmacyID, item.DutyDate)
		if s.existing[key] {
			result.ErrorCount++
			result.Errors = append(result.Errors, schedule.ItemError{Index: i, PharmacyID: item.PharmacyID, DutyDate: item.DutyDate, Message: schedule.ErrScheduleConflict.Error()})
			continue
		}
		s.existing[key] = true
		result.SuccessCount++
		result.Created = append(result.Created, schedule.DutySchedule{ID: uint(i + 10), PharmacyID: item.PharmacyID, DutyDate: item.DutyDate})
	}
	return result, nil
}

func (s *stubSchedules) GenerateRotation(ctx context.Context, actorID uint, input schedule.RotationInput) (*schedule.RotationResult, error) {
	s.rotation = input
	return &schedule.RotationResult{CreatedCount: 3, SkippedCount: 1}, nil
}

func (s *stubSchedules) Export(ctx context.Context, filter schedule.ListFilter) ([]schedule.DutySchedule, error) {
	s.exported = filter
	return []schedule.DutySchedule{{ID: 1}}, nil
}

type stubUsers struct{}

func (stubUsers) List(ctx context.Context, filter user.ListFilter) ([]user.User, pagination.Meta, error) {
	return nil, pagination.Meta{}, nil
}

func (stubUsers) Create(ctx context.Context, input user.CreateInput) (*user.User, error) {
	return &user.User{ID: 5, Name: input.Name, Email: input.Email, Role: input.Role}, nil
}

func (stubUsers) Update(ctx context.Context, id uint, input user.UpdateInput) (*user.User, error) {
	return nil, user.ErrEmailTaken
}

func (stubUsers) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return user.ErrCannotDeleteSelf
	}
	return nil
}

func slotKey(pharmacyID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", pharmacyID, date.Format(schedule.DateLayout))
}

func newTestRouter(schedules *stubSchedules) http.Handler {
	h := New(nil, schedules, stubUsers{}, nil, func(items []schedule.DutySchedule) ([]byte, error) {
		return []byte("PK-workbook"), nil
	}, logger.Nop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), middleware.User{UserID: 1, Role: user.RoleAdmin})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/schedule", h.CreateSchedule)
	r.Put("/schedule/{id}", h.UpdateSchedule)
	r.Post("/schedule/bulk", h.BulkCreateSchedules)
	r.Post("/schedule/generate", h.GenerateRotation)
	r.Get("/schedule/export", h.ExportSchedules)
	r.Post("/users", h.CreateUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateScheduleConflictAndBulkCounts(t *testing.T) {
	schedules := &stubSchedules{existing: map[string]bool{}}
	router := newTestRouter(schedules)

	rec := do(t, router, http.MethodPost, "/schedule", `{"pharmacy_id":1,"duty_date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "full", decode(t, rec)["shift_type"])

	rec = do(t, router, http.MethodPost, "/schedule", `{"pharmacy_id":1,"duty_date":"2025-06-01","start_time":"20:00","end_time":"08:00"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "schedule_conflict", decode(t, rec)["code"])

	rec = do(t, router, http.MethodPost, "/schedule/bulk", `{"items":[
		{"pharmacy_id":1,"duty_date":"2025-06-01"},
		{"pharmacy_id":2,"duty_date":"2025-06-01"},
		{"pharmacy_id":1,"duty_date":"2025-06-02","is_emergency":true}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["success_count"])
	assert.EqualValues(t, 1, body["error_count"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.EqualValues(t, 0, errs[0].(map[string]any)["index"])
	assert.Equal(t, "2025-06-01", errs[0].(map[string]any)["duty_date"])
	require.Len(t, schedules.bulkItems, 3)
	assert.True(t, schedules.bulkItems[2].IsEmergency)
}

func TestBulkValidatesEveryItem(t *testing.T) {
	router := newTestRouter(&stubSchedules{existing: map[string]bool{}})

	rec := do(t, router, http.MethodPost, "/schedule/bulk", `{"items":[{"pharmacy_id":1,"duty_date":"2025-06-01"},{"duty_date":"06/02/2025"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "items.1.pharmacy_id")
	assert.Contains(t, errs, "items.1.duty_date")

	rec = do(t, router, http.MethodPost, "/schedule/bulk", `{"items":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodPost, "/schedule/bulk", `{"items":[], "force": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRotation(t *testing.T) {
	schedules := &stubSchedules{existing: map[string]bool{}}
	router := newTestRouter(schedules)

	rec := do(t, router, http.MethodPost, "/schedule/generate", `{"start_date":"2025-06-01","end_date":"2025-06-04","rotation_type":"random"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 3, body["created_count"])
	assert.EqualValues(t, 1, body["skipped_count"])
	assert.Equal(t, schedule.RotationRandom, schedules.rotation.RotationType)
	assert.Equal(t, "2025-06-04", schedules.rotation.EndDate.Format(schedule.DateLayout))

	rec = do(t, router, http.MethodPost, "/schedule/generate", `{"start_date":"2025-06-01","end_date":"2025-06-04","rotation_type":"weighted"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["errors"], "rotation_type")
}

func TestExportSchedules(t *testing.T) {
	schedules := &stubSchedules{existing: map[string]bool{}}
	router := newTestRouter(schedules)

	rec := do(t, router, http.MethodGet, "/schedule/export?pharmacy_id=4&from=2025-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "duty-schedule.xlsx")
	assert.Equal(t, "PK-workbook", rec.Body.String())
	require.NotNil(t, schedules.exported.PharmacyID)
	assert.EqualValues(t, 4, *schedules.exported.PharmacyID)
	assert.Nil(t, schedules.exported.To)

	rec = do(t, router, http.MethodGet, "/schedule/export?from=June", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateScheduleNotFound(t *testing.T) {
	router := newTestRouter(&stubSchedules{existing: map[string]bool{}})

	rec := do(t, router, http.MethodPut, "/schedule/99", `{"notes":null}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/schedule/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserManagement(t *testing.T) {
	router := newTestRouter(&stubSchedules{existing: map[string]bool{}})

	rec := do(t, router, http.MethodPost, "/users", `{"name":"New Admin","email":"new@example.com","password":"long-enough","role":"owner"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["errors"], "role")

	rec = do(t, router, http.MethodPost, "/users", `{"name":"New Admin","email":"new@example.com","password":"long-enough","role":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "new@example.com", decode(t, rec)["email"])

	rec = do(t, router, http.MethodPut, "/users/5", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "email_taken", decode(t, rec)["code"])

	rec = do(t, router, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, "/users/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
