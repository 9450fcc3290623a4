package admin

import (
	"net/http"
	"strconv"

	"pharmaduty-go/internal/domain/schedule"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type scheduleRequest struct {
	PharmacyID  uint    `json:"pharmacy_id" validate:"required"`
	DutyDate    string  `json:"duty_date" validate:"required,isodate"`
	StartTime   string  `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     string  `json:"end_time" validate:"omitempty,hhmm"`
	IsEmergency bool    `json:"is_emergency"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r scheduleRequest) input() schedule.AdminInput {
	return schedule.AdminInput{
		PharmacyID: r.PharmacyID,
		Input: commonhandler.ScheduleRequest{
			DutyDate:    r.DutyDate,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsEmergency: r.IsEmergency,
			Notes:       r.Notes,
		}.Input(),
	}
}

type bulkRequest struct {
	Items []scheduleRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type generateRequest struct {
	StartDate    string `json:"start_date" validate:"required,isodate"`
	EndDate      string `json:"end_date" validate:"required,isodate"`
	RotationType string `json:"rotation_type" validate:"omitempty,oneof=sequential random"`
}

type bulkItemError struct {
	Index      int    `json:"index"`
	PharmacyID uint   `json:"pharmacy_id"`
	DutyDate   string `json:"duty_date"`
	Message    string `json:"message"`
}

type bulkResponse struct {
	SuccessCount int                              `json:"success_count"`
	ErrorCount   int                              `json:"error_count"`
	Created      []commonhandler.ScheduleResponse `json:"created"`
	Errors       []bulkItemError                  `json:"errors"`
}

type generateResponse struct {
	CreatedCount int                              `json:"created_count"`
	SkippedCount int                              `json:"skipped_count"`
	Created      []commonhandler.ScheduleResponse `json:"created"`
}

func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	filter, ok := scheduleFilter(w, r)
	if !ok {
		return
	}
	params, err := commonhandler.ParsePagination(r.URL.Query())
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	filter.Params = params

	items, meta, err := h.Schedules.AdminList(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.list", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToScheduleResponses(items),
		Meta:  meta,
	})
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	created, err := h.Schedules.AdminCreate(r.Context(), req.input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.create", err, "pharmacy_id", req.PharmacyID)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.ToScheduleResponse(*created))
}

func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schedule")
	if !ok {
		return
	}

	var req commonhandler.ScheduleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	updated, err := h.Schedules.AdminUpdate(r.Context(), id, req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.update", err, "schedule_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToScheduleResponse(*updated))
}

func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schedule")
	if !ok {
		return
	}

	if err := h.Schedules.AdminDelete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.delete", err, "schedule_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkCreateSchedules reports colliding items instead of failing the batch.
func (h *Handlers) BulkCreateSchedules(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	items := make([]schedule.BulkItem, 0, len(req.Items))
	for _, item := range req.Items {
		input := item.input()
		items = append(items, schedule.BulkItem{
			PharmacyID:  input.PharmacyID,
			DutyDate:    input.DutyDate,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			IsEmergency: input.IsEmergency,
			Notes:       input.Notes,
		})
	}

	result, err := h.Schedules.BulkCreate(r.Context(), actor, items)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.bulk", err, "items", len(items))
		return
	}

	response := bulkResponse{
		SuccessCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
		Created:      commonhandler.ToScheduleResponses(result.Created),
		Errors:       make([]bulkItemError, 0, len(result.Errors)),
	}
	for _, itemErr := range result.Errors {
		response.Errors = append(response.Errors, bulkItemError{
			Index:      itemErr.Index,
			PharmacyID: itemErr.PharmacyID,
			DutyDate:   itemErr.DutyDate.Format(schedule.DateLayout),
			Message:    itemErr.Message,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GenerateRotation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}
	start, _ := schedule.ParseDate(req.StartDate)
	end, _ := schedule.ParseDate(req.EndDate)

	result, err := h.Schedules.GenerateRotation(r.Context(), actor, schedule.RotationInput{
		StartDate:    start,
		EndDate:      end,
		RotationType: schedule.RotationType(req.RotationType),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.generate", err,
			"start_date", req.StartDate, "end_date", req.EndDate)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		CreatedCount: result.CreatedCount,
		SkippedCount: result.SkippedCount,
		Created:      commonhandler.ToScheduleResponses(result.Created),
	})
}

func (h *Handlers) ExportSchedules(w http.ResponseWriter, r *http.Request) {
	filter, ok := scheduleFilter(w, r)
	if !ok {
		return
	}

	items, err := h.Schedules.Export(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.schedule.export", err)
		return
	}
	body, err := h.Export(items)
	if err != nil {
		h.requestLog(r.Context()).InternalError("admin.schedule.export: render workbook failed", err, "rows", len(items))
		commonhandler.WriteInternal(w)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="duty-schedule.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func scheduleFilter(w http.ResponseWriter, r *http.Request) (schedule.ListFilter, bool) {
	query := r.URL.Query()
	pharmacyID, err := commonhandler.ParseUintParam(query.Get("pharmacy_id"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid pharmacy_id")
		return schedule.ListFilter{}, false
	}
	from, err := commonhandler.ParseDateParam(query.Get("from"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid from date")
		return schedule.ListFilter{}, false
	}
	to, err := commonhandler.ParseDateParam(query.Get("to"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid to date")
		return schedule.ListFilter{}, false
	}
	return schedule.ListFilter{PharmacyID: pharmacyID, From: from, To: to}, true
}
