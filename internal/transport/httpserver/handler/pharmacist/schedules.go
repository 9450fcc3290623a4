package pharmacist

import (
	"net/http"

	"pharmaduty-go/internal/domain/schedule"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	params, err := commonhandler.ParsePagination(query)
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	from, err := commonhandler.ParseDateParam(query.Get("from"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid from date")
		return
	}
	to, err := commonhandler.ParseDateParam(query.Get("to"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid to date")
		return
	}

	items, meta, err := h.Schedules.ListOwned(r.Context(), userID, schedule.ListFilter{
		From:   from,
		To:     to,
		Params: params,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.list_schedules", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToScheduleResponses(items),
		Meta:  meta,
	})
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req commonhandler.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	created, err := h.Schedules.CreateOwned(r.Context(), userID, req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.create_schedule", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.ToScheduleResponse(*created))
}

func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid schedule id")
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

	updated, err := h.Schedules.UpdateOwned(r.Context(), userID, id, req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.update_schedule", err, "user_id", userID, "schedule_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToScheduleResponse(*updated))
}

func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid schedule id")
		return
	}

	if err := h.Schedules.DeleteOwned(r.Context(), userID, id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.delete_schedule", err, "user_id", userID, "schedule_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
