package public

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmaduty-go/internal/domain/schedule"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

type rangeResponse struct {
	StartDate string                           `json:"start_date"`
	EndDate   string                           `json:"end_date"`
	Items     []commonhandler.ScheduleResponse `json:"items"`
}

type calendarResponse struct {
	Month int                                         `json:"month"`
	Year  int                                         `json:"year"`
	Days  map[string][]commonhandler.ScheduleResponse `json:"days"`
}

func (h *Handlers) ScheduleRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := commonhandler.ParseDateParam(query.Get("from"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid from")
		return
	}
	to, err := commonhandler.ParseDateParam(query.Get("to"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid to")
		return
	}

	items, start, end, err := h.Schedules.Range(r.Context(), from, to)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "schedule.range", err)
		return
	}
	writeJSON(w, http.StatusOK, rangeResponse{
		StartDate: start.Format(schedule.DateLayout),
		EndDate:   end.Format(schedule.DateLayout),
		Items:     commonhandler.ToScheduleResponses(items),
	})
}

func (h *Handlers) ScheduleCalendar(w http.ResponseWriter, r *http.Request) {
	// Non-numeric values fall through as 0 so the service reports them as field errors.
	month, _ := strconv.Atoi(chi.URLParam(r, "month"))
	year, _ := strconv.Atoi(chi.URLParam(r, "year"))

	grouped, err := h.Schedules.Calendar(r.Context(), month, year)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "schedule.calendar", err, "month", month, "year", year)
		return
	}

	days := make(map[string][]commonhandler.ScheduleResponse, len(grouped))
	for date, items := range grouped {
		days[date] = commonhandler.ToScheduleResponses(items)
	}
	writeJSON(w, http.StatusOK, calendarResponse{Month: month, Year: year, Days: days})
}

func (h *Handlers) ScheduleWeek(w http.ResponseWriter, r *http.Request) {
	items, start, end, err := h.Schedules.Week(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "schedule.week", err)
		return
	}
	writeJSON(w, http.StatusOK, rangeResponse{
		StartDate: start.Format(schedule.DateLayout),
		EndDate:   end.Format(schedule.DateLayout),
		Items:     commonhandler.ToScheduleResponses(items),
	})
}
