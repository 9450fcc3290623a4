package public

import (
	"net"
	"net/http"
	"strings"

	"pharmaduty-go/internal/domain/pharmacy"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

type submitReviewRequest struct {
	UserName string  `json:"user_name" validate:"required,max=100"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment" validate:"omitempty,max=1000"`
}

func (h *Handlers) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params, err := commonhandler.ParsePagination(query)
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	neighborhoodID, err := commonhandler.ParseUintParam(query.Get("neighborhood_id"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid neighborhood_id")
		return
	}

	items, meta, err := h.Pharmacies.ListPublic(r.Context(), pharmacy.ListFilter{
		Query:          strings.TrimSpace(query.Get("q")),
		NeighborhoodID: neighborhoodID,
		Params:         params,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacies.list", err)
		return
	}

	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToListingResponses(items, false),
		Meta:  meta,
	})
}

func (h *Handlers) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid pharmacy id")
		return
	}

	details, err := h.Pharmacies.GetPublic(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacies.get", err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToDetailsResponse(*details))
}

func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid pharmacy id")
		return
	}

	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	review, err := h.Pharmacies.SubmitReview(r.Context(), id, pharmacy.ReviewInput{
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		IPAddress: clientIP(r),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacies.submit_review", err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.ToReviewResponse(*review))
}

func (h *Handlers) OnDutyNow(w http.ResponseWriter, r *http.Request) {
	items, err := h.Schedules.OnDutyNow(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacies.on_duty_now", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": commonhandler.ToScheduleResponses(items),
	})
}

func (h *Handlers) OnDutyToday(w http.ResponseWriter, r *http.Request) {
	items, err := h.Schedules.OnDutyToday(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacies.on_duty_today", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": commonhandler.ToScheduleResponses(items),
	})
}

// clientIP prefers the address RealIP already resolved and strips the port otherwise.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
