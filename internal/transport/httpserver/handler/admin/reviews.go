package admin

import (
	"net/http"

	"pharmaduty-go/internal/domain/pharmacy"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params, err := commonhandler.ParsePagination(query)
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	isApproved, err := commonhandler.ParseBoolParam(query.Get("is_approved"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid is_approved")
		return
	}
	pharmacyID, err := commonhandler.ParseUintParam(query.Get("pharmacy_id"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid pharmacy_id")
		return
	}

	items, meta, err := h.Pharmacies.AdminListReviews(r.Context(), pharmacy.ReviewFilter{
		PharmacyID: pharmacyID,
		IsApproved: isApproved,
		Params:     params,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.reviews.list", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToReviewResponses(items),
		Meta:  meta,
	})
}

func (h *Handlers) ApproveReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "review")
	if !ok {
		return
	}

	review, err := h.Pharmacies.ApproveReview(r.Context(), actor, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.reviews.approve", err, "review_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToReviewResponse(*review))
}

func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "review")
	if !ok {
		return
	}

	if err := h.Pharmacies.DeleteReview(r.Context(), actor, id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.reviews.delete", err, "review_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
