package admin

import (
	"context"
	"net/http"
	"strings"

	"pharmaduty-go/internal/domain/pharmacy"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

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
	isActive, err := commonhandler.ParseBoolParam(query.Get("is_active"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid is_active")
		return
	}
	isApproved, err := commonhandler.ParseBoolParam(query.Get("is_approved"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid is_approved")
		return
	}
	withDeleted, err := commonhandler.ParseBoolParam(query.Get("with_deleted"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid with_deleted")
		return
	}

	items, meta, err := h.Pharmacies.AdminList(r.Context(), pharmacy.ListFilter{
		Query:          strings.TrimSpace(query.Get("q")),
		NeighborhoodID: neighborhoodID,
		IsActive:       isActive,
		IsApproved:     isApproved,
		WithDeleted:    withDeleted != nil && *withDeleted,
		Params:         params,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.list", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToListingResponses(items, true),
		Meta:  meta,
	})
}

func (h *Handlers) PendingPharmacies(w http.ResponseWriter, r *http.Request) {
	params, err := commonhandler.ParsePagination(r.URL.Query())
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}

	items, meta, err := h.Pharmacies.Pending(r.Context(), params)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.pending", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToListingResponses(items, true),
		Meta:  meta,
	})
}

func (h *Handlers) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "pharmacy")
	if !ok {
		return
	}

	item, err := h.Pharmacies.AdminGet(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.get", err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToAdminListingResponse(*item))
}

func (h *Handlers) CreatePharmacy(w http.ResponseWriter, r *http.Request) {
	var req commonhandler.AdminPharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	created, err := h.Pharmacies.AdminCreate(r.Context(), req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.ToPharmacyResponse(*created))
}

func (h *Handlers) UpdatePharmacy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "pharmacy")
	if !ok {
		return
	}

	var req commonhandler.AdminPharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	updated, err := h.Pharmacies.AdminUpdate(r.Context(), id, req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.update", err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToPharmacyResponse(*updated))
}

func (h *Handlers) DeletePharmacy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "pharmacy")
	if !ok {
		return
	}

	if err := h.Pharmacies.Delete(r.Context(), actor, id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.delete", err, "pharmacy_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RestorePharmacy(w http.ResponseWriter, r *http.Request) {
	h.pharmacyAction(w, r, "admin.pharmacies.restore", h.Pharmacies.Restore)
}

func (h *Handlers) ApprovePharmacy(w http.ResponseWriter, r *http.Request) {
	h.pharmacyAction(w, r, "admin.pharmacies.approve", h.Pharmacies.Approve)
}

func (h *Handlers) ToggleActive(w http.ResponseWriter, r *http.Request) {
	h.pharmacyAction(w, r, "admin.pharmacies.toggle_active", h.Pharmacies.ToggleActive)
}

// RejectPharmacy removes the pharmacy together with its owner account.
func (h *Handlers) RejectPharmacy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "pharmacy")
	if !ok {
		return
	}

	if err := h.Pharmacies.Reject(r.Context(), actor, id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.pharmacies.reject", err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pharmacy rejected"})
}

func (h *Handlers) pharmacyAction(w http.ResponseWriter, r *http.Request, op string, action func(ctx context.Context, actorID, id uint) (*pharmacy.Pharmacy, error)) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "pharmacy")
	if !ok {
		return
	}

	item, err := action(r.Context(), actor, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), op, err, "pharmacy_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToPharmacyResponse(*item))
}
