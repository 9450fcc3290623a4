package pharmacist

import (
	"net/http"

	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	owned, err := h.Pharmacies.GetOwned(r.Context(), userID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.get_pharmacy", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToAdminListingResponse(*owned))
}

// UpdatePharmacy edits the caller's pharmacy. Unknown fields such as is_approved are rejected by the decoder.
func (h *Handlers) UpdatePharmacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req commonhandler.PharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	updated, err := h.Pharmacies.UpdateOwned(r.Context(), userID, req.Input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.update_pharmacy", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToPharmacyResponse(*updated))
}
