package pharmacist

import (
	"net/http"

	"pharmaduty-go/internal/domain/user"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

type updateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	CurrentPassword string  `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	account, err := h.Profiles.Get(r.Context(), userID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.get_profile", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToUserResponse(*account))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	updated, err := h.Profiles.UpdateProfile(r.Context(), userID, user.ProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "pharmacist.update_profile", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToUserResponse(*updated))
}
