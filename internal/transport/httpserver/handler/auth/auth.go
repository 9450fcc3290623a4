package auth

import (
	"errors"
	"net/http"
	"time"

	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/registration"
	"pharmaduty-go/internal/domain/user"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Name                 string   `json:"name" validate:"required,max=255"`
	Email                string   `json:"email" validate:"required,email,max=255"`
	Password             string   `json:"password" validate:"required,min=8"`
	PasswordConfirmation string   `json:"password_confirmation" validate:"required,eqfield=Password"`
	PharmacyName         string   `json:"pharmacy_name" validate:"required,max=255"`
	OwnerName            string   `json:"owner_name" validate:"required,max=255"`
	Phone                string   `json:"phone" validate:"required,phone"`
	PhoneSecondary       *string  `json:"phone_secondary" validate:"omitempty,phone"`
	Address              string   `json:"address" validate:"required,max=500"`
	NeighborhoodID       uint     `json:"neighborhood_id" validate:"required"`
	Latitude             *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude            *float64 `json:"longitude" validate:"omitempty,longitude"`
	Notes                *string  `json:"notes" validate:"omitempty,max=1000"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string                     `json:"token"`
	TokenType string                     `json:"token_type"`
	ExpiresAt time.Time                  `json:"expires_at"`
	User      commonhandler.UserResponse `json:"user"`
}

type registerResponse struct {
	tokenResponse
	Pharmacy         commonhandler.PharmacyResponse `json:"pharmacy"`
	AutoApproved     bool                           `json:"auto_approved"`
	ModerationIssues []moderation.Issue             `json:"moderation_issues"`
	Message          string                         `json:"message"`
}

type meResponse struct {
	User     commonhandler.UserResponse      `json:"user"`
	Pharmacy *commonhandler.PharmacyResponse `json:"pharmacy"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	result, err := h.Registrar.Register(r.Context(), registration.Input{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		PharmacyName:   req.PharmacyName,
		OwnerName:      req.OwnerName,
		Phone:          req.Phone,
		PhoneSecondary: req.PhoneSecondary,
		Address:        req.Address,
		NeighborhoodID: req.NeighborhoodID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "auth.register", err)
		return
	}

	token, expiresAt, err := h.Tokens.Issue(result.User.ID, result.User.Role)
	if err != nil {
		h.requestLog(r.Context()).InternalError("auth.register: issue token failed", err, "user_id", result.User.ID)
		commonhandler.WriteInternal(w)
		return
	}

	message := "Registration completed. Your pharmacy is listed."
	if !result.AutoApproved {
		message = "Registration completed. Your pharmacy is pending admin review."
	}
	issues := result.Moderation.Issues
	if issues == nil {
		issues = []moderation.Issue{}
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		tokenResponse: tokenResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresAt: expiresAt,
			User:      commonhandler.ToUserResponse(result.User),
		},
		Pharmacy:         commonhandler.ToPharmacyResponse(result.Pharmacy),
		AutoApproved:     result.AutoApproved,
		ModerationIssues: issues,
		Message:          message,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	account, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "auth.login", err)
		return
	}

	token, expiresAt, err := h.Tokens.Issue(account.ID, account.Role)
	if err != nil {
		h.requestLog(r.Context()).InternalError("auth.login: issue token failed", err, "user_id", account.ID)
		commonhandler.WriteInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      commonhandler.ToUserResponse(*account),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}
	if err := h.Tokens.Revoke(r.Context(), caller); err != nil {
		h.requestLog(r.Context()).InternalError("auth.logout: revoke token failed", err, "user_id", caller.UserID)
		commonhandler.WriteInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return
	}

	account, err := h.Accounts.Get(r.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			commonhandler.WriteUnauthorized(w)
			return
		}
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "auth.me", err, "user_id", caller.UserID)
		return
	}

	response := meResponse{User: commonhandler.ToUserResponse(*account)}
	if account.Role == user.RolePharmacist {
		owned, err := h.Pharmacies.GetOwned(r.Context(), account.ID)
		switch {
		case err == nil:
			p := commonhandler.ToAdminListingResponse(*owned)
			response.Pharmacy = &p
		case errors.Is(err, pharmacy.ErrPharmacyNotFound):
		default:
			commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "auth.me", err, "user_id", caller.UserID)
			return
		}
	}
	writeJSON(w, http.StatusOK, response)
}
