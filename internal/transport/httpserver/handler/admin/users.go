package admin

import (
	"net/http"
	"strings"

	"pharmaduty-go/internal/domain/user"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

type createUserRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=admin pharmacist"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin pharmacist"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params, err := commonhandler.ParsePagination(query)
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	role := strings.TrimSpace(query.Get("role"))
	if role != "" && !user.ValidRole(role) {
		commonhandler.WriteInvalidParam(w, "invalid role")
		return
	}

	items, meta, err := h.Users.List(r.Context(), user.ListFilter{
		Query:  strings.TrimSpace(query.Get("q")),
		Role:   role,
		Params: params,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.users.list", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToUserResponses(items),
		Meta:  meta,
	})
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	created, err := h.Users.Create(r.Context(), user.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.users.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, commonhandler.ToUserResponse(*created))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if errs := commonhandler.Validate(req); !errs.Empty() {
		commonhandler.WriteValidation(w, errs)
		return
	}

	updated, err := h.Users.Update(r.Context(), id, user.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.users.update", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ToUserResponse(*updated))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	if err := h.Users.Delete(r.Context(), actor, id); err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.users.delete", err, "user_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
