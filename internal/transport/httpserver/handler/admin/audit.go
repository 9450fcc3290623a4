package admin

import (
	"net/http"
	"strings"

	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/pagination"
	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params, err := commonhandler.ParsePagination(query)
	if err != nil {
		commonhandler.WriteInvalidParam(w, err.Error())
		return
	}
	entityID, err := commonhandler.ParseUintParam(query.Get("entity_id"))
	if err != nil {
		commonhandler.WriteInvalidParam(w, "invalid entity_id")
		return
	}
	params = params.Normalize(pagination.DefaultPerPage, pagination.MaxPerPage)

	items, total, err := h.Audit.List(r.Context(), audit.ListFilter{
		Entity:   strings.TrimSpace(query.Get("entity")),
		EntityID: entityID,
		Limit:    params.Limit(),
		Offset:   params.Offset(),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.requestLog(r.Context()), "admin.audit_logs.list", err)
		return
	}
	writeJSON(w, http.StatusOK, commonhandler.ListResponse{
		Items: commonhandler.ToAuditResponses(items),
		Meta:  pagination.NewMeta(params, total),
	})
}
