package admin

import (
	"net/http"

	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/middleware"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func actorID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		commonhandler.WriteUnauthorized(w)
		return 0, false
	}
	return caller.UserID, true
}

func pathID(w http.ResponseWriter, r *http.Request, what string) (uint, bool) {
	id, ok := commonhandler.URLID(r, "id")
	if !ok {
		commonhandler.WriteInvalidParam(w, "invalid "+what+" id")
		return 0, false
	}
	return id, true
}
