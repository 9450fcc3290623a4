package auth

import (
	"net/http"

	commonhandler "pharmaduty-go/internal/transport/httpserver/handler/common"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}
