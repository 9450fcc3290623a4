package handler

import (
	"pharmaduty-go/internal/transport/httpserver/handler/admin"
	authhandler "pharmaduty-go/internal/transport/httpserver/handler/auth"
	"pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/handler/pharmacist"
	"pharmaduty-go/internal/transport/httpserver/handler/public"
)

type Handlers struct {
	Common     *common.Handlers
	Public     *public.Handlers
	Auth       *authhandler.Handlers
	Pharmacist *pharmacist.Handlers
	Admin      *admin.Handlers
}

func New(commonHandlers *common.Handlers, publicHandlers *public.Handlers, authHandlers *authhandler.Handlers, pharmacistHandlers *pharmacist.Handlers, adminHandlers *admin.Handlers) *Handlers {
	return &Handlers{
		Common:     commonHandlers,
		Public:     publicHandlers,
		Auth:       authHandlers,
		Pharmacist: pharmacistHandlers,
		Admin:      adminHandlers,
	}
}
