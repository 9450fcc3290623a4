package auth

import (
	"context"
	"time"

	authtokens "pharmaduty-go/internal/auth"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/domain/registration"
	"pharmaduty-go/internal/domain/user"
	"pharmaduty-go/pkg/logger"
)

type Registrar interface {
	Register(ctx context.Context, input registration.Input) (*registration.Result, error)
}

type Accounts interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Get(ctx context.Context, id uint) (*user.User, error)
}

type OwnedPharmacies interface {
	GetOwned(ctx context.Context, userID uint) (*pharmacy.Listing, error)
}

type TokenIssuer interface {
	Issue(userID uint, role string) (string, time.Time, error)
	Revoke(ctx context.Context, identity authtokens.Identity) error
}

type Handlers struct {
	Registrar  Registrar
	Accounts   Accounts
	Pharmacies OwnedPharmacies
	Tokens     TokenIssuer
	log        logger.Logger
}

func New(registrar Registrar, accounts Accounts, pharmacies OwnedPharmacies, tokens TokenIssuer, log logger.Logger) *Handlers {
	return &Handlers{
		Registrar:  registrar,
		Accounts:   accounts,
		Pharmacies: pharmacies,
		Tokens:     tokens,
		log:        log,
	}
}

func (h *Handlers) requestLog(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, h.log)
}
