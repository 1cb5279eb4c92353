package handler

import (
	"time"

	"github.com/auctusventures/site/internal/gate"
	"github.com/auctusventures/site/internal/service"
	"go.uber.org/zap"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	contacts     *service.ContactService
	gate         gate.Gate
	ledger       *gate.Ledger
	logger       *zap.Logger
	development  bool
	fallbackMail string
	now          func() time.Time
}

// Options configures NewAPI.
type Options struct {
	// Development echoes internal error text in 500 payloads.
	Development bool
	// FallbackEmail is shown to visitors when a submission fails.
	FallbackEmail string
	Logger        *zap.Logger
}

// NewAPI constructs a handler set around the contact service.
func NewAPI(contacts *service.ContactService, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		contacts:     contacts,
		gate:         gate.New(gate.DefaultKey),
		ledger:       gate.NewLedger(gate.DefaultMarkerTTL),
		logger:       logger,
		development:  opts.Development,
		fallbackMail: opts.FallbackEmail,
		now:          time.Now,
	}
}
