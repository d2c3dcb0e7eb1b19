package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/auditlog"
	"github.com/banksim-dev/banksim/internal/holders"
	"github.com/banksim-dev/banksim/internal/ledger"
	"github.com/banksim-dev/banksim/internal/observability"
	"github.com/banksim-dev/banksim/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	HolderHandler   *holders.Handler
	AccountHandler  *accounts.Handler
	LedgerHandler   *ledger.Handler
	AuditLogHandler *auditlog.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.HolderHandler.MountRoutes(r)
		params.AccountHandler.MountRoutes(r)
		params.LedgerHandler.MountRoutes(r)
		params.AuditLogHandler.MountRoutes(r)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
