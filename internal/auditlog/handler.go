package auditlog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/platform/httpx"
)

// Handler serves per-account audit trails.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs an audit log handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches audit log routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/logs/{accountID}", h.ListByAccount)
}

func (h *Handler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}

	records, err := h.service.ListByAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("list audit logs failed", slog.String("account_id", accountID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}

	httpx.JSON(w, http.StatusOK, records)
}
