package holders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/platform/httpx"
)

// Handler serves holder lookups.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a holder handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches holder routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/holders/{publicID}", h.GetByPublicID)
}

func (h *Handler) GetByPublicID(w http.ResponseWriter, r *http.Request) {
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid holder public identifier")
		return
	}

	holder, err := h.service.GetByPublicID(r.Context(), publicID)
	if err != nil {
		h.logger.Warn("holder lookup failed", slog.String("public_id", publicID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, holder)
}
