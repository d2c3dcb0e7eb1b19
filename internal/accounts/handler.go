package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/platform/httpx"
)

// Handler serves account lookups and the account-kind reference data.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs an account handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches account read routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts/{id}", h.Get)
	r.Get("/accounts/holder/{publicID}", h.ListByHolder)
	r.Get("/account-types", h.ListKinds)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}

	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("get account failed", slog.String("id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) ListByHolder(w http.ResponseWriter, r *http.Request) {
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid holder public identifier")
		return
	}

	list, err := h.service.ListByHolderPublicID(r.Context(), publicID)
	if err != nil {
		h.logger.Warn("list accounts failed", slog.String("public_id", publicID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) ListKinds(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, Kinds())
}
