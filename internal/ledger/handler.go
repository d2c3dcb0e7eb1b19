package ledger

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/platform/httpx"
)

// Handler serves the mutating bank operations: account opening and the
// three money movements.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes attaches mutation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/accounts", h.CreateAccount)
	r.Put("/money/deposit", h.Deposit)
	r.Put("/money/withdraw", h.Withdraw)
	r.Put("/money/transfer", h.Transfer)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req NewAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	params := AddAccountParams{
		HolderName:     req.HolderName,
		HolderPublicID: uuid.MustParse(req.HolderPublicID),
		Kind:           accounts.Kind(req.Kind),
	}
	if req.LinkedAccountID != nil {
		linked := uuid.MustParse(*req.LinkedAccountID)
		params.LinkedAccountID = &linked
	}

	account, err := h.service.AddAccount(r.Context(), params)
	if err != nil {
		h.logger.Warn("open account failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.service.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.service.Withdraw)
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	account, err := h.service.Transfer(r.Context(),
		uuid.MustParse(req.FromAccountID), uuid.MustParse(req.ToAccountID), req.Amount)
	if err != nil {
		h.logger.Warn("transfer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusAccepted, account)
}

type movementFunc func(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*accounts.Account, error)

func (h *Handler) movement(w http.ResponseWriter, r *http.Request, apply movementFunc) {
	var req TransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	account, err := apply(r.Context(), uuid.MustParse(req.AccountID), req.Amount)
	if err != nil {
		h.logger.Warn("money movement failed", slog.String("account_id", req.AccountID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusAccepted, account)
}
