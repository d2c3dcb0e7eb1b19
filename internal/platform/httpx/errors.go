package httpx

import (
	"errors"
	"net/http"

	"github.com/banksim-dev/banksim/internal/bank"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Insufficient funds is a well-formed but unprocessable request rather
// than bad input, hence 422.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bank.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, bank.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, bank.ErrInsufficientFunds):
		Problem(w, http.StatusUnprocessableEntity, "Insufficient Funds", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
