package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// RespondError maps domain errors onto RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	var ve *shared.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: ve.Reason,
			Field:  ve.Field,
		})
	case errors.As(err, &fieldErrs):
		detail := "invalid request"
		field := ""
		if len(fieldErrs) > 0 {
			field = fieldErrs[0].Field()
			detail = fieldErrs[0].Error()
		}
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: detail,
			Field:  field,
		})
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		Problem(w, http.StatusConflict, "Invalid State Transition", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		Problem(w, http.StatusConflict, "Already Processed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
