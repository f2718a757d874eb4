package httpx

import (
	"errors"
	"net/http"

	"github.com/linenflow/linenflow/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. A denied
// authorization surfaces as an explicit 403 body, never as an empty
// response or a disguised 404.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		ProblemCode(w, http.StatusNotFound, "Not Found", err.Error(), "NOT_FOUND")
	case errors.Is(err, shared.ErrDuplicate):
		ProblemCode(w, http.StatusConflict, "Duplicate", err.Error(), "DUPLICATE")
	case errors.Is(err, shared.ErrValidation):
		ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, shared.ErrBranchRequired):
		ProblemCode(w, http.StatusBadRequest, "Bad Request", err.Error(), "BRANCH_ID_REQUIRED")
	case errors.Is(err, shared.ErrForbidden):
		ProblemCode(w, http.StatusForbidden, "Forbidden", err.Error(), "FORBIDDEN")
	case errors.Is(err, shared.ErrInvalidCredentials):
		ProblemCode(w, http.StatusUnauthorized, "Unauthorized", err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, shared.ErrUnauthorized):
		ProblemCode(w, http.StatusUnauthorized, "Unauthorized", err.Error(), "AUTH_REQUIRED")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
