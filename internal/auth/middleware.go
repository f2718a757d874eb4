package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Authenticator validates the bearer token on every request and stores
// the resolved identity in the request context. Authorization is not
// decided here; downstream authz guards consume the identity.
func Authenticator(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "invalid or missing authentication token", "AUTH_REQUIRED")
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authorization header must be 'Bearer <token>'", "AUTH_REQUIRED")
				return
			}

			user, err := service.VerifyAccess(r.Context(), token)
			if err != nil {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "invalid token", "INVALID_TOKEN")
				return
			}
			if !user.Role.Valid() {
				// A role outside the closed enumeration is corrupt data,
				// not a deniable request. Fail loudly instead of guessing.
				if logger != nil {
					logger.Error("user with unknown role",
						slog.String("user", user.ID),
						slog.String("role", string(user.Role)))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}

			identity := user.Identity()
			if identity.BranchID == "" {
				// Every account carries a primary branch. A row without
				// one cannot be scoped, so it never reaches a handler.
				httpx.ProblemCode(w, http.StatusForbidden, "Forbidden", "account has no branch assignment", "MISSING_BRANCH")
				return
			}
			ctx := authz.ContextWithUser(r.Context(), &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
