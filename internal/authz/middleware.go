package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Middleware wires authorization guards for HTTP handlers. Both the
// page layer and the API share the same decision functions above, so
// the two can never drift apart.
type Middleware struct {
	Logger *slog.Logger
}

// RequirePermission ensures the current user holds at least one of the
// required permissions.
func (m Middleware) RequirePermission(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authentication required", "AUTH_REQUIRED")
				return
			}
			for _, p := range perms {
				if HasPermission(user.Role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.String("user", user.ID),
					slog.String("role", string(user.Role)),
					slog.Any("required", perms))
			}
			httpx.ProblemCode(w, http.StatusForbidden, "Forbidden", "insufficient permissions to perform this action", "INSUFFICIENT_PERMISSIONS")
		})
	}
}

// RequireRole ensures the current user has one of the allowed roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authentication required", "AUTH_REQUIRED")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.ProblemCode(w, http.StatusForbidden, "Forbidden", "insufficient role to perform this action", "INSUFFICIENT_ROLE")
		})
	}
}

// RequireBranchAccess ensures the current user may act on the branch
// named by the given URL parameter (query fallback). A request without
// a branch id is rejected outright rather than defaulting to any scope.
func (m Middleware) RequireBranchAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authentication required", "AUTH_REQUIRED")
				return
			}
			branchID := chi.URLParam(r, param)
			if branchID == "" {
				branchID = r.URL.Query().Get(param)
			}
			if branchID == "" {
				httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "branch id is required", "BRANCH_ID_REQUIRED")
				return
			}
			if !CanAccessBranch(*user, branchID) {
				if m.Logger != nil {
					m.Logger.Warn("branch access denied",
						slog.String("user", user.ID),
						slog.String("branch", branchID))
				}
				httpx.ProblemCode(w, http.StatusForbidden, "Forbidden", "access denied to this branch", "BRANCH_ACCESS_DENIED")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
