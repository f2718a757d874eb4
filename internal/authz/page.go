package authz

import (
	"strings"

	"golang.org/x/text/language"
)

// CanAccessPage decides page-level access for a role. The path may
// carry a leading locale segment ("/en/customers"); it is stripped
// before matching and has no effect on the decision.
//
// Policy:
//   - the dashboard root is open to every authenticated role
//   - /reports requires view_reports (all current roles hold it, but
//     the check is real, not a public bypass)
//   - /settings is restricted to superadmin
//   - /users requires manage_users
//   - everything else requires read
func CanAccessPage(role Role, path string) bool {
	path = stripLocalePrefix(path)

	if path == "" || path == "/" {
		return true
	}
	if path == "/reports" || strings.HasPrefix(path, "/reports/") {
		return HasPermission(role, PermViewReports)
	}
	if strings.HasPrefix(path, "/settings") {
		return role == RoleSuperadmin
	}
	if strings.HasPrefix(path, "/users") {
		return HasPermission(role, PermManageUsers)
	}
	return HasPermission(role, PermRead)
}

// stripLocalePrefix removes a leading two-letter language segment such
// as "/en" or "/th". The segment must parse as an ISO 639 base language
// so that real routes like "/ai-scanner" are not mistaken for locales.
func stripLocalePrefix(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	if len(seg) != 2 {
		return path
	}
	if _, err := language.ParseBase(seg); err != nil {
		return path
	}
	if rest == "" {
		return "/"
	}
	return "/" + rest
}
