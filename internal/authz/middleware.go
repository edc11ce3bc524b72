package authz

import (
	"log/slog"
	"net/http"

	"github.com/dbx-labels/etiquetas/internal/platform/httpx"
)

// DeniedNotice is the short, non-technical message returned when a
// route opts into an explicit denial response. Never a stack trace.
const DeniedNotice = "No tienes permisos para acceder a esta funcionalidad"

// DenyMode selects how a guarded route answers a denied request. One
// construct with a flag, not two middlewares.
type DenyMode int

const (
	// DenyWithNotice answers 403 with the non-technical notice.
	DenyWithNotice DenyMode = iota
	// DenyHidden answers 404 so the route does not admit existing.
	// Used for controls that must not leak their presence.
	DenyHidden
)

// Observer receives authorization decisions, typically for metrics.
type Observer interface {
	AuthzDecision(module string, allowed bool)
}

// Middleware guards chi routes with matrix lookups against the request
// identity.
type Middleware struct {
	Policy   Policy
	Logger   *slog.Logger
	Observer Observer
}

// Require permits the request only when the identity holds the exact
// (module, action) grant. Everything else is a denial in the configured
// mode; a policy miss is never an error.
func (m Middleware) Require(module Module, action Action, mode DenyMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			eval := NewEvaluator(m.Policy, IdentityFromContext(r.Context()))
			allowed := eval.HasPermission(module, action)
			if m.Observer != nil {
				m.Observer.AuthzDecision(string(module), allowed)
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Debug("authz denied",
					slog.String("module", string(module)),
					slog.String("action", string(action)),
					slog.Int64("role", int64(eval.Identity().Role)))
			}
			m.deny(w, mode)
		})
	}
}

// RequireModule permits the request when the identity holds at least
// one action on the module. Used for section-level routes.
func (m Middleware) RequireModule(module Module, mode DenyMode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			eval := NewEvaluator(m.Policy, IdentityFromContext(r.Context()))
			allowed := eval.CanAccessModule(module)
			if m.Observer != nil {
				m.Observer.AuthzDecision(string(module), allowed)
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			m.deny(w, mode)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, mode DenyMode) {
	switch mode {
	case DenyHidden:
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
	default:
		httpx.Problem(w, http.StatusForbidden, "Forbidden", DeniedNotice)
	}
}

// Evaluator builds a fresh evaluator for the request. Handlers use the
// result for in-process gating: omitting controls and links a role must
// not see instead of disabling them.
func (m Middleware) Evaluator(r *http.Request) *Evaluator {
	return NewEvaluator(m.Policy, IdentityFromContext(r.Context()))
}
