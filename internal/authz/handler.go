package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbx-labels/etiquetas/internal/platform/httpx"
)

// Handler exposes the permission API the dashboard shell consumes.
type Handler struct {
	logger *slog.Logger
	policy Policy
	guard  Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, policy Policy, guard Middleware) *Handler {
	return &Handler{logger: logger, policy: policy, guard: guard}
}

// MountRoutes registers the authorization endpoints. The policy dump is
// the one route with something to protect; everything else only ever
// reveals the caller's own permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Get("/permissions/{module}", h.modulePermissions)
	r.Get("/sections", h.sections)
	r.Get("/modules", h.modulesByArea)
	r.Post("/sections/resolve", h.resolveSection)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(ModuleRoles, ActionRead, DenyWithNotice))
		r.Get("/policy", h.policyDump)
	})
}

type identityResponse struct {
	UserID       int64  `json:"user_id"`
	Role         int64  `json:"role"`
	RoleName     string `json:"role_name"`
	Area         string `json:"area"`
	IsAdmin      bool   `json:"is_admin"`
	IsOperador   bool   `json:"is_operador"`
	IsGenerador  bool   `json:"is_generador"`
	IsCalidad    bool   `json:"is_calidad"`
	IsTI         bool   `json:"is_ti"`
	IsPlaneacion bool   `json:"is_planeacion"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	eval := NewEvaluator(h.policy, IdentityFromContext(r.Context()))
	identity := eval.Identity()
	httpx.JSON(w, http.StatusOK, identityResponse{
		UserID:       identity.UserID,
		Role:         int64(identity.Role),
		RoleName:     eval.RoleName(),
		Area:         string(eval.UserArea()),
		IsAdmin:      eval.IsAdmin(),
		IsOperador:   eval.IsOperador(),
		IsGenerador:  eval.IsGenerador(),
		IsCalidad:    eval.IsCalidad(),
		IsTI:         eval.IsTI(),
		IsPlaneacion: eval.IsPlaneacion(),
	})
}

// modulePermissions answers the per-action flags for one module. An
// unknown module is not an error: every flag comes back false.
func (h *Handler) modulePermissions(w http.ResponseWriter, r *http.Request) {
	module := Module(chi.URLParam(r, "module"))
	eval := NewEvaluator(h.policy, IdentityFromContext(r.Context()))
	httpx.JSON(w, http.StatusOK, eval.Summary(module))
}

type sectionsResponse struct {
	Sections []Module `json:"sections"`
}

func (h *Handler) sections(w http.ResponseWriter, r *http.Request) {
	eval := NewEvaluator(h.policy, IdentityFromContext(r.Context()))
	httpx.JSON(w, http.StatusOK, sectionsResponse{Sections: eval.AvailableSections()})
}

func (h *Handler) modulesByArea(w http.ResponseWriter, r *http.Request) {
	eval := NewEvaluator(h.policy, IdentityFromContext(r.Context()))
	httpx.JSON(w, http.StatusOK, eval.ModulesByArea())
}

type resolveSectionRequest struct {
	Current Module `json:"current"`
}

type resolveSectionResponse struct {
	Section Module `json:"section"`
	Empty   bool   `json:"empty"`
}

// resolveSection applies the fall-forward policy for the shell: keep
// the current section while it stays accessible, otherwise the first
// available one, otherwise the explicit empty state.
func (h *Handler) resolveSection(w http.ResponseWriter, r *http.Request) {
	var req resolveSectionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "cuerpo de la petición inválido")
		return
	}
	eval := NewEvaluator(h.policy, IdentityFromContext(r.Context()))
	resolved := ResolveActiveSection(req.Current, eval.AvailableSections())
	httpx.JSON(w, http.StatusOK, resolveSectionResponse{
		Section: resolved,
		Empty:   resolved == SectionNone,
	})
}

type policyRoleResponse struct {
	Role    int64                      `json:"role"`
	Name    string                     `json:"name"`
	Area    string                     `json:"area"`
	Modules map[Module]map[Action]bool `json:"modules"`
}

// policyDump lists the full grant table for admin tooling.
func (h *Handler) policyDump(w http.ResponseWriter, r *http.Request) {
	out := make([]policyRoleResponse, 0, len(h.policy.Matrix))
	for _, role := range h.policy.Roles() {
		modules := make(map[Module]map[Action]bool, len(h.policy.Matrix[role]))
		for module, actions := range h.policy.Matrix[role] {
			granted := make(map[Action]bool, len(actions))
			for action, allowed := range actions {
				if allowed {
					granted[action] = true
				}
			}
			modules[module] = granted
		}
		out = append(out, policyRoleResponse{
			Role:    int64(role),
			Name:    h.policy.RoleName(role),
			Area:    string(h.policy.RoleArea(role)),
			Modules: modules,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
