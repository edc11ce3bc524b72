package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/dbx-labels/etiquetas/internal/authz"
	"github.com/dbx-labels/etiquetas/internal/platform/httpx"
	"github.com/dbx-labels/etiquetas/internal/shared"
)

// Handler wires the session endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	policy    authz.Policy
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, policy authz.Policy) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		policy:    policy,
		validator: validator.New(),
	}
}

// MountRoutes registers session routes. Exchange is rate limited per
// client address: token guessing is the one brute-forceable surface.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/session", h.createSession)
	})
	r.Delete("/session", h.deleteSession)
}

type createSessionRequest struct {
	Token string `json:"token" validate:"required"`
}

type sessionResponse struct {
	UserID   int64  `json:"user_id"`
	Role     int64  `json:"role"`
	RoleName string `json:"role_name"`
	Area     string `json:"area"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "cuerpo de la petición inválido")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "token requerido")
		return
	}
	// Bearer tokens arriving in the request body may carry the scheme
	// prefix when the shell forwards its Authorization header as-is.
	raw := strings.TrimSpace(strings.TrimPrefix(req.Token, "Bearer "))

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, errors.New("session unavailable"))
		return
	}

	identity, err := h.service.Exchange(r.Context(), sess, raw, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, shared.ErrInvalidToken) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sesión inválida, inicia sesión de nuevo")
			return
		}
		h.logger.Error("session exchange", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	eval := authz.NewEvaluator(h.policy, identity)
	httpx.JSON(w, http.StatusCreated, sessionResponse{
		UserID:   identity.UserID,
		Role:     int64(identity.Role),
		RoleName: eval.RoleName(),
		Area:     string(eval.UserArea()),
	})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.service.Revoke(r.Context(), sess); err != nil {
		h.logger.Error("session revoke", slog.Any("error", err))
	}
	sess.Destroy()
	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return strings.TrimSpace(ip)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx > 0 {
		return host[:idx]
	}
	return host
}
