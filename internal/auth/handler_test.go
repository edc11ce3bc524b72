package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/dbx-labels/etiquetas/internal/auth"
	"github.com/dbx-labels/etiquetas/internal/authz"
	"github.com/dbx-labels/etiquetas/internal/shared"
	_ "github.com/dbx-labels/etiquetas/testing"
)

const handlerSecret = "handler-test-secret"

type recordingRepo struct {
	created []auth.SessionRecord
	deleted []string
}

func (r *recordingRepo) CreateSession(ctx context.Context, rec auth.SessionRecord) error {
	r.created = append(r.created, rec)
	return nil
}

func (r *recordingRepo) DeleteSession(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newEnv(t *testing.T) (http.Handler, *shared.SessionManager, *recordingRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	repo := &recordingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(auth.NewTokenVerifier(handlerSecret), repo, nil, time.Hour)
	handler := auth.NewHandler(logger, service, authz.DefaultPolicy())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessionManager.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			// Commit before the handler writes, as the production
			// stack does, so Set-Cookie lands in the response headers.
			next.ServeHTTP(&committingWriter{
				ResponseWriter: w,
				ctx:            ctx,
				req:            req,
				sess:           sess,
				manager:        sessionManager,
				t:              t,
			}, req.WithContext(ctx))
		})
	})
	r.Route("/auth", handler.MountRoutes)
	return r, sessionManager, repo
}

// committingWriter flushes the session to Redis and sets the cookie
// header right before the first response write, matching the
// commit-on-write wrapper the app middleware installs.
type committingWriter struct {
	http.ResponseWriter
	ctx       context.Context
	req       *http.Request
	sess      *shared.Session
	manager   *shared.SessionManager
	t         *testing.T
	committed bool
}

func (w *committingWriter) WriteHeader(statusCode int) {
	if !w.committed {
		w.committed = true
		if err := w.manager.Commit(w.ctx, w.ResponseWriter, w.req, w.sess); err != nil {
			w.t.Fatalf("commit session: %v", err)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *committingWriter) Write(data []byte) (int, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func issueToken(t *testing.T, userID, roleID int64) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     userID,
		"rol_id": roleID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(handlerSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestCreateSession(t *testing.T) {
	router, _, repo := newEnv(t)

	token := issueToken(t, 9, int64(authz.RoleOperador))
	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"token":"Bearer `+token+`"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var resp struct {
		UserID   int64  `json:"user_id"`
		Role     int64  `json:"role"`
		RoleName string `json:"role_name"`
		Area     string `json:"area"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != 9 || resp.Role != int64(authz.RoleOperador) {
		t.Fatalf("unexpected identity: %+v", resp)
	}
	if resp.RoleName != "Operador" || resp.Area != "Planeación" {
		t.Fatalf("unexpected profile: %+v", resp)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one session record, got %d", len(repo.created))
	}

	var sessionCookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == "test_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("session cookie not set")
	}
}

func TestCreateSessionInvalidToken(t *testing.T) {
	router, _, repo := newEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"token":"garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "sesión inválida") {
		t.Fatalf("expected the re-login message, got %s", res.Body.String())
	}
	if len(repo.created) != 0 {
		t.Fatal("no session record should be written")
	}
}

func TestCreateSessionMissingToken(t *testing.T) {
	router, _, _ := newEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	router, sessionManager, repo := newEnv(t)

	// Sign in first so there is a live session to revoke.
	token := issueToken(t, 9, int64(authz.RoleCalidad))
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"token":"`+token+`"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRes := httptest.NewRecorder()
	router.ServeHTTP(loginRes, loginReq)
	if loginRes.Code != http.StatusCreated {
		t.Fatalf("login failed: %d", loginRes.Code)
	}

	var sessionID string
	for _, c := range loginRes.Result().Cookies() {
		if c.Name == "test_session" {
			sessionID = c.Value
		}
	}
	if sessionID == "" {
		t.Fatal("no session cookie after login")
	}

	req := httptest.NewRequest(http.MethodDelete, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sessionID})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != sessionID {
		t.Fatalf("unexpected deletions: %v", repo.deleted)
	}

	reload := httptest.NewRequest(http.MethodGet, "/", nil)
	reload.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sessionID})
	sess, err := sessionManager.Load(context.Background(), reload)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if auth.IdentityFromSession(sess).Present() {
		t.Fatal("identity must be gone after logout")
	}
}
