package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dbx-labels/etiquetas/internal/authz"
	"github.com/dbx-labels/etiquetas/internal/shared"
)

// Service wraps the token-exchange business rules.
type Service struct {
	verifier *TokenVerifier
	repo     Repository
	audit    *shared.AuditLogger
	ttl      time.Duration
}

// NewService constructs a new Service.
func NewService(verifier *TokenVerifier, repo Repository, audit *shared.AuditLogger, ttl time.Duration) *Service {
	return &Service{verifier: verifier, repo: repo, audit: audit, ttl: ttl}
}

// Exchange verifies a bearer token and, on success, binds the identity
// to the session and registers it. A bad token yields ErrInvalidToken
// and leaves the session anonymous.
func (s *Service) Exchange(ctx context.Context, sess *shared.Session, rawToken, ip, ua string) (authz.Identity, error) {
	identity, err := s.verifier.Verify(rawToken)
	if err != nil {
		return authz.Identity{}, err
	}

	now := time.Now().UTC()
	BindIdentity(sess, identity)

	if err := s.repo.CreateSession(ctx, SessionRecord{
		ID:        sess.ID,
		UserID:    identity.UserID,
		RoleID:    int64(identity.Role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		IP:        ip,
		UserAgent: ua,
	}); err != nil && !errors.Is(err, shared.ErrDuplicateSession) {
		return authz.Identity{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  identity.UserID,
			Action:   "login",
			Entity:   "session",
			EntityID: sess.ID,
			Meta:     map[string]any{"rol_id": int64(identity.Role), "ip": ip},
		})
	}
	return identity, nil
}

// Revoke tears the session down on logout.
func (s *Service) Revoke(ctx context.Context, sess *shared.Session) error {
	identity := IdentityFromSession(sess)
	if err := s.repo.DeleteSession(ctx, sess.ID); err != nil {
		return err
	}
	if s.audit != nil && identity.Present() {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  identity.UserID,
			Action:   "logout",
			Entity:   "session",
			EntityID: sess.ID,
		})
	}
	return nil
}

// PruneExpired removes session rows past their expiry.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now().UTC())
}

// BindIdentity stores the identity claims in the session values.
func BindIdentity(sess *shared.Session, identity authz.Identity) {
	sess.SetUser(strconv.FormatInt(identity.UserID, 10))
	sess.Set(SessionKeyRoleID, strconv.FormatInt(int64(identity.Role), 10))
}

// IdentityFromSession rebuilds the identity bound at login. A session
// without claims (or with mangled ones) yields the zero Identity, which
// denies everything downstream.
func IdentityFromSession(sess *shared.Session) authz.Identity {
	if sess == nil {
		return authz.Identity{}
	}
	userID, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil || userID == 0 {
		return authz.Identity{}
	}
	roleID, err := strconv.ParseInt(sess.Get(SessionKeyRoleID), 10, 64)
	if err != nil {
		return authz.Identity{}
	}
	return authz.Identity{UserID: userID, Role: authz.Role(roleID)}
}
