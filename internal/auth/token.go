package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/dbx-labels/etiquetas/internal/authz"
	"github.com/dbx-labels/etiquetas/internal/shared"
)

// tokenClaims is the payload the identity service signs. Only id and
// rol_id are read; everything else in the token is the issuer's
// business.
type tokenClaims struct {
	UserID int64 `json:"id"`
	RoleID int64 `json:"rol_id"`
	jwt.RegisteredClaims
}

// TokenVerifier checks bearer tokens against the shared HS256 secret
// and extracts the identity claims.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier for the shared secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token. Any failure, signature,
// expiry or shape, collapses into ErrInvalidToken: the caller treats it
// as "no identity" and forces re-authentication.
func (v *TokenVerifier) Verify(raw string) (authz.Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return authz.Identity{}, shared.ErrInvalidToken
	}
	if claims.UserID == 0 || claims.RoleID == 0 {
		return authz.Identity{}, shared.ErrInvalidToken
	}
	return authz.Identity{UserID: claims.UserID, Role: authz.Role(claims.RoleID)}, nil
}
