// Package auth resolves the principal of a request from a bearer token or a
// session cookie.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Verifier turns a raw credential into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (access.Principal, error)
}

const supabaseAudience = "authenticated"

var errInvalidToken = apperr.Unauthenticated("invalid or expired session")

type supabaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SupabaseVerifier validates HS256 access tokens issued by Supabase Auth.
type SupabaseVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewSupabaseVerifier(secret string) *SupabaseVerifier {
	return &SupabaseVerifier{secret: []byte(secret), now: time.Now}
}

func (v *SupabaseVerifier) Verify(_ context.Context, token string) (access.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return access.Principal{}, errInvalidToken
	}

	var claims supabaseClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return access.Principal{}, errInvalidToken.WithCause(err)
	}
	if claims.Subject == "" {
		return access.Principal{}, errInvalidToken.WithCause(errors.New("token has no subject"))
	}

	return access.Principal{ID: claims.Subject, Email: claims.Email}, nil
}

// TokenExpiry reads the exp claim without verifying the signature. It is
// only used to decide whether a cookie session needs refreshing.
func TokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
