package bootstrap

import (
	"context"
	"fmt"

	"github.com/reoutfit/reoutfit-backend/config"
	"github.com/reoutfit/reoutfit-backend/internal/auth"
	authhttp "github.com/reoutfit/reoutfit-backend/internal/auth/http"
	"github.com/reoutfit/reoutfit-backend/internal/auth/supabase"
)

// AuthDeps is the session machinery for the configured provider.
type AuthDeps struct {
	Resolver *auth.Resolver
	// Provider is nil for Firebase, where the client signs in directly.
	Provider authhttp.SessionProvider
}

func BuildAuth(ctx context.Context, cfg *config.Config) (*AuthDeps, error) {
	cookies := auth.CookieConfig{Secure: cfg.Auth.CookieSecure, Domain: cfg.Auth.CookieDomain}

	switch cfg.Auth.Provider {
	case config.AuthProviderSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Server.UpstreamTimeout)
		return &AuthDeps{
			Resolver: auth.NewResolver(auth.NewSupabaseVerifier(cfg.Supabase.JWTSecret), client, cookies, cfg.Auth.RefreshWindow),
			Provider: client,
		}, nil

	case config.AuthProviderFirebase:
		fb, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return &AuthDeps{
			Resolver: auth.NewResolver(auth.NewFirebaseVerifier(fb), nil, cookies, cfg.Auth.RefreshWindow),
		}, nil
	}
	return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
}
