package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// TokenVerifier checks a bearer token and extracts the email claim.
type TokenVerifier interface {
	VerifyEmail(ctx context.Context, rawToken string) (string, error)
}

// OIDCConfig carries the provider settings for the OpenID Connect flow.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// OIDC implements both the interactive authorization-code flow and bearer
// token verification against one OpenID Connect provider.
type OIDC struct {
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
}

// NewOIDC discovers the provider and prepares the verifier and OAuth2
// configuration.
func NewOIDC(ctx context.Context, cfg OIDCConfig) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("auth: discover oidc provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	return &OIDC{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
	}, nil
}

// AuthCodeURL returns the provider URL to redirect the browser to.
func (o *OIDC) AuthCodeURL(state string) string {
	return o.oauth2Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a verified email claim.
func (o *OIDC) Exchange(ctx context.Context, code string) (string, error) {
	token, err := o.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("auth: exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", fmt.Errorf("auth: missing id_token in token response")
	}
	return o.VerifyEmail(ctx, rawIDToken)
}

// VerifyEmail verifies a raw ID token and returns its email claim.
func (o *OIDC) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	idToken, err := o.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("auth: verify token: %w", err)
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("auth: parse claims: %w", err)
	}
	if claims.Email == "" {
		return "", fmt.Errorf("auth: token carries no email claim")
	}
	return claims.Email, nil
}

var _ TokenVerifier = (*OIDC)(nil)
