package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"stitchhub/internal/config"
	"stitchhub/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
)

const oauthStateCookie = "oauth_state"

// googleAuth bundles the OIDC provider and OAuth2 config for Google sign-in.
type googleAuth struct {
	provider *oidc.Provider
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func newGoogleAuth(ctx context.Context, cfg *config.Config) (*googleAuth, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("creating OIDC provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &googleAuth{
		provider: provider,
		config:   oauthCfg,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.GoogleClientID}),
	}, nil
}

func randState(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GoogleRedirect handles GET /api/auth/google, sending the browser to the
// provider's consent screen with a per-request state nonce.
func (s *Server) GoogleRedirect(c *fiber.Ctx) error {
	state, err := randState(16)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.googleAuth.config.AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback: verifies state,
// exchanges the code, verifies the ID token, and provisions or logs in the
// matching local profile.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("OAuth state mismatch"))
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	oauthToken, err := s.googleAuth.config.Exchange(c.Context(), code)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewAuthError("Failed to exchange authorization code"))
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewAuthError("Identity provider returned no ID token"))
	}

	idToken, err := s.googleAuth.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewAuthError("Invalid ID token"))
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}

	user, token, err := s.authService.ProvisionOAuthUser(c.Context(), claims.Email, claims.Name, claims.Picture)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
