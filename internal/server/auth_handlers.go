package server

import (
	"log/slog"
	"time"

	"stitchhub/internal/models"
	"stitchhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.authService.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. The session ends locally whatever the
// revocation store says; a failed blacklist write is logged, not surfaced.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := s.tokenClaims(c)
	if ok {
		jti, _ := claims["jti"].(string)
		ttl := service.TokenTTL
		if exp, expOk := claims["exp"].(float64); expOk {
			ttl = time.Until(time.Unix(int64(exp), 0))
		}
		if err := s.authService.Logout(c.Context(), jti, ttl); err != nil {
			slog.WarnContext(c.UserContext(), "failed to blacklist token on logout", "error", err)
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ResetPassword handles POST /api/auth/reset-password. The response is the
// same whether or not the email exists.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.ResetPassword(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// The token would normally leave through an email provider. Until one is
	// wired up it is logged so operators can hand it over out of band.
	if token != "" {
		slog.InfoContext(c.UserContext(), "password reset token issued", "email", req.Email)
	}

	return c.JSON(fiber.Map{"message": "If that email exists, a reset link has been sent"})
}

// UpdatePassword handles POST /api/auth/update-password, accepting either a
// recovery token or an authenticated session.
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req struct {
		ResetToken  string `json:"reset_token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var userID uint
	if req.ResetToken == "" {
		claims, ok := s.tokenClaims(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthError("A reset token or an authenticated session is required"))
		}
		if sub, subOk := claims["sub"].(string); subOk {
			userID = parseUserID(sub)
		}
	}

	if err := s.authService.UpdatePassword(c.Context(), userID, req.ResetToken, req.NewPassword); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
