package server

import (
	"stitchhub/internal/models"
	"stitchhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// GetMyDesigns handles GET /api/users/me/designs
func (s *Server) GetMyDesigns(c *fiber.Ctx) error {
	prompts, err := s.designService.ListForOwner(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"items":        prompts,
		"result_count": len(prompts),
	})
}

// GetUserDesigns handles GET /api/users/:id/designs
func (s *Server) GetUserDesigns(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	// Confirm the profile exists so a bad id is a 404, not an empty list.
	if _, err := s.userRepo.GetByID(c.Context(), uint(id)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	prompts, err := s.designService.ListForOwner(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"items":        prompts,
		"result_count": len(prompts),
	})
}
