package server

import (
	"github.com/gofiber/fiber/v2"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/validation"
)

// GetMyProfile handles GET /api/profile/me. The user is re-resolved from
// storage so a completed profile setup shows up without a new token.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":             user.Summary(true),
		"profile_complete": user.ProfileComplete(),
	})
}

// SetupProfile handles POST /api/profile/setup. Setup is a one-time step: a
// handle, once set, is never reassigned through this flow.
func (s *Server) SetupProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	if user.ProfileComplete() {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Profile setup is already completed"))
	}

	var req struct {
		Handle   string `json:"handle"`
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateHandle(req.Handle); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateNickname(req.Nickname); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	handle := models.NormalizeHandle(req.Handle)
	available, err := s.userRepo.HandleAvailable(c.Context(), handle)
	if err != nil {
		return models.RespondError(c, err)
	}
	if !available {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Handle is already taken"))
	}

	user.Handle = handle
	user.Nickname = req.Nickname
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondError(c, err)
	}

	cache.InvalidateUser(c.Context(), user.ID)
	cache.InvalidateProfile(c.Context(), handle)

	return c.JSON(fiber.Map{
		"user":             user.Summary(true),
		"profile_complete": true,
	})
}

// CheckHandle handles GET /api/profile/check-handle?handle=
func (s *Server) CheckHandle(c *fiber.Ctx) error {
	handle := c.Query("handle")
	if err := validation.ValidateHandle(handle); err != nil {
		return c.JSON(fiber.Map{"available": false, "reason": err.Error()})
	}

	available, err := s.userRepo.HandleAvailable(c.Context(), handle)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}
