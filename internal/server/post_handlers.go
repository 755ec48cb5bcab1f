package server

import (
	"github.com/gofiber/fiber/v2"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/validation"
)

// CreatePost handles POST /api/posts. Requires a completed profile so every
// post can snapshot the author's handle and nickname.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}
	if !user.ProfileComplete() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Complete your profile before posting"))
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	title := validation.SanitizeInput(req.Title, 200)
	if err := validation.ValidatePost(title, req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	post := &models.Post{
		Title:   title,
		Content: req.Content,
		UserID:  user.ID,
		// Author snapshot at time of writing; later profile edits do not
		// rewrite existing posts.
		Handle:   user.Handle,
		Nickname: user.Nickname,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondError(c, err)
	}

	cache.InvalidateFeed(c.Context())
	cache.InvalidateProfile(c.Context(), user.Handle)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// GetPosts handles GET /api/posts, newest first. The first unpaginated page
// is served through the cache.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	var posts []models.Post
	if p.Offset == 0 && c.Query("limit") == "" {
		err := cache.Aside(c.Context(), cache.FeedKey(), &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListAll(c.Context(), p.Limit, 0)
			return fetchErr
		})
		if err != nil {
			return models.RespondError(c, err)
		}
	} else {
		var err error
		posts, err = s.postRepo.ListAll(c.Context(), p.Limit, p.Offset)
		if err != nil {
			return models.RespondError(c, err)
		}
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}
