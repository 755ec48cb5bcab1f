package server

import (
	"github.com/gofiber/fiber/v2"

	"quill/internal/cache"
	"quill/internal/models"
)

// userProfile is the public profile payload, cached by handle.
type userProfile struct {
	User        models.UserSummary `json:"user"`
	Followers   int64              `json:"followers"`
	Following   int64              `json:"following"`
	Posts       int64              `json:"posts"`
	RecentPosts []models.Post      `json:"recentPosts"`
}

func (s *Server) buildProfile(c *fiber.Ctx, user *models.User) (*userProfile, error) {
	followers, err := s.followRepo.FollowerCount(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.FollowingCount(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.CountByUser(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.postRepo.ListByUser(c.Context(), user.ID, 20, 0)
	if err != nil {
		return nil, err
	}
	return &userProfile{
		User:        user.Summary(false),
		Followers:   followers,
		Following:   following,
		Posts:       posts,
		RecentPosts: recent,
	}, nil
}

// resolveUserByHandle maps the :handle path parameter to a user or a 404.
func (s *Server) resolveUserByHandle(c *fiber.Ctx) (*models.User, error) {
	handle := c.Params("handle")
	user, err := s.userRepo.GetByHandle(c.Context(), handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", handle)
	}
	return user, nil
}

// GetUserProfile handles GET /api/users/:handle
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	handle := models.NormalizeHandle(c.Params("handle"))

	var profile userProfile
	err := cache.Aside(c.Context(), cache.ProfileKey(handle), &profile, cache.ProfileTTL, func() error {
		user, err := s.resolveUserByHandle(c)
		if err != nil {
			return err
		}
		built, err := s.buildProfile(c, user)
		if err != nil {
			return err
		}
		profile = *built
		return nil
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:handle/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	user, err := s.resolveUserByHandle(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	p := parsePagination(c, 50)
	posts, err := s.postRepo.ListByUser(c.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// FollowUser handles POST /api/users/:handle/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	follower, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	followee, err := s.resolveUserByHandle(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	if err := s.followRepo.Follow(c.Context(), follower.ID, followee.ID); err != nil {
		return models.RespondError(c, err)
	}

	cache.InvalidateProfile(c.Context(), followee.Handle)
	cache.InvalidateProfile(c.Context(), follower.Handle)

	count, err := s.followRepo.FollowerCount(c.Context(), followee.ID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"following": true, "followerCount": count})
}

// UnfollowUser handles DELETE /api/users/:handle/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	follower, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	followee, err := s.resolveUserByHandle(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	if err := s.followRepo.Unfollow(c.Context(), follower.ID, followee.ID); err != nil {
		return models.RespondError(c, err)
	}

	cache.InvalidateProfile(c.Context(), followee.Handle)
	cache.InvalidateProfile(c.Context(), follower.Handle)

	count, err := s.followRepo.FollowerCount(c.Context(), followee.ID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"following": false, "followerCount": count})
}

// GetFollowers handles GET /api/users/:handle/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	user, err := s.resolveUserByHandle(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	p := parsePagination(c, 50)
	followers, err := s.followRepo.Followers(c.Context(), user.ID, p.Limit)
	if err != nil {
		return models.RespondError(c, err)
	}

	summaries := make([]models.UserSummary, 0, len(followers))
	for _, f := range followers {
		summaries = append(summaries, f.Summary(false))
	}
	return c.JSON(fiber.Map{"users": summaries})
}

// GetFollowing handles GET /api/users/:handle/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	user, err := s.resolveUserByHandle(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	p := parsePagination(c, 50)
	following, err := s.followRepo.Following(c.Context(), user.ID, p.Limit)
	if err != nil {
		return models.RespondError(c, err)
	}

	summaries := make([]models.UserSummary, 0, len(following))
	for _, f := range following {
		summaries = append(summaries, f.Summary(false))
	}
	return c.JSON(fiber.Map{"users": summaries})
}
