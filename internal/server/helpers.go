package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"quill/internal/auth"
	"quill/internal/models"
)

// Pagination carries parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// clientInfo captures the caller's address and agent for auditing.
func clientInfo(c *fiber.Ctx) auth.ClientInfo {
	return auth.ClientInfo{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}

// currentUser re-resolves the authenticated user from storage on every call
// so profile-setup completion is reflected without re-authentication.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil, models.NewUnauthorizedError("Account no longer exists")
	}
	return user, nil
}

// parsePostID validates the canonical post id format before touching storage.
func parsePostID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", models.NewValidationError("Invalid post ID")
	}
	return id, nil
}

// generateToken creates a JWT token for the given user
func (s *Server) generateToken(user *models.User) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.ID,                            // Subject (user ID)
		"handle": user.Handle,                        // Handle (cached in token)
		"iss":    "quill-api",                        // Issuer
		"aud":    "quill-client",                     // Audience
		"exp":    now.Add(time.Hour * 24 * 7).Unix(), // Expiration (7 days)
		"iat":    now.Unix(),                         // Issued at
		"nbf":    now.Unix(),                         // Not before
		"jti":    s.generateJTI(),                    // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
