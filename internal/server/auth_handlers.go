package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"quill/internal/auth"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/security"
)

const oauthStateCookie = "oauth_state"

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req auth.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authenticator.Register(c.Context(), req, clientInfo(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	middleware.AuthEvents.WithLabelValues(string(security.EventRegister)).Inc()

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user.Summary(true),
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Handle == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Handle and password are required"))
	}

	user, err := s.authenticator.Login(c.Context(), req.Handle, req.Password, clientInfo(c))
	if err != nil {
		middleware.AuthEvents.WithLabelValues(string(security.EventFailedLogin)).Inc()
		return models.RespondError(c, err)
	}
	middleware.AuthEvents.WithLabelValues(string(security.EventLogin)).Inc()

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Summary(true),
	})
}

// Logout handles POST /api/auth/logout. The token's JTI is blacklisted until
// its natural expiry so it cannot be replayed.
func (s *Server) Logout(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondError(c, err)
	}

	if jti, ok := c.Locals("jti").(string); ok && jti != "" && s.redis != nil {
		ttl := time.Hour * 24 * 7
		if exp, ok := c.Locals("tokenExp").(int64); ok {
			if until := time.Until(time.Unix(exp, 0)); until > 0 {
				ttl = until
			}
		}
		s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
	}

	s.authenticator.RecordLogout(user, clientInfo(c))
	middleware.AuthEvents.WithLabelValues(string(security.EventLogout)).Inc()

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GoogleRedirect handles GET /api/auth/google and sends the client to the
// provider's consent screen.
func (s *Server) GoogleRedirect(c *fiber.Ctx) error {
	if !s.oauth.Configured() {
		return models.RespondWithError(c, fiber.StatusNotImplemented,
			models.NewValidationError("Federated login is not configured"))
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		MaxAge:   300,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.oauth.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback: verifies the CSRF
// state, exchanges the code and materializes a session. A first-time sign-in
// creates the user with an empty handle pending profile setup.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if !s.oauth.Configured() {
		return models.RespondWithError(c, fiber.StatusNotImplemented,
			models.NewValidationError("Federated login is not configured"))
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid OAuth state"))
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	profile, err := s.oauth.Exchange(c.Context(), code)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "oauth exchange failed", "error", err.Error())
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Federated login failed"))
	}

	user, err := s.authenticator.FederatedLogin(c.Context(), profile.Email, profile.Name, profile.Picture, clientInfo(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	middleware.AuthEvents.WithLabelValues(string(security.EventLogin)).Inc()

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":            token,
		"user":             user.Summary(true),
		"profile_complete": user.ProfileComplete(),
	})
}
