// Package auth composes the security primitives (rate limiter, lockout
// guard, audit log) with the user store into the login, registration and
// federated sign-in decisions.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/models"
	"quill/internal/security"
	"quill/internal/validation"
)

const (
	loginLimit     = 10
	loginWindow    = 15 * time.Minute
	registerLimit  = 5
	registerWindow = time.Hour
)

// UserStore is the slice of the user repository the authenticator needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ClientInfo identifies the remote caller for rate limiting and auditing.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// RegisterInput is the payload for credentials registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Handle   string `json:"handle"`
	Nickname string `json:"nickname"`
}

// Authenticator owns the login decision. All of its collaborators are
// injected so tests can build isolated instances.
type Authenticator struct {
	users   UserStore
	limiter *security.RateLimiter
	lockout *security.LockoutGuard
	audit   *security.AuditLog
	logger  *slog.Logger
}

func NewAuthenticator(users UserStore, limiter *security.RateLimiter, lockout *security.LockoutGuard, audit *security.AuditLog, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		users:   users,
		limiter: limiter,
		lockout: lockout,
		audit:   audit,
		logger:  logger,
	}
}

// Login runs the credentials pipeline: lockout check, rate limit, user
// lookup, password verification, then counter reset and audit. Every failure
// surfaces the same generic authentication error apart from the throttling
// branches, which return a rate-limited error so clients can back off. The
// audit log records the real reason.
func (a *Authenticator) Login(ctx context.Context, handle, password string, client ClientInfo) (*models.User, error) {
	handle = models.NormalizeHandle(handle)

	if status := a.lockout.IsAccountLocked(handle); status.Locked {
		a.audit.Append(security.AuditEvent{
			Kind:      security.EventAccountLocked,
			Handle:    handle,
			IPAddress: client.IP,
			UserAgent: client.UserAgent,
			Metadata:  map[string]string{"remaining_seconds": fmt.Sprintf("%d", status.RemainingSeconds)},
		})
		return nil, models.NewRateLimitedError(fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", status.RemainingSeconds))
	}

	if a.limiter.Check("login:"+client.IP, loginLimit, loginWindow) {
		a.audit.Append(security.AuditEvent{
			Kind:      security.EventFailedLogin,
			Handle:    handle,
			IPAddress: client.IP,
			UserAgent: client.UserAgent,
			Metadata:  map[string]string{"reason": "rate_limited"},
		})
		return nil, models.NewRateLimitedError("Too many login attempts. Please try again later.")
	}

	user, err := a.users.GetByHandle(ctx, handle)
	if err != nil {
		a.logger.ErrorContext(ctx, "login lookup failed", slog.String("error", err.Error()))
		return nil, models.NewStorageError(err)
	}
	if user == nil || !user.Password.IsSet() {
		// Unknown identifiers consume lockout budget too: distinguishing
		// them would require a store lookup before the counter update and
		// would leak account existence through timing.
		a.lockout.RecordFailedLogin(handle)
		a.audit.Append(security.AuditEvent{
			Kind:      security.EventFailedLogin,
			Handle:    handle,
			IPAddress: client.IP,
			UserAgent: client.UserAgent,
			Metadata:  map[string]string{"reason": "user_not_found"},
		})
		return nil, models.NewAuthError()
	}

	if !user.Password.Verify(password) {
		if a.lockout.RecordFailedLogin(handle) {
			a.audit.Append(security.AuditEvent{
				Kind:      security.EventAccountLocked,
				UserID:    user.ID,
				Handle:    handle,
				Email:     user.Email,
				IPAddress: client.IP,
				UserAgent: client.UserAgent,
			})
			status := a.lockout.IsAccountLocked(handle)
			return nil, models.NewRateLimitedError(fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", status.RemainingSeconds))
		}
		a.audit.Append(security.AuditEvent{
			Kind:      security.EventFailedLogin,
			UserID:    user.ID,
			Handle:    handle,
			Email:     user.Email,
			IPAddress: client.IP,
			UserAgent: client.UserAgent,
			Metadata:  map[string]string{"reason": "invalid_password"},
		})
		return nil, models.NewAuthError()
	}

	a.lockout.ResetFailedLogins(handle)
	a.audit.Append(security.AuditEvent{
		Kind:      security.EventLogin,
		UserID:    user.ID,
		Handle:    user.Handle,
		Email:     user.Email,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		Success:   true,
	})
	return user, nil
}

// Register validates the payload, applies its own rate-limit namespace and
// creates the user. Unlike login, duplicate email and taken handle produce
// distinct errors: registration inherently reveals existence.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput, client ClientInfo) (*models.User, error) {
	if a.limiter.Check("register:"+client.IP, registerLimit, registerWindow) {
		return nil, models.NewRateLimitedError("Too many registration attempts. Please try again later.")
	}

	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateHandle(input.Handle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateNickname(input.Nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	handle := models.NormalizeHandle(input.Handle)

	existing, err := a.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}

	taken, err := a.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if taken != nil {
		return nil, models.NewConflictError("Handle is already taken")
	}

	credential, err := models.NewCredential(input.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:       input.Email,
		DisplayName: input.Nickname,
		Handle:      handle,
		Nickname:    input.Nickname,
		Password:    credential,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	a.audit.Append(security.AuditEvent{
		Kind:      security.EventRegister,
		UserID:    user.ID,
		Handle:    user.Handle,
		Email:     user.Email,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		Success:   true,
	})
	return user, nil
}

// FederatedLogin materializes a session for an identity-provider sign-in,
// creating the user on first contact with handle and nickname left empty
// until profile setup.
func (a *Authenticator) FederatedLogin(ctx context.Context, email, name, avatar string, client ClientInfo) (*models.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	if user == nil {
		user = &models.User{
			Email:       email,
			DisplayName: name,
			Avatar:      avatar,
		}
		if err := a.users.Create(ctx, user); err != nil {
			return nil, err
		}
		a.audit.Append(security.AuditEvent{
			Kind:      security.EventRegister,
			UserID:    user.ID,
			Email:     user.Email,
			IPAddress: client.IP,
			UserAgent: client.UserAgent,
			Success:   true,
			Metadata:  map[string]string{"provider": "google"},
		})
	}

	a.audit.Append(security.AuditEvent{
		Kind:      security.EventLogin,
		UserID:    user.ID,
		Handle:    user.Handle,
		Email:     user.Email,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		Success:   true,
		Metadata:  map[string]string{"provider": "google"},
	})
	return user, nil
}

// RecordLogout writes the logout audit event.
func (a *Authenticator) RecordLogout(user *models.User, client ClientInfo) {
	a.audit.Append(security.AuditEvent{
		Kind:      security.EventLogout,
		UserID:    user.ID,
		Handle:    user.Handle,
		Email:     user.Email,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		Success:   true,
	})
}
