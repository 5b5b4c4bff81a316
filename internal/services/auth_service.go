package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/notify"
	"github.com/nirgunrohan/LMS/internal/password"
	"github.com/nirgunrohan/LMS/internal/ratelimit"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/token"
	"github.com/nirgunrohan/LMS/internal/totp"
	"github.com/nirgunrohan/LMS/internal/utils"
)

// ResetGenericMessage is returned whether or not the email exists, so
// the endpoint cannot be used to enumerate accounts.
const ResetGenericMessage = "If an account exists, a reset link has been sent"

const (
	actionLogin    = "login"
	actionRegister = "register"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the credential-store port the auth flows depend on.
// RotateSession must perform its find-and-replace as one atomic
// filtered update; concurrent rotations of the same stale token must
// leave at most one winner.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	AddSession(ctx context.Context, userID string, session models.Session) error
	RotateSession(ctx context.Context, userID, oldToken, newToken string, lastUsed time.Time) error
	RemoveSession(ctx context.Context, userID, token string) error
	SetResetToken(ctx context.Context, userID, resetToken string, expiry time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetTwoFactorSecret(ctx context.Context, userID, secret string) error
	EnableTwoFactor(ctx context.Context, userID string) error
}

type AuthConfig struct {
	AppURL         string
	LoginTokenTTL  time.Duration
	AccessTokenTTL time.Duration
	RefreshTTL     time.Duration
	ResetTTL       time.Duration
}

type AuthService struct {
	store    UserStore
	hasher   *password.Hasher
	tokens   *token.Issuer
	limiter  ratelimit.Limiter
	notifier notify.Notifier
	totp     *totp.Manager
	cfg      AuthConfig
	logger   *slog.Logger

	now func() time.Time
}

func NewAuthService(
	store UserStore,
	hasher *password.Hasher,
	tokens *token.Issuer,
	limiter ratelimit.Limiter,
	notifier notify.Notifier,
	totpManager *totp.Manager,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		notifier: notifier,
		totp:     totpManager,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user record. Nothing is persisted unless every
// earlier step passed, so a rejected password never leaves a record.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, clientIP string) (string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "All fields are required", nil)
	}
	if !emailPattern.MatchString(in.Email) {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Invalid email format", nil)
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Role must be user or admin", nil)
	}
	if violations := password.Validate(in.Password); len(violations) > 0 {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeWeakPassword, password.PolicyMessage(violations), nil)
	}

	if err := s.allow(ctx, clientIP, actionRegister); err != nil {
		return "", err
	}

	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeEmailTaken, "User already exists", nil)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", s.storeError("register lookup", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", s.internalError("hash password", err)
	}

	userID, err := s.store.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		// The unique index can still fire when two registrations race.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return "", utils.NewAppError(http.StatusBadRequest, utils.CodeEmailTaken, "User already exists", nil)
		}
		return "", s.storeError("create user", err)
	}

	return userID, nil
}

type LoginInput struct {
	Email    string
	Password string
	TOTPCode string
}

type LoginResult struct {
	Token        string
	RefreshToken string
	User         models.PublicUser
}

// Login authenticates with email and password, challenges enrolled 2FA
// accounts with a TOTP code, and opens a new session. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput, clientIP string) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Email and password are required", nil)
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Invalid email format", nil)
	}

	if err := s.allow(ctx, clientIP, actionLogin); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, s.storeError("login lookup", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	if user.TwoFactorEnabled {
		if in.TOTPCode == "" {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeTOTPRequired, "Two-factor code required", nil)
		}
		ok, err := s.totp.Verify(user.TwoFactorSecret, in.TOTPCode, s.now())
		if err != nil {
			return nil, s.internalError("verify totp", err)
		}
		if !ok {
			return nil, invalidCredentials()
		}
	}

	userID := user.ID.Hex()
	accessToken, err := s.tokens.IssueAccess(userID, user.Email, user.Role, s.cfg.LoginTokenTTL)
	if err != nil {
		return nil, s.internalError("issue login token", err)
	}
	refreshToken, err := s.tokens.IssueRefresh(userID, user.Email, s.cfg.RefreshTTL)
	if err != nil {
		return nil, s.internalError("issue refresh token", err)
	}

	if err := s.store.AddSession(ctx, userID, models.Session{
		RefreshToken: refreshToken,
		LastUsed:     s.now().UTC(),
	}); err != nil {
		return nil, s.storeError("add session", err)
	}

	return &LoginResult{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         user.Public(),
	}, nil
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// Refresh rotates the presented refresh token and mints a short-lived
// access token. The old token value is invalidated by the same update
// that installs the new one; a concurrent refresh of the same stale
// token loses the rotation and fails with SESSION_NOT_FOUND.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, invalidToken()
	}

	newRefresh, err := s.tokens.IssueRefresh(claims.UserID, claims.Email, s.cfg.RefreshTTL)
	if err != nil {
		return nil, s.internalError("issue refresh token", err)
	}

	if err := s.store.RotateSession(ctx, claims.UserID, refreshToken, newRefresh, s.now().UTC()); err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeSessionNotFound, "Session not found", nil)
		}
		return nil, s.storeError("rotate session", err)
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeSessionNotFound, "Session not found", nil)
		}
		return nil, s.storeError("refresh lookup", err)
	}

	access, err := s.tokens.IssueAccess(claims.UserID, user.Email, user.Role, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, s.internalError("issue access token", err)
	}

	return &RefreshResult{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout drops the session matching the presented refresh token. An
// unknown or malformed token is not an error; the cookie gets cleared
// either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil
	}
	if err := s.store.RemoveSession(ctx, claims.UserID, refreshToken); err != nil && !errors.Is(err, repo.ErrSessionNotFound) {
		return s.storeError("remove session", err)
	}
	return nil
}

// GetUser backs the verify endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "User not found", nil)
		}
		return nil, s.storeError("get user", err)
	}
	return user, nil
}

// RequestPasswordReset mints and stores a reset token and hands the
// reset link to the notifier. Callers always receive the same generic
// message; only the store and the notifier observe which branch ran.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Email is required", nil)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return s.storeError("reset lookup", err)
	}

	userID := user.ID.Hex()
	resetToken, err := s.tokens.IssueReset(userID, email, s.cfg.ResetTTL)
	if err != nil {
		return s.internalError("issue reset token", err)
	}

	expiry := s.now().UTC().Add(s.cfg.ResetTTL)
	if err := s.store.SetResetToken(ctx, userID, resetToken, expiry); err != nil {
		return s.storeError("store reset token", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.AppURL, resetToken)
	if err := s.notifier.SendPasswordReset(ctx, email, resetURL); err != nil {
		return s.internalError("send reset mail", err)
	}

	return nil
}

// ConfirmPasswordReset consumes a reset token: the password change
// clears the stored token and drops every session, so the same token
// authorizes exactly one change.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Verify(resetToken, token.KindReset)
	if err != nil {
		return invalidToken()
	}

	if violations := password.Validate(newPassword); len(violations) > 0 {
		return utils.NewAppError(http.StatusBadRequest, utils.CodeWeakPassword, password.PolicyMessage(violations), nil)
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalidToken()
		}
		return s.storeError("reset confirm lookup", err)
	}

	if user.ResetToken == "" || user.ResetToken != resetToken ||
		user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return invalidToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return s.internalError("hash password", err)
	}

	if err := s.store.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return s.storeError("update password", err)
	}
	return nil
}

type TwoFactorSetup struct {
	QRCode string
	Secret string
}

// SetupTwoFactor stores a fresh shared secret with the enabled flag off.
// Enrollment completes only when VerifyTwoFactor sees a valid code.
func (s *AuthService) SetupTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "User not found", nil)
		}
		return nil, s.storeError("2fa setup lookup", err)
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return nil, s.internalError("generate totp secret", err)
	}

	qr, err := s.totp.QRDataURL(secret, user.Email)
	if err != nil {
		return nil, s.internalError("render qr", err)
	}

	if err := s.store.SetTwoFactorSecret(ctx, userID, secret); err != nil {
		return nil, s.storeError("store totp secret", err)
	}

	return &TwoFactorSetup{QRCode: qr, Secret: secret}, nil
}

// VerifyTwoFactor flips the enabled flag once the user proves the
// authenticator was provisioned.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, userID, code string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "User not found", nil)
		}
		return s.storeError("2fa verify lookup", err)
	}
	if user.TwoFactorSecret == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Two-factor setup has not been started", nil)
	}

	ok, err := s.totp.Verify(user.TwoFactorSecret, code, s.now())
	if err != nil {
		return s.internalError("verify totp", err)
	}
	if !ok {
		return utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidCredentials, "Invalid verification code", nil)
	}

	if err := s.store.EnableTwoFactor(ctx, userID); err != nil {
		return s.storeError("enable two-factor", err)
	}
	return nil
}

func (s *AuthService) allow(ctx context.Context, clientIP, action string) error {
	err := s.limiter.Allow(ctx, clientIP, action)
	if err == nil {
		return nil
	}
	if errors.Is(err, ratelimit.ErrRateLimited) {
		return utils.NewAppError(http.StatusTooManyRequests, utils.CodeRateLimited,
			fmt.Sprintf("Too many %s attempts. Please try again later.", action), nil)
	}
	return s.internalError("rate limit check", err)
}

func (s *AuthService) storeError(op string, err error) error {
	if errors.Is(err, repo.ErrUnavailable) {
		s.logger.Error("store unavailable", "op", op, "error", err)
		return utils.NewAppError(http.StatusServiceUnavailable, utils.CodeStoreUnavailable,
			"Unable to connect to database. Please try again later.", nil)
	}
	return s.internalError(op, err)
}

func (s *AuthService) internalError(op string, err error) error {
	s.logger.Error("auth flow failed", "op", op, "error", err)
	return utils.NewAppError(http.StatusInternalServerError, utils.CodeInternal, "Internal server error", nil)
}

func invalidCredentials() error {
	return utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidCredentials, "Invalid credentials", nil)
}

func invalidToken() error {
	return utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidToken, "Invalid or expired token", nil)
}
