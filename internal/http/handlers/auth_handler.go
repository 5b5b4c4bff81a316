package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/http/middleware"
	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/services"
	"github.com/nirgunrohan/LMS/internal/utils"
)

const refreshCookieName = "refreshToken"

// CookieConfig controls the refresh-token cookie. Secure is off in dev
// so the cookie survives plain-http localhost.
type CookieConfig struct {
	Secure bool
	MaxAge int
}

type AuthHandler struct {
	auth   *services.AuthService
	cookie CookieConfig
}

func NewAuthHandler(auth *services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	userID, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, c.ClientIP())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"message": "User registered successfully",
		"userId":  userID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	res, err := h.auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
	}, c.ClientIP())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setRefreshCookie(c, res.RefreshToken)
	utils.RespondOK(c, gin.H{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		utils.RespondError(c, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidToken, "Missing refresh token", nil))
		return
	}

	res, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setRefreshCookie(c, res.RefreshToken)
	utils.RespondOK(c, gin.H{
		"success":     true,
		"accessToken": res.AccessToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshCookieName); err == nil && refreshToken != "" {
		if err := h.auth.Logout(c.Request.Context(), refreshToken); err != nil {
			utils.RespondError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	utils.RespondOK(c, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResetRequest(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"message": services.ResetGenericMessage,
	})
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Token and new password are required", nil))
		return
	}

	if err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

type twoFactorSetupRequest struct {
	UserID string `json:"userId"`
}

// TwoFactorSetup lets a user start enrollment for their own account;
// admins may start it for anyone.
func (h *AuthHandler) TwoFactorSetup(c *gin.Context) {
	var req twoFactorSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if req.UserID == "" {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "userId is required", nil))
		return
	}
	if req.UserID != middleware.CallerID(c) && middleware.CallerRole(c) != models.RoleAdmin {
		utils.RespondError(c, utils.NewAppError(http.StatusForbidden, utils.CodeAdminRequired, "Cannot manage two-factor for another user", nil))
		return
	}

	setup, err := h.auth.SetupTwoFactor(c.Request.Context(), req.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"qrCode":  setup.QRCode,
		"secret":  setup.Secret,
	})
}

type twoFactorVerifyRequest struct {
	Code string `json:"code"`
}

func (h *AuthHandler) TwoFactorVerify(c *gin.Context) {
	var req twoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if req.Code == "" {
		utils.RespondError(c, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Code is required", nil))
		return
	}

	if err := h.auth.VerifyTwoFactor(c.Request.Context(), middleware.CallerID(c), req.Code); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"success": true,
		"message": "Two-factor authentication enabled",
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.cookie.Secure, true)
}
