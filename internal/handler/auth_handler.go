package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/middleware"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
	"github.com/directed/course-backend/internal/validator"
)

// AuthHandler handles account and password reset endpoints.
type AuthHandler struct {
	authService     *service.AuthService
	accountService  *service.AccountService
	passwordService *service.PasswordResetService
	log             zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	accountService *service.AccountService,
	passwordService *service.PasswordResetService,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		accountService:  accountService,
		passwordService: passwordService,
		log:             log.With().Str("component", "auth_handler").Logger(),
	}
}

// Signup godoc
// POST /api/v1/auth/signup
// Registers an account and returns it with an access token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.accountService.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		h.log.Error().Err(err).Msg("Signup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accountService.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Msg("Token revocation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Message(c, http.StatusOK, "Logged out")
}

// ChangePassword godoc
// PUT /api/v1/auth/reset-password
// Changes the password of the authenticated account.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.accountService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOldPassword):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidOldPassword)
		case errors.Is(err, service.ErrAccountNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		default:
			h.log.Error().Err(err).Msg("Change password failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Message(c, http.StatusOK, "Password updated successfully")
}

// ForgotPassword godoc
// POST /api/v1/auth/forgot-password
// Emails a 6-digit reset code to the account owner.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.passwordService.RequestReset(c.Request.Context(), req.Email); err != nil {
		h.failReset(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP sent to your email")
}

// VerifyOTP godoc
// POST /api/v1/auth/verify-otp
// Checks a reset code without consuming it.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.passwordService.VerifyChallenge(c.Request.Context(), req.Email, req.OTP); err != nil {
		h.failChallenge(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP verified")
}

// ResetPasswordOTP godoc
// POST /api/v1/auth/reset-password-otp
// Consumes a reset code and sets a new password.
func (h *AuthHandler) ResetPasswordOTP(c *gin.Context) {
	var req model.ResetPasswordOTPRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.passwordService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.failChallenge(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password reset successfully")
}

// failChallenge reports an unknown account as a wrong code, so the OTP
// routes only ever answer 200 or 400.
func (h *AuthHandler) failChallenge(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAccountNotFound) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOTP)
		return
	}
	h.failReset(c, err)
}

func (h *AuthHandler) failReset(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
	case errors.Is(err, service.ErrInvalidChallenge):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOTP)
	case errors.Is(err, service.ErrChallengeExpired):
		response.Fail(c, http.StatusBadRequest, response.ErrOTPExpired)
	case errors.Is(err, service.ErrOTPDeliveryFailed):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrOTPDeliveryFailed)
	default:
		h.log.Error().Err(err).Msg("Password reset failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
