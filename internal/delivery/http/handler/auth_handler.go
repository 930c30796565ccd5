package handler

import (
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register validates the sign-up form and sends a verification code.
// The account is stored only after POST /auth/verify.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pending, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUsernameTaken:
			response.Conflict(w, "Username already exists")
		case usecase.ErrEmailTaken:
			response.Conflict(w, "Email already registered")
		case usecase.ErrVerificationDelivery:
			response.BadGateway(w, "Failed to send verification code")
		default:
			response.InternalServerError(w, "Failed to register user")
		}
		return
	}

	response.Success(w, http.StatusAccepted, "Verification code sent to "+pending.Email, pending)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.authUsecase.VerifyEmail(r.Context(), &req)
	if err != nil {
		switch err {
		case service.ErrOTPNotFound:
			response.NotFound(w, "No pending registration for this email")
		case service.ErrOTPExpired:
			response.Error(w, http.StatusGone, "Verification code has expired, request a new one", nil)
		case service.ErrOTPInvalid:
			response.BadRequest(w, "Invalid verification code")
		case usecase.ErrUsernameTaken:
			response.Conflict(w, "Username already exists")
		case usecase.ErrEmailTaken:
			response.Conflict(w, "Email already registered")
		default:
			response.InternalServerError(w, "Failed to verify email")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Email verified, registration complete", user)
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pending, err := h.authUsecase.ResendOTP(r.Context(), &req)
	if err != nil {
		switch err {
		case service.ErrOTPNotFound:
			response.NotFound(w, "No pending registration for this email")
		case usecase.ErrVerificationDelivery:
			response.BadGateway(w, "Failed to send verification code")
		default:
			response.InternalServerError(w, "Failed to resend verification code")
		}
		return
	}

	response.Success(w, http.StatusOK, "Verification code resent", pending)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid username or password")
		case usecase.ErrEmailNotVerified:
			response.Forbidden(w, "Please verify your email before logging in")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if err := h.authUsecase.Logout(r.Context(), session); err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Invalid token")
		default:
			response.InternalServerError(w, "Failed to logout")
		}
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	user, err := h.authUsecase.GetCurrentUser(r.Context(), session)
	if err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Invalid token")
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to get user")
		}
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
