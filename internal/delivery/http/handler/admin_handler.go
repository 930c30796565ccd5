package handler

import (
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	userUsecase      usecase.UserUsecase
	validator        *validator.CustomValidator
}

func NewAdminHandler(dashboardUsecase usecase.DashboardUsecase, userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		dashboardUsecase: dashboardUsecase,
		userUsecase:      userUsecase,
		validator:        validator,
	}
}

func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	stats, err := h.dashboardUsecase.GetStats(r.Context(), session)
	if err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to load dashboard")
		}
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", stats)
}

func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	var req dto.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.AssignRole(r.Context(), session, mux.Vars(r)["id"], &req)
	if err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		case usecase.ErrInvalidRole, usecase.ErrOwnRoleChange:
			response.BadRequest(w, err.Error())
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to assign role")
		}
		return
	}

	response.Success(w, http.StatusOK, "Role updated successfully", user)
}
