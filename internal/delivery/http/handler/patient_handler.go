package handler

import (
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/goccy/go-json"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	profile, err := h.patientUsecase.GetProfile(r.Context(), session)
	if err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Authentication required")
		default:
			response.InternalServerError(w, "Failed to get profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *PatientHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	var req dto.SavePatientProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.patientUsecase.SaveProfile(r.Context(), session, &req)
	if err != nil {
		switch err {
		case usecase.ErrSessionRequired:
			response.Unauthorized(w, "Authentication required")
		case usecase.ErrInvalidGender, usecase.ErrInvalidBloodGroup:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to save profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile saved successfully", profile)
}
