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

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// writeAppointmentError maps usecase errors to responses. It reports
// whether err was handled, so callers can fall back to their own message.
func writeAppointmentError(w http.ResponseWriter, err error) bool {
	switch err {
	case usecase.ErrSessionRequired:
		response.Unauthorized(w, "Authentication required")
	case usecase.ErrForbidden:
		response.Forbidden(w, "You don't have permission to perform this action")
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrNotOwner:
		response.Forbidden(w, "You can only manage your own appointments")
	case usecase.ErrAppointmentPast,
		usecase.ErrInvalidDate,
		usecase.ErrInvalidTimeSlot,
		usecase.ErrInvalidDepartment,
		usecase.ErrInvalidAppointmentType,
		usecase.ErrInvalidAppointmentMode,
		usecase.ErrNegativeFee:
		response.BadRequest(w, err.Error())
	case usecase.ErrAppointmentAlreadyCancelled, usecase.ErrAppointmentClosed:
		response.Conflict(w, err.Error())
	default:
		return false
	}
	return true
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	appointments, err := h.appointmentUsecase.List(r.Context(), session)
	if err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	appointment, err := h.appointmentUsecase.Get(r.Context(), session, mux.Vars(r)["id"])
	if err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), session, &req)
	if err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), session, mux.Vars(r)["id"], &req)
	if err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if err := h.appointmentUsecase.Cancel(r.Context(), session, mux.Vars(r)["id"]); err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if err := h.appointmentUsecase.Complete(r.Context(), session, mux.Vars(r)["id"]); err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as completed", nil)
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if err := h.appointmentUsecase.MarkNoShow(r.Context(), session, mux.Vars(r)["id"]); err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as no-show", nil)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if err := h.appointmentUsecase.Delete(r.Context(), session, mux.Vars(r)["id"]); err != nil {
		if !writeAppointmentError(w, err) {
			response.InternalServerError(w, "Failed to delete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) Options(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Appointment options retrieved successfully", h.appointmentUsecase.Options())
}
