package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		UserID:          appointment.UserID,
		PatientID:       appointment.PatientID,
		PatientName:     appointment.PatientName,
		AppointmentDate: appointment.AppointmentDate,
		AppointmentTime: appointment.AppointmentTime,
		DoctorName:      appointment.DoctorName,
		Department:      appointment.Department,
		AppointmentType: appointment.AppointmentType,
		AppointmentMode: appointment.AppointmentMode,
		Symptoms:        appointment.Symptoms,
		Notes:           appointment.Notes,
		Status:          string(appointment.Status),
		Fee:             appointment.Fee,
		PaymentStatus:   string(appointment.PaymentStatus),
		CreatedAt:       appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// CreateRequestToAppointment builds a fresh booking owned by userID.
func CreateRequestToAppointment(req *dto.CreateAppointmentRequest, userID string) *entity.Appointment {
	appointment := &entity.Appointment{
		UserID:          userID,
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		DoctorName:      req.DoctorName,
		Department:      req.Department,
		AppointmentType: req.AppointmentType,
		AppointmentMode: req.AppointmentMode,
		Symptoms:        req.Symptoms,
		Notes:           req.Notes,
		Fee:             req.Fee,
	}
	appointment.ApplyDefaults()
	return appointment
}

// ApplyUpdateRequest copies the editable fields of req onto appointment.
func ApplyUpdateRequest(appointment *entity.Appointment, req *dto.UpdateAppointmentRequest) {
	appointment.PatientName = req.PatientName
	appointment.AppointmentDate = req.AppointmentDate
	appointment.AppointmentTime = req.AppointmentTime
	appointment.DoctorName = req.DoctorName
	appointment.Department = req.Department
	appointment.AppointmentType = req.AppointmentType
	appointment.AppointmentMode = req.AppointmentMode
	appointment.Symptoms = req.Symptoms
	appointment.Notes = req.Notes
	appointment.Fee = req.Fee
	if req.PaymentStatus != "" {
		appointment.PaymentStatus = entity.PaymentStatus(req.PaymentStatus)
	}
}
