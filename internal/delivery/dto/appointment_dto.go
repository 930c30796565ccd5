package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientName     string          `json:"patient_name" validate:"required,max=255"`
	PatientID       string          `json:"patient_id" validate:"omitempty,max=64"`
	AppointmentDate string          `json:"appointment_date" validate:"required,datetime=2006-01-02,notpast"`
	AppointmentTime string          `json:"appointment_time" validate:"required,hhmm"`
	DoctorName      string          `json:"doctor_name" validate:"required,max=255"`
	Department      string          `json:"department" validate:"required"`
	AppointmentType string          `json:"appointment_type" validate:"required"`
	AppointmentMode string          `json:"appointment_mode" validate:"required"`
	Symptoms        string          `json:"symptoms" validate:"omitempty,max=2000"`
	Notes           string          `json:"notes" validate:"omitempty,max=2000"`
	Fee             decimal.Decimal `json:"fee"`
}

type UpdateAppointmentRequest struct {
	PatientName     string          `json:"patient_name" validate:"required,max=255"`
	AppointmentDate string          `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime string          `json:"appointment_time" validate:"required,hhmm"`
	DoctorName      string          `json:"doctor_name" validate:"required,max=255"`
	Department      string          `json:"department" validate:"required"`
	AppointmentType string          `json:"appointment_type" validate:"required"`
	AppointmentMode string          `json:"appointment_mode" validate:"required"`
	Symptoms        string          `json:"symptoms" validate:"omitempty,max=2000"`
	Notes           string          `json:"notes" validate:"omitempty,max=2000"`
	Fee             decimal.Decimal `json:"fee"`
	PaymentStatus   string          `json:"payment_status" validate:"omitempty,oneof=Unpaid Paid Waived"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id,omitempty"`
	PatientID       string          `json:"patient_id,omitempty"`
	PatientName     string          `json:"patient_name"`
	AppointmentDate string          `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	DoctorName      string          `json:"doctor_name"`
	Department      string          `json:"department"`
	AppointmentType string          `json:"appointment_type"`
	AppointmentMode string          `json:"appointment_mode"`
	Symptoms        string          `json:"symptoms,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	Fee             decimal.Decimal `json:"fee"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentOptionsResponse lists the fixed choices offered by the
// booking and profile forms.
type AppointmentOptionsResponse struct {
	Departments      []string `json:"departments"`
	AppointmentTypes []string `json:"appointment_types"`
	AppointmentModes []string `json:"appointment_modes"`
	TimeSlots        []string `json:"time_slots"`
	Genders          []string `json:"genders"`
	BloodGroups      []string `json:"blood_groups"`
}
