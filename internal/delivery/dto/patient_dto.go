package dto

import "time"

type SavePatientProfileRequest struct {
	FullName           string `json:"full_name" validate:"required,max=255"`
	DateOfBirth        string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender             string `json:"gender" validate:"omitempty"`
	BloodGroup         string `json:"blood_group" validate:"omitempty"`
	Email              string `json:"email" validate:"omitempty,email"`
	PhoneNumber        string `json:"phone_number" validate:"omitempty,max=32"`
	Address            string `json:"address" validate:"omitempty,max=1000"`
	EmergencyContact   string `json:"emergency_contact" validate:"omitempty,max=255"`
	Height             string `json:"height" validate:"omitempty,numeric"`
	Weight             string `json:"weight" validate:"omitempty,numeric"`
	Allergies          string `json:"allergies" validate:"omitempty,max=2000"`
	CurrentMedications string `json:"current_medications" validate:"omitempty,max=2000"`
	MedicalHistory     string `json:"medical_history" validate:"omitempty,max=4000"`
	InsuranceProvider  string `json:"insurance_provider" validate:"omitempty,max=255"`
	PolicyNumber       string `json:"policy_number" validate:"omitempty,max=100"`
}

// PatientProfileResponse is also returned, empty, when no profile has been
// saved yet.
type PatientProfileResponse struct {
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	DateOfBirth        string    `json:"date_of_birth"`
	Gender             string    `json:"gender"`
	BloodGroup         string    `json:"blood_group"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	Address            string    `json:"address"`
	EmergencyContact   string    `json:"emergency_contact"`
	Height             string    `json:"height"`
	Weight             string    `json:"weight"`
	Allergies          string    `json:"allergies"`
	CurrentMedications string    `json:"current_medications"`
	MedicalHistory     string    `json:"medical_history"`
	InsuranceProvider  string    `json:"insurance_provider"`
	PolicyNumber       string    `json:"policy_number"`
	Exists             bool      `json:"exists"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}
