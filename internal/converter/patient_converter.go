package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientProfileResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientProfileResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientProfileResponse{
		UserID:             patient.UserID,
		FullName:           patient.FullName,
		DateOfBirth:        patient.DateOfBirth,
		Gender:             patient.Gender,
		BloodGroup:         patient.BloodGroup,
		Email:              patient.Email,
		PhoneNumber:        patient.PhoneNumber,
		Address:            patient.Address,
		EmergencyContact:   patient.EmergencyContact,
		Height:             patient.Height,
		Weight:             patient.Weight,
		Allergies:          patient.Allergies,
		CurrentMedications: patient.CurrentMedications,
		MedicalHistory:     patient.MedicalHistory,
		InsuranceProvider:  patient.InsuranceProvider,
		PolicyNumber:       patient.PolicyNumber,
		Exists:             true,
		UpdatedAt:          patient.UpdatedAt,
	}
}

// ApplyProfileRequest replaces every profile field of patient with req.
func ApplyProfileRequest(patient *entity.Patient, req *dto.SavePatientProfileRequest) {
	patient.FullName = req.FullName
	patient.DateOfBirth = req.DateOfBirth
	patient.Gender = req.Gender
	patient.BloodGroup = req.BloodGroup
	patient.Email = req.Email
	patient.PhoneNumber = req.PhoneNumber
	patient.Address = req.Address
	patient.EmergencyContact = req.EmergencyContact
	patient.Height = req.Height
	patient.Weight = req.Weight
	patient.Allergies = req.Allergies
	patient.CurrentMedications = req.CurrentMedications
	patient.MedicalHistory = req.MedicalHistory
	patient.InsuranceProvider = req.InsuranceProvider
	patient.PolicyNumber = req.PolicyNumber
}
