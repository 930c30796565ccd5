package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/postgrest"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

const patientsTable = "patients"

type patientPayload struct {
	UserID             string `json:"user_id"`
	FullName           string `json:"full_name"`
	DateOfBirth        string `json:"date_of_birth"`
	Gender             string `json:"gender"`
	BloodGroup         string `json:"blood_group"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phone_number"`
	Address            string `json:"address"`
	EmergencyContact   string `json:"emergency_contact"`
	Height             string `json:"height"`
	Weight             string `json:"weight"`
	Allergies          string `json:"allergies"`
	CurrentMedications string `json:"current_medications"`
	MedicalHistory     string `json:"medical_history"`
	InsuranceProvider  string `json:"insurance_provider"`
	PolicyNumber       string `json:"policy_number"`
}

func newPatientPayload(p *entity.Patient) patientPayload {
	return patientPayload{
		UserID:             p.UserID,
		FullName:           p.FullName,
		DateOfBirth:        p.DateOfBirth,
		Gender:             p.Gender,
		BloodGroup:         p.BloodGroup,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		Address:            p.Address,
		EmergencyContact:   p.EmergencyContact,
		Height:             p.Height,
		Weight:             p.Weight,
		Allergies:          p.Allergies,
		CurrentMedications: p.CurrentMedications,
		MedicalHistory:     p.MedicalHistory,
		InsuranceProvider:  p.InsuranceProvider,
		PolicyNumber:       p.PolicyNumber,
	}
}

type patientRESTRepository struct {
	client    *postgrest.Client
	log       *logrus.Logger
	validator *validator.CustomValidator
}

func NewPatientRESTRepository(client *postgrest.Client, log *logrus.Logger, validator *validator.CustomValidator) domainRepo.PatientRepository {
	return &patientRESTRepository{
		client:    client,
		log:       log,
		validator: validator,
	}
}

func (r *patientRESTRepository) Create(ctx context.Context, patient *entity.Patient) error {
	raw, err := r.client.Insert(ctx, patientsTable, newPatientPayload(patient))
	if err != nil {
		if postgrest.IsUniqueViolation(err) {
			return domainRepo.ErrDuplicate
		}
		return err
	}
	if stored := firstRow[entity.Patient](r.log, r.validator, patientsTable, raw); stored != nil {
		*patient = *stored
	}
	return nil
}

func (r *patientRESTRepository) FindByUserID(ctx context.Context, userID string) (*entity.Patient, error) {
	q := postgrest.NewQuery().Select("*").Eq("user_id", userID).Limit(1)
	raw, err := r.client.Get(ctx, patientsTable, q)
	if err != nil {
		return nil, err
	}
	return firstRow[entity.Patient](r.log, r.validator, patientsTable, raw), nil
}

// Update replaces every profile column of the row owned by patient.UserID.
func (r *patientRESTRepository) Update(ctx context.Context, patient *entity.Patient) error {
	q := postgrest.NewQuery().Eq("user_id", patient.UserID)
	raw, err := r.client.Update(ctx, patientsTable, q, newPatientPayload(patient))
	if err != nil {
		return err
	}
	if stored := firstRow[entity.Patient](r.log, r.validator, patientsTable, raw); stored != nil {
		*patient = *stored
	}
	return nil
}
