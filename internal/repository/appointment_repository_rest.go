package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/postgrest"
	"clinic-booking/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const appointmentsTable = "appointments"

// appointmentPayload is the writable column set; id and created_at are
// generated by the backend.
type appointmentPayload struct {
	UserID          string                   `json:"user_id,omitempty"`
	PatientID       string                   `json:"patient_id,omitempty"`
	PatientName     string                   `json:"patient_name"`
	AppointmentDate string                   `json:"appointment_date"`
	AppointmentTime string                   `json:"appointment_time"`
	DoctorName      string                   `json:"doctor_name"`
	Department      string                   `json:"department"`
	AppointmentType string                   `json:"appointment_type"`
	AppointmentMode string                   `json:"appointment_mode"`
	Symptoms        string                   `json:"symptoms"`
	Notes           string                   `json:"notes"`
	Status          entity.AppointmentStatus `json:"status,omitempty"`
	Fee             decimal.Decimal          `json:"fee"`
	PaymentStatus   entity.PaymentStatus     `json:"payment_status,omitempty"`
}

func newAppointmentPayload(a *entity.Appointment) appointmentPayload {
	return appointmentPayload{
		UserID:          a.UserID,
		PatientID:       a.PatientID,
		PatientName:     a.PatientName,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		DoctorName:      a.DoctorName,
		Department:      a.Department,
		AppointmentType: a.AppointmentType,
		AppointmentMode: a.AppointmentMode,
		Symptoms:        a.Symptoms,
		Notes:           a.Notes,
		Status:          a.Status,
		Fee:             a.Fee,
		PaymentStatus:   a.PaymentStatus,
	}
}

type appointmentRESTRepository struct {
	client    *postgrest.Client
	log       *logrus.Logger
	validator *validator.CustomValidator
}

func NewAppointmentRESTRepository(client *postgrest.Client, log *logrus.Logger, validator *validator.CustomValidator) domainRepo.AppointmentRepository {
	return &appointmentRESTRepository{
		client:    client,
		log:       log,
		validator: validator,
	}
}

// Create inserts the appointment and copies the stored row back, so the
// caller sees the generated id and created_at. A 2xx response without a
// body still counts as success.
func (r *appointmentRESTRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	raw, err := r.client.Insert(ctx, appointmentsTable, newAppointmentPayload(appointment))
	if err != nil {
		return err
	}
	if stored := firstRow[entity.Appointment](r.log, r.validator, appointmentsTable, raw); stored != nil {
		*appointment = *stored
	}
	return nil
}

func (r *appointmentRESTRepository) FindAll(ctx context.Context) ([]entity.Appointment, error) {
	q := postgrest.NewQuery().Select("*").Order("appointment_date", true)
	raw, err := r.client.Get(ctx, appointmentsTable, q)
	if err != nil {
		return nil, err
	}
	return decodeRows[entity.Appointment](r.log, r.validator, appointmentsTable, raw), nil
}

func (r *appointmentRESTRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Appointment, error) {
	q := postgrest.NewQuery().Select("*").Eq("user_id", userID).Order("appointment_date", true)
	raw, err := r.client.Get(ctx, appointmentsTable, q)
	if err != nil {
		return nil, err
	}
	return decodeRows[entity.Appointment](r.log, r.validator, appointmentsTable, raw), nil
}

func (r *appointmentRESTRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	q := postgrest.NewQuery().Select("*").Eq("id", id).Limit(1)
	raw, err := r.client.Get(ctx, appointmentsTable, q)
	if err != nil {
		// An id that is not a valid key cannot match any row.
		if postgrest.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, err
	}
	return firstRow[entity.Appointment](r.log, r.validator, appointmentsTable, raw), nil
}

func (r *appointmentRESTRepository) Update(ctx context.Context, appointment *entity.Appointment) (int64, error) {
	q := postgrest.NewQuery().Eq("id", appointment.ID)
	raw, err := r.client.Update(ctx, appointmentsTable, q, newAppointmentPayload(appointment))
	if err != nil {
		return 0, err
	}
	return int64(len(raw)), nil
}

func (r *appointmentRESTRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error) {
	q := postgrest.NewQuery().Eq("id", id)
	raw, err := r.client.Update(ctx, appointmentsTable, q, map[string]entity.AppointmentStatus{"status": status})
	if err != nil {
		return 0, err
	}
	return int64(len(raw)), nil
}

func (r *appointmentRESTRepository) Delete(ctx context.Context, id string) (int64, error) {
	raw, err := r.client.Delete(ctx, appointmentsTable, postgrest.NewQuery().Eq("id", id))
	if err != nil {
		return 0, err
	}
	return int64(len(raw)), nil
}
