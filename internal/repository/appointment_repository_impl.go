package repository

import (
	"context"
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindAll(ctx context.Context) ([]entity.Appointment, error) {
	appointments := []entity.Appointment{}
	err := r.db.WithContext(ctx).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Appointment, error) {
	appointments := []entity.Appointment{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isInvalidInputError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// Update writes the editable columns. Status and created_at are left alone.
func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(map[string]interface{}{
			"patient_name":     appointment.PatientName,
			"appointment_date": appointment.AppointmentDate,
			"appointment_time": appointment.AppointmentTime,
			"doctor_name":      appointment.DoctorName,
			"department":       appointment.Department,
			"appointment_type": appointment.AppointmentType,
			"appointment_mode": appointment.AppointmentMode,
			"symptoms":         appointment.Symptoms,
			"notes":            appointment.Notes,
			"fee":              appointment.Fee,
			"payment_status":   appointment.PaymentStatus,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
