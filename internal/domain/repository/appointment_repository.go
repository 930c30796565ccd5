package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
)

// AppointmentRepository is the single data access contract for bookings.
// List methods skip rows that cannot be decoded and return the rest.
// Update methods return the number of affected rows.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindAll(ctx context.Context) ([]entity.Appointment, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Appointment, error)
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) (int64, error)
	UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}
