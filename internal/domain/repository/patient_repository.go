package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByUserID(ctx context.Context, userID string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
}
