package service

import (
	"context"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// AuditService writes the audit trail. Failures are logged and returned;
// callers treat the trail as best effort since writes are not transactional.
type AuditService interface {
	LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) record(ctx context.Context, userID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}

func (s *auditService) LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.record(ctx, userID, action, entityName, entityID, oldValue, nil)
}
