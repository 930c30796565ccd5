package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/postgrest"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

const auditLogsTable = "audit_logs"

type auditLogPayload struct {
	UserID   string      `json:"user_id,omitempty"`
	Action   string      `json:"action"`
	Metadata entity.JSON `json:"metadata,omitempty"`
}

type auditLogRESTRepository struct {
	client    *postgrest.Client
	log       *logrus.Logger
	validator *validator.CustomValidator
}

func NewAuditLogRESTRepository(client *postgrest.Client, log *logrus.Logger, validator *validator.CustomValidator) domainRepo.AuditLogRepository {
	return &auditLogRESTRepository{
		client:    client,
		log:       log,
		validator: validator,
	}
}

func (r *auditLogRESTRepository) Create(ctx context.Context, auditLog *entity.AuditLog) error {
	raw, err := r.client.Insert(ctx, auditLogsTable, auditLogPayload{
		UserID:   auditLog.UserID,
		Action:   auditLog.Action,
		Metadata: auditLog.Metadata,
	})
	if err != nil {
		return err
	}
	if stored := firstRow[entity.AuditLog](r.log, r.validator, auditLogsTable, raw); stored != nil {
		*auditLog = *stored
	}
	return nil
}

func (r *auditLogRESTRepository) FindAll(ctx context.Context) ([]entity.AuditLog, error) {
	q := postgrest.NewQuery().Select("*").Order("created_at", false)
	raw, err := r.client.Get(ctx, auditLogsTable, q)
	if err != nil {
		return nil, err
	}
	return decodeRows[entity.AuditLog](r.log, r.validator, auditLogsTable, raw), nil
}
