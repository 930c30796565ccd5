package usecase

import (
	"context"
	"errors"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidGender     = errors.New("unknown gender")
	ErrInvalidBloodGroup = errors.New("unknown blood group")
)

type PatientUsecase interface {
	GetProfile(ctx context.Context, session *entity.Session) (*dto.PatientProfileResponse, error)
	SaveProfile(ctx context.Context, session *entity.Session, req *dto.SavePatientProfileRequest) (*dto.PatientProfileResponse, error)
}

type patientUsecase struct {
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(log *logrus.Logger, patientRepo repository.PatientRepository, auditService service.AuditService) PatientUsecase {
	return &patientUsecase{
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

// GetProfile returns an empty template when the user never saved a profile.
func (u *patientUsecase) GetProfile(ctx context.Context, session *entity.Session) (*dto.PatientProfileResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	patient, err := u.patientRepo.FindByUserID(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile for user %s: %+v", session.UserID, err)
		return nil, err
	}
	if patient == nil {
		return &dto.PatientProfileResponse{UserID: session.UserID}, nil
	}

	return converter.PatientToResponse(patient), nil
}

// SaveProfile creates the profile on first save and replaces it afterwards.
func (u *patientUsecase) SaveProfile(ctx context.Context, session *entity.Session, req *dto.SavePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	if req.Gender != "" && !entity.IsValidGender(req.Gender) {
		return nil, ErrInvalidGender
	}
	if req.BloodGroup != "" && !entity.IsValidBloodGroup(req.BloodGroup) {
		return nil, ErrInvalidBloodGroup
	}

	patient, err := u.patientRepo.FindByUserID(ctx, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile for user %s: %+v", session.UserID, err)
		return nil, err
	}

	if patient == nil {
		patient = &entity.Patient{UserID: session.UserID}
		converter.ApplyProfileRequest(patient, req)
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return nil, err
		}
		u.auditService.LogCreate(ctx, session.UserID, entity.AuditActionProfileUpdate, "patient", session.UserID, nil)
		return converter.PatientToResponse(patient), nil
	}

	converter.ApplyProfileRequest(patient, req)
	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}
	u.auditService.LogUpdate(ctx, session.UserID, entity.AuditActionProfileUpdate, "patient", session.UserID, nil, nil)

	return converter.PatientToResponse(patient), nil
}
