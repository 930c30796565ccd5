package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrNotOwner                    = errors.New("appointment does not belong to you")
	ErrAppointmentPast             = errors.New("appointment date cannot be in the past")
	ErrInvalidDate                 = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeSlot             = errors.New("appointment time must be a half-hour slot between 08:00 and 16:30")
	ErrInvalidDepartment           = errors.New("unknown department")
	ErrInvalidAppointmentType      = errors.New("unknown appointment type")
	ErrInvalidAppointmentMode      = errors.New("unknown appointment mode")
	ErrNegativeFee                 = errors.New("fee cannot be negative")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrAppointmentClosed           = errors.New("appointment can no longer be changed")
)

const dateLayout = "2006-01-02"

type AppointmentUsecase interface {
	List(ctx context.Context, session *entity.Session) (*dto.AppointmentListResponse, error)
	Get(ctx context.Context, session *entity.Session, id string) (*dto.AppointmentResponse, error)
	Book(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, session *entity.Session, id string, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, session *entity.Session, id string) error
	Complete(ctx context.Context, session *entity.Session, id string) error
	MarkNoShow(ctx context.Context, session *entity.Session, id string) error
	Delete(ctx context.Context, session *entity.Session, id string) error
	Options() *dto.AppointmentOptionsResponse
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

// List returns every appointment to staff and only their own to patients.
func (u *appointmentUsecase) List(ctx context.Context, session *entity.Session) (*dto.AppointmentListResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	var (
		appointments []entity.Appointment
		err          error
	)
	if session.IsStaff() {
		appointments, err = u.appointmentRepo.FindAll(ctx)
	} else {
		appointments, err = u.appointmentRepo.FindByUserID(ctx, session.UserID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments for user %s: %+v", session.UserID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) Get(ctx context.Context, session *entity.Session, id string) (*dto.AppointmentResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsStaff() && !appointment.IsOwnedBy(session.UserID) {
		return nil, ErrNotOwner
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Book validates the request against the clinic calendar before anything is
// sent to the repository.
func (u *appointmentUsecase) Book(ctx context.Context, session *entity.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	appointment := converter.CreateRequestToAppointment(req, session.UserID)
	if err := u.validate(appointment, true); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, date=%s, time=%s", appointment.ID, appointment.AppointmentDate, appointment.AppointmentTime)
	u.auditService.LogCreate(ctx, session.UserID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID, converter.AppointmentToResponse(appointment))

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Update(ctx context.Context, session *entity.Session, id string, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	appointment, err := u.findModifiable(ctx, session, id)
	if err != nil {
		return nil, err
	}
	before := converter.AppointmentToResponse(appointment)

	previousDate := appointment.AppointmentDate
	converter.ApplyUpdateRequest(appointment, req)
	if err := u.validate(appointment, appointment.AppointmentDate != previousDate); err != nil {
		return nil, err
	}

	affected, err := u.appointmentRepo.Update(ctx, appointment)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	after := converter.AppointmentToResponse(appointment)
	u.auditService.LogUpdate(ctx, session.UserID, entity.AuditActionAppointmentUpdate, "appointment", id, before, after)

	return after, nil
}

// Cancel is allowed for the owner and for admins.
func (u *appointmentUsecase) Cancel(ctx context.Context, session *entity.Session, id string) error {
	if session == nil {
		return ErrSessionRequired
	}

	appointment, err := u.findModifiable(ctx, session, id)
	if err != nil {
		return err
	}

	return u.setStatus(ctx, session, appointment, entity.AppointmentStatusCancelled)
}

func (u *appointmentUsecase) Complete(ctx context.Context, session *entity.Session, id string) error {
	return u.staffTransition(ctx, session, id, entity.AppointmentStatusCompleted)
}

func (u *appointmentUsecase) MarkNoShow(ctx context.Context, session *entity.Session, id string) error {
	return u.staffTransition(ctx, session, id, entity.AppointmentStatusNoShow)
}

// Delete is admin only. The guard runs before any repository call.
func (u *appointmentUsecase) Delete(ctx context.Context, session *entity.Session, id string) error {
	if session == nil {
		return ErrSessionRequired
	}
	if !session.IsAdmin() {
		return ErrForbidden
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	affected, err := u.appointmentRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	u.log.Infof("Appointment deleted: id=%s", id)
	u.auditService.LogDelete(ctx, session.UserID, entity.AuditActionAppointmentDelete, "appointment", id, converter.AppointmentToResponse(appointment))
	return nil
}

func (u *appointmentUsecase) Options() *dto.AppointmentOptionsResponse {
	return &dto.AppointmentOptionsResponse{
		Departments:      entity.Departments,
		AppointmentTypes: entity.AppointmentTypes,
		AppointmentModes: entity.AppointmentModes,
		TimeSlots:        entity.TimeSlots(),
		Genders:          entity.Genders,
		BloodGroups:      entity.BloodGroups,
	}
}

func (u *appointmentUsecase) find(ctx context.Context, id string) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// findModifiable loads an appointment the session may edit or cancel:
// the owner's own, or any for an admin, and never a closed one.
func (u *appointmentUsecase) findModifiable(ctx context.Context, session *entity.Session, id string) (*entity.Appointment, error) {
	appointment, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() && !appointment.IsOwnedBy(session.UserID) {
		return nil, ErrNotOwner
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentAlreadyCancelled
	}
	if !appointment.IsModifiable() {
		return nil, ErrAppointmentClosed
	}
	return appointment, nil
}

func (u *appointmentUsecase) staffTransition(ctx context.Context, session *entity.Session, id string, status entity.AppointmentStatus) error {
	if session == nil {
		return ErrSessionRequired
	}
	if !session.IsStaff() {
		return ErrForbidden
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return err
	}
	if appointment.IsCancelled() {
		return ErrAppointmentAlreadyCancelled
	}
	if !appointment.IsModifiable() {
		return ErrAppointmentClosed
	}

	return u.setStatus(ctx, session, appointment, status)
}

func (u *appointmentUsecase) setStatus(ctx context.Context, session *entity.Session, appointment *entity.Appointment, status entity.AppointmentStatus) error {
	affected, err := u.appointmentRepo.UpdateStatus(ctx, appointment.ID, status)
	if err != nil {
		u.log.Warnf("Failed to set status of appointment %s to %s: %+v", appointment.ID, status, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	u.log.Infof("Appointment status changed: id=%s, %s -> %s", appointment.ID, appointment.Status, status)
	u.auditService.LogUpdate(ctx, session.UserID, entity.AuditActionAppointmentStatus, "appointment", appointment.ID,
		map[string]string{"status": string(appointment.Status)},
		map[string]string{"status": string(status)})
	return nil
}

// validate checks the fields the clinic calendar constrains. checkPast is
// false when an edit keeps the original date, so old bookings stay editable.
func (u *appointmentUsecase) validate(appointment *entity.Appointment, checkPast bool) error {
	date, err := time.ParseInLocation(dateLayout, appointment.AppointmentDate, time.Local)
	if err != nil {
		return ErrInvalidDate
	}
	if checkPast {
		now := u.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		if date.Before(today) {
			return ErrAppointmentPast
		}
	}
	if !entity.IsValidTimeSlot(appointment.AppointmentTime) {
		return ErrInvalidTimeSlot
	}
	if !entity.IsValidDepartment(appointment.Department) {
		return ErrInvalidDepartment
	}
	if !entity.IsValidAppointmentType(appointment.AppointmentType) {
		return ErrInvalidAppointmentType
	}
	if !entity.IsValidAppointmentMode(appointment.AppointmentMode) {
		return ErrInvalidAppointmentMode
	}
	if appointment.Fee.IsNegative() {
		return ErrNegativeFee
	}
	return nil
}
