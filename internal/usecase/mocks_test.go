package usecase

import (
	"context"
	"io"
	"strconv"
	"sync"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ---------------------------------------------------------------------------
// Appointment repository mock
// ---------------------------------------------------------------------------

type mockAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*entity.Appointment
	nextID       int
	calls        map[string]int
}

func newMockAppointmentRepo(appointments ...entity.Appointment) *mockAppointmentRepo {
	r := &mockAppointmentRepo{
		appointments: make(map[string]*entity.Appointment),
		calls:        make(map[string]int),
	}
	for i := range appointments {
		a := appointments[i]
		r.appointments[a.ID] = &a
	}
	return r
}

func (r *mockAppointmentRepo) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *mockAppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.nextID++
	a.ID = "appt-" + strconv.Itoa(r.nextID)
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *mockAppointmentRepo) FindAll(_ context.Context) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindAll"]++
	out := []entity.Appointment{}
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out, nil
}

func (r *mockAppointmentRepo) FindByUserID(_ context.Context, userID string) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindByUserID"]++
	out := []entity.Appointment{}
	for _, a := range r.appointments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *mockAppointmentRepo) FindByID(_ context.Context, id string) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindByID"]++
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *mockAppointmentRepo) Update(_ context.Context, a *entity.Appointment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if _, ok := r.appointments[a.ID]; !ok {
		return 0, nil
	}
	cp := *a
	r.appointments[a.ID] = &cp
	return 1, nil
}

func (r *mockAppointmentRepo) UpdateStatus(_ context.Context, id string, status entity.AppointmentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["UpdateStatus"]++
	a, ok := r.appointments[id]
	if !ok {
		return 0, nil
	}
	a.Status = status
	return 1, nil
}

func (r *mockAppointmentRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	if _, ok := r.appointments[id]; !ok {
		return 0, nil
	}
	delete(r.appointments, id)
	return 1, nil
}

// ---------------------------------------------------------------------------
// User repository mock
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*entity.User)}
}

func (r *mockUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *mockUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *mockUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *mockUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *mockUserRepo) UpdateRole(_ context.Context, id string, role entity.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}

// ---------------------------------------------------------------------------
// Patient repository mock
// ---------------------------------------------------------------------------

type mockPatientRepo struct {
	patients map[string]*entity.Patient
	creates  int
	updates  int
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[string]*entity.Patient)}
}

func (r *mockPatientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.creates++
	if _, ok := r.patients[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	p.ID = "patient-" + p.UserID
	cp := *p
	r.patients[p.UserID] = &cp
	return nil
}

func (r *mockPatientRepo) FindByUserID(_ context.Context, userID string) (*entity.Patient, error) {
	p, ok := r.patients[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *mockPatientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.updates++
	cp := *p
	r.patients[p.UserID] = &cp
	return nil
}

// ---------------------------------------------------------------------------
// Services
// ---------------------------------------------------------------------------

type nopAuditService struct {
	actions []string
}

func (s *nopAuditService) LogCreate(_ context.Context, _ string, action string, _ string, _ string, _ interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *nopAuditService) LogUpdate(_ context.Context, _ string, action string, _ string, _ string, _, _ interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *nopAuditService) LogDelete(_ context.Context, _ string, action string, _ string, _ string, _ interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

type capturingMailer struct {
	codes map[string]string
	err   error
}

func newCapturingMailer() *capturingMailer {
	return &capturingMailer{codes: make(map[string]string)}
}

func (m *capturingMailer) SendVerificationCode(_ context.Context, to, _ string, code string) error {
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func patientSession(userID string) *entity.Session {
	return &entity.Session{UserID: userID, Username: userID, Role: entity.RolePatient, TokenID: "t-" + userID}
}

func adminSession() *entity.Session {
	return &entity.Session{UserID: "admin-1", Username: "admin", Role: entity.RoleAdmin, TokenID: "t-admin"}
}

func doctorSession() *entity.Session {
	return &entity.Session{UserID: "doctor-1", Username: "doc", Role: entity.RoleDoctor, TokenID: "t-doctor"}
}
