package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusNoShow    AppointmentStatus = "No-show"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusWaived PaymentStatus = "Waived"
)

// Appointment is a booking. Patient and user are referenced by plain id
// fields; no foreign keys are enforced.
type Appointment struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id" validate:"required"`
	UserID          string            `gorm:"type:varchar(64);index" json:"user_id"`
	PatientID       string            `gorm:"type:varchar(64)" json:"patient_id"`
	PatientName     string            `gorm:"type:varchar(255);not null;index" json:"patient_name" validate:"required"`
	AppointmentDate string            `gorm:"type:varchar(10);not null;index" json:"appointment_date" validate:"required"`
	AppointmentTime string            `gorm:"type:varchar(5)" json:"appointment_time"`
	DoctorName      string            `gorm:"type:varchar(255)" json:"doctor_name"`
	Department      string            `gorm:"type:varchar(100)" json:"department"`
	AppointmentType string            `gorm:"type:varchar(50)" json:"appointment_type"`
	AppointmentMode string            `gorm:"type:varchar(50)" json:"appointment_mode"`
	Symptoms        string            `gorm:"type:text" json:"symptoms"`
	Notes           string            `gorm:"type:text" json:"notes"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'Scheduled';index" json:"status"`
	Fee             decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	PaymentStatus   PaymentStatus     `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"payment_status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// IsModifiable reports whether the appointment may still be edited or cancelled.
func (a *Appointment) IsModifiable() bool {
	return !a.IsCancelled() && !a.IsCompleted()
}

// IsOwnedBy reports whether userID booked the appointment.
func (a *Appointment) IsOwnedBy(userID string) bool {
	return userID != "" && a.UserID == userID
}

// ApplyDefaults fills the status fields a fresh booking starts with.
func (a *Appointment) ApplyDefaults() {
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentStatusUnpaid
	}
}

// Options offered by the booking form.
var (
	Departments = []string{
		"Cardiology", "Dermatology", "Endocrinology", "Gastroenterology",
		"Hematology", "Neurology", "Obstetrics", "Oncology", "Ophthalmology",
		"Orthopedics", "Pediatrics", "Psychiatry", "Urology",
	}
	AppointmentTypes = []string{"Regular Checkup", "Follow-up", "Emergency", "Consultation", "Procedure"}
	AppointmentModes = []string{"In-person", "Virtual", "Home Visit"}
)

const (
	clinicOpens   = 8 * 60
	clinicCloses  = 17 * 60
	slotIntervalM = 30
)

// TimeSlots returns the bookable HH:MM slots, 08:00 to 16:30 every 30 minutes.
func TimeSlots() []string {
	slots := make([]string, 0, (clinicCloses-clinicOpens)/slotIntervalM)
	for m := clinicOpens; m < clinicCloses; m += slotIntervalM {
		slots = append(slots, time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04"))
	}
	return slots
}

// IsValidTimeSlot reports whether hhmm is one of TimeSlots.
func IsValidTimeSlot(hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= clinicOpens && m < clinicCloses && (m-clinicOpens)%slotIntervalM == 0
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func IsValidDepartment(v string) bool      { return contains(Departments, v) }
func IsValidAppointmentType(v string) bool { return contains(AppointmentTypes, v) }
func IsValidAppointmentMode(v string) bool { return contains(AppointmentModes, v) }

func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}
