package entity

import "time"

// Patient is the medical profile of a user, linked 1:1 by UserID.
type Patient struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id,omitempty"`
	UserID             string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id" validate:"required"`
	FullName           string    `gorm:"type:varchar(255);not null" json:"full_name"`
	DateOfBirth        string    `gorm:"type:varchar(10)" json:"date_of_birth"`
	Gender             string    `gorm:"type:varchar(32)" json:"gender"`
	BloodGroup         string    `gorm:"type:varchar(16)" json:"blood_group"`
	Email              string    `gorm:"type:varchar(255)" json:"email"`
	PhoneNumber        string    `gorm:"type:varchar(32)" json:"phone_number"`
	Address            string    `gorm:"type:text" json:"address"`
	EmergencyContact   string    `gorm:"type:varchar(255)" json:"emergency_contact"`
	Height             string    `gorm:"type:varchar(16)" json:"height"`
	Weight             string    `gorm:"type:varchar(16)" json:"weight"`
	Allergies          string    `gorm:"type:text" json:"allergies"`
	CurrentMedications string    `gorm:"type:text" json:"current_medications"`
	MedicalHistory     string    `gorm:"type:text" json:"medical_history"`
	InsuranceProvider  string    `gorm:"type:varchar(255)" json:"insurance_provider"`
	PolicyNumber       string    `gorm:"type:varchar(100)" json:"policy_number"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender and blood group options offered by the profile form.
var (
	Genders     = []string{"Male", "Female", "Other", "Prefer not to say"}
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-", "Unknown"}
)

func IsValidGender(v string) bool     { return contains(Genders, v) }
func IsValidBloodGroup(v string) bool { return contains(BloodGroups, v) }
