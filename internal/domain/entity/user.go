package entity

import "time"

// User is an account. Only the salted digest of the password is stored.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id" validate:"required"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'patient';index" json:"role"`
	PasswordHash string    `gorm:"type:text;not null" json:"password_hash"`
	PasswordSalt string    `gorm:"type:text;not null" json:"password_salt"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
