package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal kinds. Authorization decisions branch on
// this tag through the authz service, never on raw strings.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
	RoleInsurance  Role = "insurance"
	RoleLabTech    Role = "lab_tech"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleNurse, RoleAdmin, RolePharmacist, RoleInsurance, RoleLabTech:
		return true
	}
	return false
}

type User struct {
	Base
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	Role         Role   `db:"role" json:"role"`
	PhoneNumber  string `db:"phone_number" json:"phone_number,omitempty"`
}

type DoctorProfile struct {
	Base
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Specialization    string    `db:"specialization" json:"specialization"`
	Qualification     string    `db:"qualification" json:"qualification"`
	LicenseNumber     string    `db:"license_number" json:"license_number"`
	YearsOfExperience int       `db:"years_of_experience" json:"years_of_experience"`
	ConsultationFee   float64   `db:"consultation_fee" json:"consultation_fee"`
}

type PatientProfile struct {
	Base
	UserID               uuid.UUID `db:"user_id" json:"user_id"`
	BloodGroup           string    `db:"blood_group" json:"blood_group,omitempty"`
	EmergencyContactName string    `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	Allergies            string    `db:"allergies" json:"allergies,omitempty"`
	ChronicDiseases      string    `db:"chronic_diseases" json:"chronic_diseases,omitempty"`
}

type NurseProfile struct {
	Base
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Qualification string    `db:"qualification" json:"qualification"`
	LicenseNumber string    `db:"license_number" json:"license_number"`
	Department    string    `db:"department" json:"department"`
}

// Principal is the authenticated identity the boundary hands to every
// operation. ProfileID is the role-specific profile (doctor, patient, nurse)
// when one exists.
type Principal struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      Role   `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        Role      `json:"role"`
}

type DoctorFilters struct {
	Query          string `form:"q"`
	Specialization string `form:"specialization"`
}
