package model

import (
	"time"

	"github.com/google/uuid"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusAccepted  ReferralStatus = "accepted"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusDeclined  ReferralStatus = "declined"
)

type Referral struct {
	Base
	PatientID         uuid.UUID      `db:"patient_id" json:"patient_id"`
	ReferringDoctorID uuid.UUID      `db:"referring_doctor_id" json:"referring_doctor_id"`
	ReferredDoctorID  uuid.UUID      `db:"referred_doctor_id" json:"referred_doctor_id"`
	MedicalRecordID   *uuid.UUID     `db:"medical_record_id" json:"medical_record_id,omitempty"`
	Reason            string         `db:"reason" json:"reason"`
	Notes             string         `db:"notes" json:"notes,omitempty"`
	Status            ReferralStatus `db:"status" json:"status"`
	CompletionDate    *time.Time     `db:"completion_date" json:"completion_date,omitempty"`
}

type CreateReferralRequest struct {
	PatientID        uuid.UUID  `json:"patient_id" binding:"required"`
	ReferredDoctorID uuid.UUID  `json:"referred_doctor_id" binding:"required"`
	MedicalRecordID  *uuid.UUID `json:"medical_record_id"`
	Reason           string     `json:"reason" binding:"required"`
	Notes            string     `json:"notes"`
}
