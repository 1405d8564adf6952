package model

import (
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	Base
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Symptoms      string     `db:"symptoms" json:"symptoms"`
	Treatment     string     `db:"treatment" json:"treatment"`
	Notes         string     `db:"notes" json:"notes,omitempty"`
}

// Treatment is the optional follow-up plan attached one-to-one to a record.
type Treatment struct {
	Base
	MedicalRecordID uuid.UUID  `db:"medical_record_id" json:"medical_record_id"`
	TreatmentPlan   string     `db:"treatment_plan" json:"treatment_plan"`
	FollowUpDate    *time.Time `db:"follow_up_date" json:"follow_up_date,omitempty"`
	FollowUpNotes   string     `db:"follow_up_notes" json:"follow_up_notes,omitempty"`
}

// PatientNote is a doctor's note about a patient. Private notes are visible
// only to the authoring doctor; shared notes also to assigned nurses.
type PatientNote struct {
	Base
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Note      string    `db:"note" json:"note"`
	IsPrivate bool      `db:"is_private" json:"is_private"`
}

type CreateMedicalRecordRequest struct {
	Diagnosis     string  `json:"diagnosis" binding:"required"`
	Symptoms      string  `json:"symptoms" binding:"required"`
	Treatment     string  `json:"treatment" binding:"required"`
	Notes         string  `json:"notes"`
	TreatmentPlan *string `json:"treatment_plan"`
	FollowUpDate  *string `json:"follow_up_date"`
	FollowUpNotes string  `json:"follow_up_notes"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis *string `json:"diagnosis"`
	Symptoms  *string `json:"symptoms"`
	Treatment *string `json:"treatment"`
	Notes     *string `json:"notes"`
}

type CreatePatientNoteRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Note      string    `json:"note" binding:"required"`
	IsPrivate *bool     `json:"is_private"`
}
