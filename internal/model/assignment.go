package model

import (
	"time"

	"github.com/google/uuid"
)

// NurseAssignment links a nurse to a doctor for care-team delegation. At most
// one active assignment per nurse is enforced at write time.
type NurseAssignment struct {
	Base
	DoctorID  uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	NurseID   uuid.UUID  `db:"nurse_id" json:"nurse_id"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
}

type AssignNurseRequest struct {
	NurseID   uuid.UUID `json:"nurse_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   *string   `json:"end_date"`
}
