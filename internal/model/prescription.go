package model

import (
	"time"

	"github.com/google/uuid"
)

type Medicine struct {
	Base
	Name          string  `db:"name" json:"name"`
	Description   string  `db:"description" json:"description"`
	Manufacturer  string  `db:"manufacturer" json:"manufacturer"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	StockQuantity int     `db:"stock_quantity" json:"stock_quantity"`
}

type Prescription struct {
	Base
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	MedicalRecordID *uuid.UUID `db:"medical_record_id" json:"medical_record_id,omitempty"`
	ExpiryDate      *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
}

// Active reports whether the prescription is usable at the given instant.
// Expiry flips it inactive without a stored transition.
func (p *Prescription) Active(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiryDate != nil && DateOnly(*p.ExpiryDate).Before(DateOnly(now)) {
		return false
	}
	return true
}

type PrescriptionItem struct {
	Base
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	MedicineID     uuid.UUID `db:"medicine_id" json:"medicine_id"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Duration       string    `db:"duration" json:"duration"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Instructions   string    `db:"instructions" json:"instructions"`
}

type CreatePrescriptionRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	MedicalRecordID *uuid.UUID `json:"medical_record_id"`
	ExpiryDate      *string    `json:"expiry_date"`
	Notes           string     `json:"notes"`
}

type AddPrescriptionItemRequest struct {
	MedicineID   uuid.UUID `json:"medicine_id" binding:"required"`
	Dosage       string    `json:"dosage" binding:"required"`
	Duration     string    `json:"duration" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	Instructions string    `json:"instructions"`
}

type MedicineFilters struct {
	Search string `form:"search"`
}
