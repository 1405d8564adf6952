package model

import (
	"time"

	"github.com/google/uuid"
)

type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusCancelled BillStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodInsurance    PaymentMethod = "insurance"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodInsurance, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type Bill struct {
	Base
	PatientID      uuid.UUID      `db:"patient_id" json:"patient_id"`
	AppointmentID  *uuid.UUID     `db:"appointment_id" json:"appointment_id,omitempty"`
	PrescriptionID *uuid.UUID     `db:"prescription_id" json:"prescription_id,omitempty"`
	Amount         float64        `db:"amount" json:"amount"`
	Tax            float64        `db:"tax" json:"tax"`
	Discount       float64        `db:"discount" json:"discount"`
	TotalAmount    float64        `db:"total_amount" json:"total_amount"`
	Status         BillStatus     `db:"status" json:"status"`
	PaymentMethod  *PaymentMethod `db:"payment_method" json:"payment_method,omitempty"`
	PaymentDate    *time.Time     `db:"payment_date" json:"payment_date,omitempty"`
	DueDate        time.Time      `db:"due_date" json:"due_date"`
	Description    string         `db:"description" json:"description,omitempty"`
}

// RecomputeTotal keeps total_amount = amount + tax - discount. Called on every
// mutation; a stored total is never trusted.
func (b *Bill) RecomputeTotal() {
	b.TotalAmount = b.Amount + b.Tax - b.Discount
}

// EffectiveStatus reports the bill status as of now. Overdue is derived from
// the due date at read time, never stored.
func (b *Bill) EffectiveStatus(now time.Time) BillStatus {
	if b.Status == BillStatusPending && DateOnly(b.DueDate).Before(DateOnly(now)) {
		return BillStatusOverdue
	}
	return b.Status
}

type Insurance struct {
	Base
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	ProviderName      string    `db:"provider_name" json:"provider_name"`
	PolicyNumber      string    `db:"policy_number" json:"policy_number"`
	CoverageStartDate time.Time `db:"coverage_start_date" json:"coverage_start_date"`
	CoverageEndDate   time.Time `db:"coverage_end_date" json:"coverage_end_date"`
	CoverageDetails   string    `db:"coverage_details" json:"coverage_details,omitempty"`
	ContactNumber     string    `db:"contact_number" json:"contact_number,omitempty"`
	IsActive          bool      `db:"is_active" json:"is_active"`
}

// InCoverage reports whether the policy is active and covers the given date.
func (i *Insurance) InCoverage(date time.Time) bool {
	d := DateOnly(date)
	return i.IsActive && !d.Before(DateOnly(i.CoverageStartDate)) && !d.After(DateOnly(i.CoverageEndDate))
}

type ClaimStatus string

const (
	ClaimStatusSubmitted  ClaimStatus = "submitted"
	ClaimStatusProcessing ClaimStatus = "processing"
	ClaimStatusApproved   ClaimStatus = "approved"
	ClaimStatusRejected   ClaimStatus = "rejected"
	ClaimStatusCompleted  ClaimStatus = "completed"
)

type InsuranceClaim struct {
	Base
	InsuranceID    uuid.UUID   `db:"insurance_id" json:"insurance_id"`
	BillID         uuid.UUID   `db:"bill_id" json:"bill_id"`
	ClaimNumber    string      `db:"claim_number" json:"claim_number"`
	AmountClaimed  float64     `db:"amount_claimed" json:"amount_claimed"`
	AmountApproved *float64    `db:"amount_approved" json:"amount_approved,omitempty"`
	Status         ClaimStatus `db:"status" json:"status"`
	ProcessedDate  *time.Time  `db:"processed_date" json:"processed_date,omitempty"`
	Notes          string      `db:"notes" json:"notes,omitempty"`
}

type GenerateBillRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Tax         float64 `json:"tax" binding:"min=0"`
	Discount    float64 `json:"discount" binding:"min=0"`
	DueDate     string  `json:"due_date" binding:"required"`
	Description string  `json:"description"`
}

type PayBillRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
}

type CreateInsuranceRequest struct {
	ProviderName      string `json:"provider_name" binding:"required"`
	PolicyNumber      string `json:"policy_number" binding:"required"`
	CoverageStartDate string `json:"coverage_start_date" binding:"required"`
	CoverageEndDate   string `json:"coverage_end_date" binding:"required"`
	CoverageDetails   string `json:"coverage_details"`
	ContactNumber     string `json:"contact_number"`
}

type SubmitClaimRequest struct {
	InsuranceID   uuid.UUID `json:"insurance_id" binding:"required"`
	AmountClaimed float64   `json:"amount_claimed" binding:"required,gt=0"`
	Notes         string    `json:"notes"`
}

type UpdateClaimRequest struct {
	Status         ClaimStatus `json:"status" binding:"required"`
	AmountApproved *float64    `json:"amount_approved"`
	Notes          *string     `json:"notes"`
}

// BillEstimate is the read-only suggested amount for a prescription bill:
// medicine prices times quantities plus the consultation fee. The operator
// enters the final amount.
type BillEstimate struct {
	ItemsTotal      float64 `json:"items_total"`
	ConsultationFee float64 `json:"consultation_fee"`
	SuggestedAmount float64 `json:"suggested_amount"`
}
