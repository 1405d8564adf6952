package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type billingRepository struct {
	*BaseRepository
}

func NewBillingRepository(db *sqlx.DB) repository.BillingRepository {
	return &billingRepository{BaseRepository: NewBaseRepository(db)}
}

// CreateBill inserts a bill. The one-bill-per-prescription and one-bill-per-
// appointment checks run in the same transaction as the insert, with unique
// indexes as backstop.
func (r *billingRepository) CreateBill(ctx context.Context, bill *model.Bill) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if bill.PrescriptionID != nil {
			var count int
			err := tx.GetContext(ctx, &count,
				`SELECT COUNT(*) FROM bills WHERE prescription_id = $1`, *bill.PrescriptionID)
			if err != nil {
				return fmt.Errorf("failed to check existing bill: %w", err)
			}
			if count > 0 {
				return repository.ErrDuplicateBill
			}
		}
		if bill.AppointmentID != nil {
			var count int
			err := tx.GetContext(ctx, &count,
				`SELECT COUNT(*) FROM bills WHERE appointment_id = $1`, *bill.AppointmentID)
			if err != nil {
				return fmt.Errorf("failed to check existing bill: %w", err)
			}
			if count > 0 {
				return repository.ErrDuplicateBill
			}
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO bills (id, patient_id, appointment_id, prescription_id, amount, tax, discount, total_amount, status, payment_method, payment_date, due_date, description, created_at, updated_at)
			VALUES (:id, :patient_id, :appointment_id, :prescription_id, :amount, :tax, :discount, :total_amount, :status, :payment_method, :payment_date, :due_date, :description, :created_at, :updated_at)`,
			bill)
		if err != nil {
			if isUniqueViolation(err, "") {
				return repository.ErrDuplicateBill
			}
			return fmt.Errorf("failed to create bill: %w", err)
		}
		return nil
	})
}

func (r *billingRepository) GetBill(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, `SELECT * FROM bills WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &bill, nil
}

func (r *billingRepository) UpdateBill(ctx context.Context, bill *model.Bill) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE bills
		SET amount = :amount, tax = :tax, discount = :discount, total_amount = :total_amount,
		    status = :status, payment_method = :payment_method, payment_date = :payment_date,
		    due_date = :due_date, description = :description, updated_at = :updated_at
		WHERE id = :id`, bill)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *billingRepository) ListBillsByPatient(ctx context.Context, patientID uuid.UUID, status model.BillStatus) ([]*model.Bill, error) {
	query := `SELECT * FROM bills WHERE patient_id = $1`
	args := []interface{}{patientID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	bills := []*model.Bill{}
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (r *billingRepository) GetBillByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, `SELECT * FROM bills WHERE prescription_id = $1`, prescriptionID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &bill, nil
}

func (r *billingRepository) CreateInsurance(ctx context.Context, insurance *model.Insurance) error {
	query := `
		INSERT INTO insurances (id, patient_id, provider_name, policy_number, coverage_start_date, coverage_end_date, coverage_details, contact_number, is_active, created_at, updated_at)
		VALUES (:id, :patient_id, :provider_name, :policy_number, :coverage_start_date, :coverage_end_date, :coverage_details, :contact_number, :is_active, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, insurance)
	if err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create insurance: %w", err)
	}
	return nil
}

func (r *billingRepository) GetInsurance(ctx context.Context, id uuid.UUID) (*model.Insurance, error) {
	var insurance model.Insurance
	err := r.db.GetContext(ctx, &insurance, `SELECT * FROM insurances WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &insurance, nil
}

func (r *billingRepository) ListInsurancesByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Insurance, error) {
	insurances := []*model.Insurance{}
	err := r.db.SelectContext(ctx, &insurances, `
		SELECT * FROM insurances WHERE patient_id = $1
		ORDER BY coverage_end_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insurances: %w", err)
	}
	return insurances, nil
}

// CreateClaim inserts a claim after checking, in the same transaction, that
// no open claim exists for the bill. Rejected claims do not block a new one.
func (r *billingRepository) CreateClaim(ctx context.Context, claim *model.InsuranceClaim) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		err := tx.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM insurance_claims
			WHERE bill_id = $1 AND status != 'rejected'`, claim.BillID)
		if err != nil {
			return fmt.Errorf("failed to check existing claim: %w", err)
		}
		if count > 0 {
			return repository.ErrDuplicateClaim
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO insurance_claims (id, insurance_id, bill_id, claim_number, amount_claimed, amount_approved, status, processed_date, notes, created_at, updated_at)
			VALUES (:id, :insurance_id, :bill_id, :claim_number, :amount_claimed, :amount_approved, :status, :processed_date, :notes, :created_at, :updated_at)`,
			claim)
		if err != nil {
			if isUniqueViolation(err, "") {
				return repository.ErrDuplicateClaim
			}
			return fmt.Errorf("failed to create claim: %w", err)
		}
		return nil
	})
}

func (r *billingRepository) GetClaim(ctx context.Context, id uuid.UUID) (*model.InsuranceClaim, error) {
	var claim model.InsuranceClaim
	err := r.db.GetContext(ctx, &claim, `SELECT * FROM insurance_claims WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &claim, nil
}

func (r *billingRepository) UpdateClaim(ctx context.Context, claim *model.InsuranceClaim) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE insurance_claims
		SET status = :status, amount_approved = :amount_approved, processed_date = :processed_date,
		    notes = :notes, updated_at = :updated_at
		WHERE id = :id`, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *billingRepository) ListClaimsByBill(ctx context.Context, billID uuid.UUID) ([]*model.InsuranceClaim, error) {
	claims := []*model.InsuranceClaim{}
	err := r.db.SelectContext(ctx, &claims, `
		SELECT * FROM insurance_claims WHERE bill_id = $1
		ORDER BY created_at DESC`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}
