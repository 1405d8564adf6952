package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type referralRepository struct {
	db *sqlx.DB
}

func NewReferralRepository(db *sqlx.DB) repository.ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (id, patient_id, referring_doctor_id, referred_doctor_id, medical_record_id, reason, notes, status, completion_date, created_at, updated_at)
		VALUES (:id, :patient_id, :referring_doctor_id, :referred_doctor_id, :medical_record_id, :reason, :notes, :status, :completion_date, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, referral)
	if err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

func (r *referralRepository) Get(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.GetContext(ctx, &referral, `SELECT * FROM referrals WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &referral, nil
}

func (r *referralRepository) Update(ctx context.Context, referral *model.Referral) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE referrals
		SET status = :status, notes = :notes, completion_date = :completion_date, updated_at = :updated_at
		WHERE id = :id`, referral)
	if err != nil {
		return fmt.Errorf("failed to update referral: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *referralRepository) ListOutgoing(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	referrals := []*model.Referral{}
	err := r.db.SelectContext(ctx, &referrals, `
		SELECT * FROM referrals WHERE referring_doctor_id = $1
		ORDER BY created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing referrals: %w", err)
	}
	return referrals, nil
}

func (r *referralRepository) ListIncoming(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error) {
	referrals := []*model.Referral{}
	err := r.db.SelectContext(ctx, &referrals, `
		SELECT * FROM referrals WHERE referred_doctor_id = $1
		ORDER BY created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming referrals: %w", err)
	}
	return referrals, nil
}
