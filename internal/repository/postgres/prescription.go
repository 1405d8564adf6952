package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, patient_id, doctor_id, medical_record_id, expiry_date, notes, is_active, created_at, updated_at)
		VALUES (:id, :patient_id, :doctor_id, :medical_record_id, :expiry_date, :notes, :is_active, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, prescription)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, `SELECT * FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *model.Prescription) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE prescriptions
		SET expiry_date = :expiry_date, notes = :notes, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`, prescription)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions := []*model.Prescription{}
	err := r.db.SelectContext(ctx, &prescriptions, `
		SELECT * FROM prescriptions WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions := []*model.Prescription{}
	err := r.db.SelectContext(ctx, &prescriptions, `
		SELECT * FROM prescriptions WHERE doctor_id = $1
		ORDER BY created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) AddItem(ctx context.Context, item *model.PrescriptionItem) error {
	query := `
		INSERT INTO prescription_items (id, prescription_id, medicine_id, dosage, duration, quantity, instructions, created_at, updated_at)
		VALUES (:id, :prescription_id, :medicine_id, :dosage, :duration, :quantity, :instructions, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("failed to add prescription item: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prescription_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *prescriptionRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.PrescriptionItem, error) {
	var item model.PrescriptionItem
	err := r.db.GetContext(ctx, &item, `SELECT * FROM prescription_items WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &item, nil
}

func (r *prescriptionRepository) ListItems(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error) {
	items := []*model.PrescriptionItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM prescription_items WHERE prescription_id = $1
		ORDER BY created_at`, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescription items: %w", err)
	}
	return items, nil
}

func (r *prescriptionRepository) GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var medicine model.Medicine
	err := r.db.GetContext(ctx, &medicine, `SELECT * FROM medicines WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &medicine, nil
}

func (r *prescriptionRepository) ListMedicines(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error) {
	query := `SELECT * FROM medicines`
	args := []interface{}{}
	if filters != nil && filters.Search != "" {
		query += ` WHERE name ILIKE $1 OR manufacturer ILIKE $1`
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY name`

	medicines := []*model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}
