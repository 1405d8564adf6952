package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type medicalRecordRepository struct {
	db *sqlx.DB
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, patient_id, doctor_id, appointment_id, diagnosis, symptoms, treatment, notes, created_at, updated_at)
		VALUES (:id, :patient_id, :doctor_id, :appointment_id, :diagnosis, :symptoms, :treatment, :notes, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := r.db.GetContext(ctx, &record, `SELECT * FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &record, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, record *model.MedicalRecord) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE medical_records
		SET diagnosis = :diagnosis, symptoms = :symptoms, treatment = :treatment, notes = :notes, updated_at = :updated_at
		WHERE id = :id`, record)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *medicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	records := []*model.MedicalRecord{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM medical_records WHERE patient_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *medicalRecordRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.MedicalRecord, error) {
	records := []*model.MedicalRecord{}
	query := `SELECT * FROM medical_records WHERE doctor_id = $1 ORDER BY created_at DESC`
	args := []interface{}{doctorID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *medicalRecordRepository) CreateTreatment(ctx context.Context, treatment *model.Treatment) error {
	query := `
		INSERT INTO treatments (id, medical_record_id, treatment_plan, follow_up_date, follow_up_notes, created_at, updated_at)
		VALUES (:id, :medical_record_id, :treatment_plan, :follow_up_date, :follow_up_notes, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, treatment)
	if err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) GetTreatmentByRecord(ctx context.Context, recordID uuid.UUID) (*model.Treatment, error) {
	var treatment model.Treatment
	err := r.db.GetContext(ctx, &treatment, `SELECT * FROM treatments WHERE medical_record_id = $1`, recordID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &treatment, nil
}

func (r *medicalRecordRepository) CreateNote(ctx context.Context, note *model.PatientNote) error {
	query := `
		INSERT INTO patient_notes (id, doctor_id, patient_id, note, is_private, created_at, updated_at)
		VALUES (:id, :doctor_id, :patient_id, :note, :is_private, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("failed to create patient note: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) ListNotes(ctx context.Context, doctorID, patientID uuid.UUID, includePrivate bool) ([]*model.PatientNote, error) {
	notes := []*model.PatientNote{}
	query := `
		SELECT * FROM patient_notes
		WHERE doctor_id = $1 AND patient_id = $2`
	if !includePrivate {
		query += ` AND is_private = false`
	}
	query += ` ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &notes, query, doctorID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient notes: %w", err)
	}
	return notes, nil
}
