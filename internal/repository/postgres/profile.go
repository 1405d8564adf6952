package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (id, user_id, specialization, qualification, license_number, years_of_experience, consultation_fee, created_at, updated_at)
		VALUES (:id, :user_id, :specialization, :qualification, :license_number, :years_of_experience, :consultation_fee, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM doctor_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetDoctorProfileByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM doctor_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*model.DoctorProfile, error) {
	query := `
		SELECT dp.* FROM doctor_profiles dp
		JOIN users u ON u.id = dp.user_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.Query != "" {
		query += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR dp.specialization ILIKE $%d)", argCount, argCount, argCount)
		args = append(args, "%"+filters.Query+"%")
		argCount++
	}
	if filters.Specialization != "" {
		query += fmt.Sprintf(" AND dp.specialization = $%d", argCount)
		args = append(args, filters.Specialization)
		argCount++
	}
	query += " ORDER BY u.last_name, u.first_name"

	profiles := []*model.DoctorProfile{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) CreatePatientProfile(ctx context.Context, profile *model.PatientProfile) error {
	query := `
		INSERT INTO patient_profiles (id, user_id, blood_group, emergency_contact_name, allergies, chronic_diseases, created_at, updated_at)
		VALUES (:id, :user_id, :blood_group, :emergency_contact_name, :allergies, :chronic_diseases, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("failed to create patient profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetPatientProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM patient_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetPatientProfileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM patient_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error) {
	query := `
		SELECT DISTINCT pp.* FROM patient_profiles pp
		JOIN appointments a ON a.patient_id = pp.id
		WHERE a.doctor_id = $1
		ORDER BY pp.id`

	profiles := []*model.PatientProfile{}
	if err := r.db.SelectContext(ctx, &profiles, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list patients for doctor: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) CreateNurseProfile(ctx context.Context, profile *model.NurseProfile) error {
	query := `
		INSERT INTO nurse_profiles (id, user_id, qualification, license_number, department, created_at, updated_at)
		VALUES (:id, :user_id, :qualification, :license_number, :department, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("failed to create nurse profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetNurseProfile(ctx context.Context, id uuid.UUID) (*model.NurseProfile, error) {
	var profile model.NurseProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM nurse_profiles WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetNurseProfileByUser(ctx context.Context, userID uuid.UUID) (*model.NurseProfile, error) {
	var profile model.NurseProfile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM nurse_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}
