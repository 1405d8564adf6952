package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service manages prescriptions, their items and the medicine inventory view.
type Service struct {
	repo    repository.PrescriptionRepository
	records repository.MedicalRecordRepository
	billing repository.BillingRepository
	clock   func() time.Time
}

func NewService(repo repository.PrescriptionRepository, records repository.MedicalRecordRepository, billing repository.BillingRepository) *Service {
	return &Service{repo: repo, records: records, billing: billing, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	prescription := &model.Prescription{
		Base:            model.NewBase(),
		PatientID:       req.PatientID,
		DoctorID:        doctorID,
		MedicalRecordID: req.MedicalRecordID,
		Notes:           req.Notes,
		IsActive:        true,
	}

	if req.MedicalRecordID != nil {
		record, err := s.records.Get(ctx, *req.MedicalRecordID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("medical record", err)
			}
			return nil, apperrors.Internal(err)
		}
		if record.DoctorID != doctorID {
			return nil, apperrors.Authorization("medical record was authored by another doctor")
		}
		if record.PatientID != req.PatientID {
			return nil, apperrors.Validation("medical_record_id", "record belongs to a different patient")
		}
	}

	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, apperrors.Validation("expiry_date", "must be YYYY-MM-DD")
		}
		if expiry.Before(model.DateOnly(s.clock())) {
			return nil, apperrors.InvalidDate("expiry date is in the past")
		}
		prescription.ExpiryDate = &expiry
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescriptions, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescriptions, nil
}

// AddItem attaches a medicine to a prescription. Items are mutable only while
// the prescription is active and unbilled; quantity must be coverable by
// current stock, though stock itself is never decremented here.
func (s *Service) AddItem(ctx context.Context, doctorID, prescriptionID uuid.UUID, req *model.AddPrescriptionItemRequest) (*model.PrescriptionItem, error) {
	prescription, err := s.mutable(ctx, doctorID, prescriptionID)
	if err != nil {
		return nil, err
	}

	medicine, err := s.repo.GetMedicine(ctx, req.MedicineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medicine", err)
		}
		return nil, apperrors.Internal(err)
	}
	if req.Quantity > medicine.StockQuantity {
		return nil, apperrors.Validation("quantity",
			fmt.Sprintf("only %d units of %s in stock", medicine.StockQuantity, medicine.Name))
	}

	item := &model.PrescriptionItem{
		Base:           model.NewBase(),
		PrescriptionID: prescription.ID,
		MedicineID:     medicine.ID,
		Dosage:         req.Dosage,
		Duration:       req.Duration,
		Quantity:       req.Quantity,
		Instructions:   req.Instructions,
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// RemoveItem deletes an item under the same mutability gate as AddItem.
func (s *Service) RemoveItem(ctx context.Context, doctorID, prescriptionID, itemID uuid.UUID) error {
	if _, err := s.mutable(ctx, doctorID, prescriptionID); err != nil {
		return err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("prescription item", err)
		}
		return apperrors.Internal(err)
	}
	if item.PrescriptionID != prescriptionID {
		return apperrors.Validation("item_id", "item belongs to a different prescription")
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListItems(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error) {
	items, err := s.repo.ListItems(ctx, prescriptionID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

// Deactivate flips the free-form active flag off.
func (s *Service) Deactivate(ctx context.Context, doctorID, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctorID {
		return nil, apperrors.Authorization("prescription belongs to another doctor")
	}
	prescription.IsActive = false
	prescription.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, prescription); err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

func (s *Service) mutable(ctx context.Context, doctorID, prescriptionID uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctorID {
		return nil, apperrors.Authorization("prescription belongs to another doctor")
	}
	if !prescription.Active(s.clock()) {
		return nil, apperrors.Conflict("prescription is inactive or expired")
	}

	_, err = s.billing.GetBillByPrescription(ctx, prescriptionID)
	if err == nil {
		return nil, apperrors.Conflict("prescription is already billed; items are frozen")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	medicine, err := s.repo.GetMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medicine", err)
		}
		return nil, apperrors.Internal(err)
	}
	return medicine, nil
}

func (s *Service) ListMedicines(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error) {
	medicines, err := s.repo.ListMedicines(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return medicines, nil
}
