package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/internal/workflow"
	apperrors "github.com/careloop/clinic-api/pkg/errors"
)

// Service manages bills, insurance policies and claims. Bill totals are
// recomputed on every mutation and the overdue status is derived at read
// time, never stored.
type Service struct {
	repo          repository.BillingRepository
	prescriptions repository.PrescriptionRepository
	appointments  repository.AppointmentRepository
	profiles      repository.ProfileRepository
	clock         func() time.Time
}

func NewService(
	repo repository.BillingRepository,
	prescriptions repository.PrescriptionRepository,
	appointments repository.AppointmentRepository,
	profiles repository.ProfileRepository,
) *Service {
	return &Service{
		repo:          repo,
		prescriptions: prescriptions,
		appointments:  appointments,
		profiles:      profiles,
		clock:         time.Now,
	}
}

// GenerateForPrescription creates the prescription's single bill. The
// operator enters the amount; Estimate supplies the suggestion.
func (s *Service) GenerateForPrescription(ctx context.Context, prescriptionID uuid.UUID, req *model.GenerateBillRequest) (*model.Bill, error) {
	prescription, err := s.prescriptions.Get(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, apperrors.Internal(err)
	}

	bill, err := s.newBill(prescription.PatientID, req)
	if err != nil {
		return nil, err
	}
	bill.PrescriptionID = &prescription.ID

	if err := s.repo.CreateBill(ctx, bill); err != nil {
		if errors.Is(err, repository.ErrDuplicateBill) {
			return nil, apperrors.Conflict("prescription already has a bill")
		}
		return nil, apperrors.Internal(err)
	}
	return bill, nil
}

// GenerateForAppointment creates the appointment's single bill. Only
// completed appointments are billable.
func (s *Service) GenerateForAppointment(ctx context.Context, appointmentID uuid.UUID, req *model.GenerateBillRequest) (*model.Bill, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.IllegalTransition("appointment", string(appointment.Status), "billed")
	}

	bill, err := s.newBill(appointment.PatientID, req)
	if err != nil {
		return nil, err
	}
	bill.AppointmentID = &appointment.ID

	if err := s.repo.CreateBill(ctx, bill); err != nil {
		if errors.Is(err, repository.ErrDuplicateBill) {
			return nil, apperrors.Conflict("appointment already has a bill")
		}
		return nil, apperrors.Internal(err)
	}
	return bill, nil
}

func (s *Service) newBill(patientID uuid.UUID, req *model.GenerateBillRequest) (*model.Bill, error) {
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, apperrors.Validation("due_date", "must be YYYY-MM-DD")
	}
	if dueDate.Before(model.DateOnly(s.clock())) {
		return nil, apperrors.InvalidDate("due date is in the past")
	}
	if req.Discount > req.Amount+req.Tax {
		return nil, apperrors.Validation("discount", "cannot exceed amount plus tax")
	}

	bill := &model.Bill{
		Base:        model.NewBase(),
		PatientID:   patientID,
		Amount:      req.Amount,
		Tax:         req.Tax,
		Discount:    req.Discount,
		Status:      model.BillStatusPending,
		DueDate:     dueDate,
		Description: req.Description,
	}
	bill.RecomputeTotal()
	return bill, nil
}

// Estimate suggests a prescription bill amount: item quantities times unit
// prices plus the prescribing doctor's consultation fee.
func (s *Service) Estimate(ctx context.Context, prescriptionID uuid.UUID) (*model.BillEstimate, error) {
	prescription, err := s.prescriptions.Get(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, apperrors.Internal(err)
	}
	items, err := s.prescriptions.ListItems(ctx, prescriptionID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var itemsTotal float64
	for _, item := range items {
		medicine, err := s.prescriptions.GetMedicine(ctx, item.MedicineID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		itemsTotal += float64(item.Quantity) * medicine.UnitPrice
	}

	doctor, err := s.profiles.GetDoctorProfile(ctx, prescription.DoctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.BillEstimate{
		ItemsTotal:      itemsTotal,
		ConsultationFee: doctor.ConsultationFee,
		SuggestedAmount: itemsTotal + doctor.ConsultationFee,
	}, nil
}

// GetBill returns the bill with its effective status as of now.
func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.repo.GetBill(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill", err)
		}
		return nil, apperrors.Internal(err)
	}
	bill.Status = bill.EffectiveStatus(s.clock())
	return bill, nil
}

func (s *Service) ListBillsForPatient(ctx context.Context, patientID uuid.UUID, status model.BillStatus) ([]*model.Bill, error) {
	bills, err := s.repo.ListBillsByPatient(ctx, patientID, "")
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	now := s.clock()
	filtered := bills[:0]
	for _, bill := range bills {
		bill.Status = bill.EffectiveStatus(now)
		if status == "" || bill.Status == status {
			filtered = append(filtered, bill)
		}
	}
	return filtered, nil
}

// Pay settles a pending (or effectively overdue) bill, stamping the payment
// method and date.
func (s *Service) Pay(ctx context.Context, patientID, billID uuid.UUID, req *model.PayBillRequest) (*model.Bill, error) {
	if !req.PaymentMethod.Valid() {
		return nil, apperrors.Validation("payment_method", "unknown payment method")
	}
	bill, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill", err)
		}
		return nil, apperrors.Internal(err)
	}
	if bill.PatientID != patientID {
		return nil, apperrors.Authorization("bill belongs to another patient")
	}
	if !workflow.Bill.Can(string(bill.Status), string(model.BillStatusPaid)) {
		return nil, apperrors.IllegalTransition("bill", string(bill.EffectiveStatus(s.clock())), string(model.BillStatusPaid))
	}

	now := s.clock()
	method := req.PaymentMethod
	bill.Status = model.BillStatusPaid
	bill.PaymentMethod = &method
	bill.PaymentDate = &now
	bill.RecomputeTotal()
	bill.UpdatedAt = now
	if err := s.repo.UpdateBill(ctx, bill); err != nil {
		return nil, apperrors.Internal(err)
	}
	return bill, nil
}

// CancelBill voids a bill from any non-cancelled stored state.
func (s *Service) CancelBill(ctx context.Context, billID uuid.UUID) (*model.Bill, error) {
	bill, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !workflow.Bill.Can(string(bill.Status), string(model.BillStatusCancelled)) {
		return nil, apperrors.IllegalTransition("bill", string(bill.Status), string(model.BillStatusCancelled))
	}

	bill.Status = model.BillStatusCancelled
	bill.RecomputeTotal()
	bill.UpdatedAt = s.clock()
	if err := s.repo.UpdateBill(ctx, bill); err != nil {
		return nil, apperrors.Internal(err)
	}
	return bill, nil
}

func (s *Service) CreateInsurance(ctx context.Context, patientID uuid.UUID, req *model.CreateInsuranceRequest) (*model.Insurance, error) {
	start, err := time.Parse("2006-01-02", req.CoverageStartDate)
	if err != nil {
		return nil, apperrors.Validation("coverage_start_date", "must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.CoverageEndDate)
	if err != nil {
		return nil, apperrors.Validation("coverage_end_date", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.Validation("coverage_end_date", "must not be before coverage_start_date")
	}

	insurance := &model.Insurance{
		Base:              model.NewBase(),
		PatientID:         patientID,
		ProviderName:      req.ProviderName,
		PolicyNumber:      req.PolicyNumber,
		CoverageStartDate: start,
		CoverageEndDate:   end,
		CoverageDetails:   req.CoverageDetails,
		ContactNumber:     req.ContactNumber,
		IsActive:          true,
	}
	if err := s.repo.CreateInsurance(ctx, insurance); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("policy number already registered")
		}
		return nil, apperrors.Internal(err)
	}
	return insurance, nil
}

func (s *Service) ListInsurancesForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Insurance, error) {
	insurances, err := s.repo.ListInsurancesByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return insurances, nil
}

// SubmitClaim opens a claim against the patient's own bill using their own
// in-coverage policy. At most one open claim per bill.
func (s *Service) SubmitClaim(ctx context.Context, patientID, billID uuid.UUID, req *model.SubmitClaimRequest) (*model.InsuranceClaim, error) {
	bill, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("bill", err)
		}
		return nil, apperrors.Internal(err)
	}
	if bill.PatientID != patientID {
		return nil, apperrors.Authorization("bill belongs to another patient")
	}
	switch bill.EffectiveStatus(s.clock()) {
	case model.BillStatusPending, model.BillStatusOverdue, model.BillStatusPaid:
	default:
		return nil, apperrors.Validation("bill_id", "only pending or paid bills can be claimed")
	}
	if req.AmountClaimed > bill.TotalAmount {
		return nil, apperrors.Validation("amount_claimed", "cannot exceed the bill total")
	}

	insurance, err := s.repo.GetInsurance(ctx, req.InsuranceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("insurance", err)
		}
		return nil, apperrors.Internal(err)
	}
	if insurance.PatientID != patientID {
		return nil, apperrors.Authorization("insurance belongs to another patient")
	}
	if !insurance.InCoverage(s.clock()) {
		return nil, apperrors.Validation("insurance_id", "policy does not cover the current date")
	}

	claim := &model.InsuranceClaim{
		Base:          model.NewBase(),
		InsuranceID:   insurance.ID,
		BillID:        bill.ID,
		ClaimNumber:   s.claimNumber(bill.ID),
		AmountClaimed: req.AmountClaimed,
		Status:        model.ClaimStatusSubmitted,
		Notes:         req.Notes,
	}
	if err := s.repo.CreateClaim(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrDuplicateClaim) {
			return nil, apperrors.Conflict("bill already has an open claim")
		}
		return nil, apperrors.Internal(err)
	}
	return claim, nil
}

func (s *Service) claimNumber(billID uuid.UUID) string {
	short := strings.Split(billID.String(), "-")[0]
	return fmt.Sprintf("CLM-%s-%s", s.clock().Format("20060102"), short)
}

// AdvanceClaim moves a claim along its lifecycle. Approval requires an
// approved amount and stamps the processing date.
func (s *Service) AdvanceClaim(ctx context.Context, claimID uuid.UUID, req *model.UpdateClaimRequest) (*model.InsuranceClaim, error) {
	claim, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("claim", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !workflow.Claim.Can(string(claim.Status), string(req.Status)) {
		return nil, apperrors.IllegalTransition("claim", string(claim.Status), string(req.Status))
	}
	if req.Status == model.ClaimStatusApproved {
		if req.AmountApproved == nil {
			return nil, apperrors.Validation("amount_approved", "required when approving a claim")
		}
		if *req.AmountApproved > claim.AmountClaimed {
			return nil, apperrors.Validation("amount_approved", "cannot exceed the amount claimed")
		}
	}

	now := s.clock()
	claim.Status = req.Status
	if req.AmountApproved != nil {
		claim.AmountApproved = req.AmountApproved
	}
	if req.Notes != nil {
		claim.Notes = *req.Notes
	}
	if req.Status == model.ClaimStatusApproved || req.Status == model.ClaimStatusRejected {
		claim.ProcessedDate = &now
	}
	claim.UpdatedAt = now
	if err := s.repo.UpdateClaim(ctx, claim); err != nil {
		return nil, apperrors.Internal(err)
	}
	return claim, nil
}

func (s *Service) GetClaim(ctx context.Context, id uuid.UUID) (*model.InsuranceClaim, error) {
	claim, err := s.repo.GetClaim(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("claim", err)
		}
		return nil, apperrors.Internal(err)
	}
	return claim, nil
}

func (s *Service) ListClaimsForBill(ctx context.Context, billID uuid.UUID) ([]*model.InsuranceClaim, error) {
	claims, err := s.repo.ListClaimsByBill(ctx, billID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return claims, nil
}
