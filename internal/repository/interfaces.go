package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careloop/clinic-api/internal/model"
)

// Sentinel errors the postgres layer reports for guarded check-then-write
// sequences. Services translate these into the user-facing error taxonomy.
var (
	ErrNotFound       = errors.New("not found")
	ErrOverlap        = errors.New("overlapping time range")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrDuplicateBill  = errors.New("bill already exists")
	ErrDuplicateClaim = errors.New("claim already exists")
	ErrDuplicate      = errors.New("duplicate row")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	ProfileRepository interface {
		CreateDoctorProfile(ctx context.Context, profile *model.DoctorProfile) error
		GetDoctorProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
		GetDoctorProfileByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
		ListDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*model.DoctorProfile, error)
		ListPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error)
		CreatePatientProfile(ctx context.Context, profile *model.PatientProfile) error
		GetPatientProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
		GetPatientProfileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
		CreateNurseProfile(ctx context.Context, profile *model.NurseProfile) error
		GetNurseProfile(ctx context.Context, id uuid.UUID) (*model.NurseProfile, error)
		GetNurseProfileByUser(ctx context.Context, userID uuid.UUID) (*model.NurseProfile, error)
	}

	// ScheduleRepository persists recurring schedules, date slots and leave.
	// The guarded Create methods run their overlap check and insert inside a
	// single transaction serialized per doctor; an overlap yields ErrOverlap
	// with nothing persisted.
	ScheduleRepository interface {
		CreateSchedule(ctx context.Context, schedule *model.WeeklySchedule) error
		ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.WeeklySchedule, error)
		ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek string) ([]*model.WeeklySchedule, error)
		DeleteSchedule(ctx context.Context, id, doctorID uuid.UUID) error

		CreateDateSlot(ctx context.Context, slot *model.DateSlot) error
		ListDateSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.DateSlot, error)
		ListUpcomingDateSlots(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*model.DateSlot, error)
		DeleteDateSlot(ctx context.Context, id, doctorID uuid.UUID) error

		CreateLeave(ctx context.Context, leave *model.LeaveRequest) error
		GetLeave(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
		UpdateLeave(ctx context.Context, leave *model.LeaveRequest) error
		DeleteLeave(ctx context.Context, id, doctorID uuid.UUID) error
		ListLeaves(ctx context.Context, doctorID uuid.UUID) ([]*model.LeaveRequest, error)
		ListApprovedLeavesCovering(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.LeaveRequest, error)
		ListPendingLeaves(ctx context.Context) ([]*model.LeaveRequest, error)
	}

	// AppointmentRepository persists bookings. CreateScheduled re-checks the
	// exact (doctor, date, time) slot under a per-doctor lock inside its
	// transaction and reports ErrSlotTaken when a scheduled appointment
	// already occupies it.
	AppointmentRepository interface {
		CreateScheduled(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		HasHistory(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.MedicalRecord, error)

		CreateTreatment(ctx context.Context, treatment *model.Treatment) error
		GetTreatmentByRecord(ctx context.Context, recordID uuid.UUID) (*model.Treatment, error)

		CreateNote(ctx context.Context, note *model.PatientNote) error
		ListNotes(ctx context.Context, doctorID, patientID uuid.UUID, includePrivate bool) ([]*model.PatientNote, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)

		AddItem(ctx context.Context, item *model.PrescriptionItem) error
		DeleteItem(ctx context.Context, id uuid.UUID) error
		GetItem(ctx context.Context, id uuid.UUID) (*model.PrescriptionItem, error)
		ListItems(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error)

		GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
		ListMedicines(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error)
	}

	// BillingRepository persists bills, insurance and claims. The guarded
	// CreateBill and CreateClaim run their one-per-target existence check in
	// the same transaction as the insert.
	BillingRepository interface {
		CreateBill(ctx context.Context, bill *model.Bill) error
		GetBill(ctx context.Context, id uuid.UUID) (*model.Bill, error)
		UpdateBill(ctx context.Context, bill *model.Bill) error
		ListBillsByPatient(ctx context.Context, patientID uuid.UUID, status model.BillStatus) ([]*model.Bill, error)
		GetBillByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*model.Bill, error)

		CreateInsurance(ctx context.Context, insurance *model.Insurance) error
		GetInsurance(ctx context.Context, id uuid.UUID) (*model.Insurance, error)
		ListInsurancesByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Insurance, error)

		CreateClaim(ctx context.Context, claim *model.InsuranceClaim) error
		GetClaim(ctx context.Context, id uuid.UUID) (*model.InsuranceClaim, error)
		UpdateClaim(ctx context.Context, claim *model.InsuranceClaim) error
		ListClaimsByBill(ctx context.Context, billID uuid.UUID) ([]*model.InsuranceClaim, error)
	}

	ReferralRepository interface {
		Create(ctx context.Context, referral *model.Referral) error
		Get(ctx context.Context, id uuid.UUID) (*model.Referral, error)
		Update(ctx context.Context, referral *model.Referral) error
		ListOutgoing(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error)
		ListIncoming(ctx context.Context, doctorID uuid.UUID) ([]*model.Referral, error)
	}

	TaskRepository interface {
		Create(ctx context.Context, task *model.Task) error
		Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
		Update(ctx context.Context, task *model.Task) error
		Delete(ctx context.Context, id, doctorID uuid.UUID) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Task, error)
		ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*model.Task, error)
	}

	// AssignmentRepository persists nurse-to-doctor assignments. Create runs
	// the single-active-assignment check inside its transaction and reports
	// ErrDuplicate when the nurse already has an active assignment.
	AssignmentRepository interface {
		Create(ctx context.Context, assignment *model.NurseAssignment) error
		Get(ctx context.Context, id uuid.UUID) (*model.NurseAssignment, error)
		Update(ctx context.Context, assignment *model.NurseAssignment) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.NurseAssignment, error)
		GetActiveByNurse(ctx context.Context, nurseID uuid.UUID) (*model.NurseAssignment, error)
	}
)
