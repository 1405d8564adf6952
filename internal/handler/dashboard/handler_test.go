package dashboard

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careloop/clinic-api/internal/config"
	"github.com/careloop/clinic-api/internal/email"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/repository"
	"github.com/careloop/clinic-api/internal/service/appointment"
	"github.com/careloop/clinic-api/internal/service/billing"
	"github.com/careloop/clinic-api/internal/service/prescription"
	"github.com/careloop/clinic-api/pkg/logger"
	"github.com/careloop/clinic-api/pkg/messaging"
)

type stubAppointmentRepo struct {
	repository.AppointmentRepository
}

func (s *stubAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return []*model.Appointment{}, nil
}

type stubPrescriptionRepo struct {
	repository.PrescriptionRepository
	prescriptions []*model.Prescription
}

func (s *stubPrescriptionRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	return s.prescriptions, nil
}

type stubBillingRepo struct {
	repository.BillingRepository
}

func (s *stubBillingRepo) ListBillsByPatient(ctx context.Context, patientID uuid.UUID, status model.BillStatus) ([]*model.Bill, error) {
	return []*model.Bill{}, nil
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// Patient dashboard filters prescriptions against the handler's clock, not
// the wall clock.
func TestPatientDashboardPrescriptionFiltering(t *testing.T) {
	gin.SetMode(gin.TestMode)

	freshExpiry := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	staleExpiry := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fresh := &model.Prescription{Base: model.NewBase(), IsActive: true, ExpiryDate: &freshExpiry}
	stale := &model.Prescription{Base: model.NewBase(), IsActive: true, ExpiryDate: &staleExpiry}

	log := logger.NewLogger(nil)
	appointments := appointment.NewService(&stubAppointmentRepo{}, nil, nil, nil, email.NewService(config.EmailConfig{}, log), messaging.NoopBroker{}, log)
	prescriptions := prescription.NewService(&stubPrescriptionRepo{prescriptions: []*model.Prescription{fresh, stale}}, nil, nil)
	bills := billing.NewService(&stubBillingRepo{}, nil, nil, nil)

	h := NewHandler(appointments, nil, bills, prescriptions, nil)
	h.clock = func() time.Time { return now }

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/dashboard/patient", nil)
	c.Set(middleware.ContextPrincipal, &model.Principal{Role: model.RolePatient, ProfileID: uuid.New()})

	h.Patient(c)
	require.Equal(t, 200, rec.Code)

	var body struct {
		Data struct {
			Active []*model.Prescription `json:"active_prescriptions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Active, 1)
	assert.Equal(t, fresh.ID, body.Data.Active[0].ID)
}
