package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/careloop/clinic-api/internal/handler"
	appointmentHandler "github.com/careloop/clinic-api/internal/handler/appointment"
	authHandler "github.com/careloop/clinic-api/internal/handler/auth"
	billingHandler "github.com/careloop/clinic-api/internal/handler/billing"
	careteamHandler "github.com/careloop/clinic-api/internal/handler/careteam"
	dashboardHandler "github.com/careloop/clinic-api/internal/handler/dashboard"
	doctorHandler "github.com/careloop/clinic-api/internal/handler/doctor"
	prescriptionHandler "github.com/careloop/clinic-api/internal/handler/prescription"
	recordHandler "github.com/careloop/clinic-api/internal/handler/record"
	referralHandler "github.com/careloop/clinic-api/internal/handler/referral"
	scheduleHandler "github.com/careloop/clinic-api/internal/handler/schedule"
	taskHandler "github.com/careloop/clinic-api/internal/handler/task"
	"github.com/careloop/clinic-api/internal/middleware"
	"github.com/careloop/clinic-api/internal/model"
	"github.com/careloop/clinic-api/internal/service/authz"
	"github.com/careloop/clinic-api/pkg/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *authHandler.Handler
	Appointment  *appointmentHandler.Handler
	Schedule     *scheduleHandler.Handler
	Record       *recordHandler.Handler
	Prescription *prescriptionHandler.Handler
	Billing      *billingHandler.Handler
	Referral     *referralHandler.Handler
	Task         *taskHandler.Handler
	Careteam     *careteamHandler.Handler
	Doctor       *doctorHandler.Handler
	Dashboard    *dashboardHandler.Handler
}

type Config struct {
	RateLimit int
	CacheTTL  time.Duration
}

// New assembles the engine: ambient middleware, public routes, and the
// authenticated API grouped by capability.
func New(h Handlers, auth *middleware.AuthMiddleware, db *sqlx.DB, cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
		middleware.CORS(),
	)
	if cfg.RateLimit > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}
	engine.NoRoute(middleware.NotFoundHandler())

	engine.GET("/health", handler.Health(db))
	engine.GET("/metrics", metrics.Handler())

	api := engine.Group("/api/v1")
	cache := middleware.NewResponseCache(cfg.CacheTTL)

	// Public
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/doctors", cache.Cache(), h.Doctor.Search)
	api.GET("/doctors/:id", h.Doctor.Get)
	// Availability is always recomputed from the store, never cached.
	api.GET("/doctors/:id/availability", h.Schedule.Availability)

	authed := api.Group("", auth.Authenticate())

	// Patient
	authed.POST("/appointments", auth.RequireAction(authz.ActionBookAppointment), h.Appointment.Book)
	authed.GET("/appointments", auth.RequireRole(model.RolePatient), h.Appointment.ListMine)
	authed.GET("/appointments/:id", h.Appointment.Get)
	authed.POST("/appointments/:id/cancel", auth.RequireAction(authz.ActionCancelAppointment), h.Appointment.Cancel)
	authed.GET("/records", auth.RequireRole(model.RolePatient), h.Record.ListMine)
	authed.GET("/prescriptions", auth.RequireRole(model.RolePatient), h.Prescription.ListMine)
	authed.GET("/bills", auth.RequireRole(model.RolePatient), h.Billing.ListMine)
	authed.GET("/bills/:id", h.Billing.Get)
	authed.POST("/bills/:id/pay", auth.RequireAction(authz.ActionPayBill), h.Billing.Pay)
	authed.POST("/insurances", auth.RequireAction(authz.ActionManageInsurance), h.Billing.CreateInsurance)
	authed.GET("/insurances", auth.RequireRole(model.RolePatient), h.Billing.ListInsurances)
	authed.POST("/bills/:id/claims", auth.RequireRole(model.RolePatient), h.Billing.SubmitClaim)
	authed.GET("/bills/:id/claims", h.Billing.ListClaims)
	authed.GET("/dashboard/patient", auth.RequireRole(model.RolePatient), h.Dashboard.Patient)

	// Doctor calendar
	doctor := authed.Group("/doctor", auth.RequireAction(authz.ActionManageSchedule))
	doctor.POST("/schedules", h.Schedule.AddSchedule)
	doctor.GET("/schedules", h.Schedule.ListSchedules)
	doctor.DELETE("/schedules/:id", h.Schedule.DeleteSchedule)
	doctor.POST("/slots", h.Schedule.AddDateSlot)
	doctor.GET("/slots", h.Schedule.ListDateSlots)
	doctor.DELETE("/slots/:id", h.Schedule.DeleteDateSlot)
	doctor.POST("/leaves", h.Schedule.RequestLeave)
	doctor.GET("/leaves", h.Schedule.ListLeaves)
	doctor.DELETE("/leaves/:id", h.Schedule.CancelLeave)

	// Doctor-scoped clinical work, delegable to an assigned nurse
	clinical := authed.Group("", auth.RequireAction(authz.ActionResolveAppointment))
	clinical.GET("/doctor/appointments", h.Appointment.ListForDoctor)
	clinical.POST("/appointments/:id/complete", h.Appointment.Complete)
	clinical.POST("/appointments/:id/no-show", h.Appointment.NoShow)
	clinical.GET("/dashboard/doctor", h.Dashboard.Doctor)
	clinical.GET("/patients", h.Appointment.Patients)
	clinical.GET("/patients/:id/notes", h.Record.ListNotes)

	// Doctor-only clinical writes
	writes := authed.Group("", auth.RequireRole(model.RoleDoctor))
	writes.POST("/appointments/:id/records", h.Record.Create)
	writes.PUT("/records/:id", h.Record.Update)
	writes.GET("/doctor/records", h.Record.ListAuthored)
	writes.POST("/notes", h.Record.CreateNote)
	writes.POST("/prescriptions", h.Prescription.Create)
	writes.GET("/doctor/prescriptions", h.Prescription.ListAuthored)
	writes.POST("/prescriptions/:id/items", h.Prescription.AddItem)
	writes.DELETE("/prescriptions/:id/items/:itemID", h.Prescription.RemoveItem)
	writes.POST("/prescriptions/:id/deactivate", h.Prescription.Deactivate)
	writes.POST("/referrals", h.Referral.Create)
	writes.GET("/referrals/outgoing", h.Referral.ListOutgoing)
	writes.GET("/referrals/incoming", h.Referral.ListIncoming)
	writes.POST("/referrals/:id/respond", h.Referral.Respond)
	writes.POST("/referrals/:id/complete", h.Referral.Complete)
	writes.POST("/tasks", h.Task.Create)
	writes.GET("/tasks/created", h.Task.ListCreated)
	writes.DELETE("/tasks/:id", h.Task.Delete)
	writes.POST("/careteam/assignments", h.Careteam.Assign)
	writes.GET("/careteam/assignments", h.Careteam.List)
	writes.POST("/careteam/assignments/:id/end", h.Careteam.End)

	// Records: owner-scoped read
	authed.GET("/records/:id", h.Record.Get)
	authed.GET("/records/:id/treatment", h.Record.Treatment)
	authed.GET("/prescriptions/:id", h.Prescription.Get)

	// Task work queue for nurses and lab technicians
	work := authed.Group("", auth.RequireAction(authz.ActionWorkTasks))
	work.GET("/tasks/assigned", h.Task.ListAssigned)

	// Status updates allow both the assignee and the owning doctor; the
	// service picks the path by role.
	authed.POST("/tasks/:id/status", h.Task.UpdateStatus)

	// Nurse delegation
	authed.GET("/careteam/acting-doctor", auth.RequireAction(authz.ActionActForDoctor), h.Careteam.ActingDoctor)

	// Billing operators
	billing := authed.Group("", auth.RequireAction(authz.ActionGenerateBill))
	billing.POST("/prescriptions/:id/bill", h.Billing.GenerateForPrescription)
	billing.GET("/prescriptions/:id/bill/estimate", h.Billing.Estimate)
	billing.POST("/appointments/:id/bill", h.Billing.GenerateForAppointment)
	billing.POST("/bills/:id/cancel", h.Billing.Cancel)

	// Insurer claim processing
	authed.POST("/claims/:id/advance", auth.RequireAction(authz.ActionProcessClaim), h.Billing.AdvanceClaim)

	// Leave approval queue
	admin := authed.Group("/admin", auth.RequireAction(authz.ActionApproveLeave))
	admin.GET("/leaves/pending", h.Schedule.ListPendingLeaves)
	admin.POST("/leaves/:id/resolve", h.Schedule.ResolveLeave)

	// Inventory, cached: stock changes are slow relative to reads
	inventory := authed.Group("/medicines", auth.RequireAction(authz.ActionViewInventory))
	inventory.GET("", cache.Cache(), h.Prescription.ListMedicines)
	inventory.GET("/:id", h.Prescription.GetMedicine)

	return engine
}
