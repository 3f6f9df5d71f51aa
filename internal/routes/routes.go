package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	"github.com/salonsuite/salon-scheduler/internal/cache"
	"github.com/salonsuite/salon-scheduler/internal/config"
	"github.com/salonsuite/salon-scheduler/internal/handlers"
	infraRepo "github.com/salonsuite/salon-scheduler/internal/infra/repository"
	"github.com/salonsuite/salon-scheduler/internal/middleware"
	"github.com/salonsuite/salon-scheduler/internal/storage"
	ucAppointment "github.com/salonsuite/salon-scheduler/internal/usecase/appointment"
	ucCascade "github.com/salonsuite/salon-scheduler/internal/usecase/cascade"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availabilityCache := cache.NewAvailability(cfg.RedisAddr, cfg.AvailabilityCacheTTL)
	objectStore := storage.New(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	historySync := ucAppointment.NewHistorySync(scheduleRepo)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		scheduleRepo,
		auditDispatcher,
		cfg.MaxConcurrent,
	)

	editAppointmentUC := ucAppointment.NewEditAppointment(
		scheduleRepo,
		historySync,
		auditDispatcher,
		cfg.MaxConcurrent,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		scheduleRepo,
		historySync,
		auditDispatcher,
		cfg.MaxConcurrent,
	)

	setStatusUC := ucAppointment.NewSetStatus(
		scheduleRepo,
		historySync,
		auditDispatcher,
		nil,
	)

	setConfirmationUC := ucAppointment.NewSetConfirmation(
		scheduleRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		scheduleRepo,
		auditDispatcher,
	)

	getAvailabilityUC := ucAppointment.NewGetAvailability(
		scheduleRepo,
		availabilityCache,
		cfg.MaxConcurrent,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(scheduleRepo)

	cascadeDeleteUC := ucCascade.NewDelete(
		scheduleRepo,
		scheduleRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(db, cascadeDeleteUC)
	serviceHandler := handlers.NewServiceHandler(db, cascadeDeleteUC)
	staffHandler := handlers.NewStaffHandler(db, cfg, cascadeDeleteUC, objectStore)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, availabilityCache)
	blockoutHandler := handlers.NewBlockoutHandler(db, cfg, availabilityCache)

	appointmentHandler := handlers.NewAppointmentHandler(
		cfg,
		createAppointmentUC,
		editAppointmentUC,
		rescheduleAppointmentUC,
		setStatusUC,
		setConfirmationUC,
		deleteAppointmentUC,
		getAvailabilityUC,
		listAppointmentsUC,
		availabilityCache,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CLIENTS
			// ------------------------------
			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.POST("/clients", clientHandler.Create)
			secured.PATCH("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", middleware.RequireAdmin(), clientHandler.Delete)
			secured.GET("/clients/:id/history", clientHandler.History)

			// ------------------------------
			// SERVICES
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", middleware.RequireAdmin(), serviceHandler.Create)
			secured.PATCH("/services/:id", middleware.RequireAdmin(), serviceHandler.Update)
			secured.DELETE("/services/:id", middleware.RequireAdmin(), serviceHandler.Delete)

			// ------------------------------
			// STAFF
			// ------------------------------
			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", middleware.RequireAdmin(), staffHandler.Create)
			secured.PATCH("/staff/:id", middleware.RequireAdmin(), staffHandler.Update)
			secured.DELETE("/staff/:id", middleware.RequireAdmin(), staffHandler.Delete)
			secured.POST("/staff/:id/photo", middleware.RequireAdmin(), staffHandler.UploadPhoto)

			secured.GET("/staff/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/staff/:id/working-hours", workingHoursHandler.Update)

			secured.GET("/staff/:id/blockouts", blockoutHandler.List)
			secured.POST("/staff/:id/blockouts", blockoutHandler.Create)
			secured.PATCH("/staff/:id/blockouts/:blockoutId", blockoutHandler.Update)
			secured.DELETE("/staff/:id/blockouts/:blockoutId", blockoutHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/availability", appointmentHandler.Availability)
			secured.PATCH("/appointments/:id", appointmentHandler.Edit)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)
			secured.PATCH("/appointments/:id/confirmation", appointmentHandler.SetConfirmation)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// AUDIT
			// ------------------------------
			secured.GET("/audit-logs", middleware.RequireAdmin(), auditLogsHandler.List)
		}
	}
}
