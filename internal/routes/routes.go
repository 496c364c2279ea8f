package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	ucDirectory "github.com/BruksfildServices01/booking-engine/internal/usecase/directory"
)

// Store is everything the HTTP surface persists through. Both the gorm
// store and the in-memory store satisfy it.
type Store interface {
	domain.Repository
	resource.Repository
	conflict.Store
	audit.Store
}

type Deps struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  Store
	Audit  *audit.Dispatcher
	Events notify.Publisher

	// Redis enables the availability cache and shared idempotency keys.
	Redis *redis.Client

	// Now is overridden by tests.
	Now func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	if d.Now == nil {
		d.Now = time.Now
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	detector := conflict.NewDetector(d.Store)
	step := cfg.SlotGranularity()

	var (
		serviceSlots ucAvailability.ServiceSlotFinder = ucAvailability.NewGetServiceSlots(d.Store, d.Store, detector, step)
		invalidator  ucAppointment.AvailabilityInvalidator
		idempotency  middleware.IdempotencyStore = middleware.NewMemoryIdempotency()
	)
	if d.Redis != nil {
		cached := cache.NewServiceSlots(serviceSlots, d.Redis, cfg.AvailabilityCacheTTL, d.Log)
		serviceSlots = cached
		invalidator = cached
		idempotency = cache.NewIdempotency(d.Redis, cfg.IdempotencyTTL)
	}

	// ======================================================
	// USE CASES
	// ======================================================
	appointmentDeps := ucAppointment.Deps{
		Appointments: d.Store,
		Resources:    d.Store,
		Detector:     detector,
		Audit:        d.Audit,
		Cache:        invalidator,
		Events:       d.Events,
		Log:          d.Log,
		Now:          d.Now,
	}

	bookUC := ucAppointment.NewBookAppointment(appointmentDeps)

	dir := ucDirectory.NewManager(ucDirectory.Deps{
		Businesses:  d.Store,
		Resources:   d.Store,
		Audit:       d.Audit,
		Cache:       invalidator,
		HorizonDays: cfg.SearchHorizonDays,
		Log:         d.Log,
		Now:         d.Now,
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(d.Store, dir, serviceSlots, bookUC, d.Now, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		d.Store,
		bookUC,
		ucAppointment.NewChangeStatus(appointmentDeps),
		ucAppointment.NewCancelAppointment(appointmentDeps),
		ucAppointment.NewListAppointments(d.Store),
		ucAppointment.NewGetAppointment(d.Store),
		d.Log,
	)

	resourceHandler := handlers.NewResourceHandler(
		d.Store,
		dir,
		detector,
		ucAvailability.NewGetResourceSlots(d.Store, d.Store, detector, step),
		ucAvailability.NewGetNextAvailableSlot(d.Store, d.Store, detector, step, cfg.SearchHorizonDays),
		ucAvailability.NewGetUtilization(d.Store, d.Store, detector),
		d.Log,
	)

	serviceHandler := handlers.NewServiceHandler(d.Store, dir, serviceSlots, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Store, d.Store, d.Log)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		publicAPI.Use(limiter.Middleware(d.Log))
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments",
				middleware.Idempotency(idempotency, d.Log),
				publicHandler.CreateAppointment,
			)
		}

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.POST("/resources", resourceHandler.Create)
			secured.GET("/resources", resourceHandler.List)
			secured.GET("/resources/:id", resourceHandler.Get)
			secured.PATCH("/resources/:id", resourceHandler.Update)

			secured.POST("/resources/:id/schedules", resourceHandler.AddSchedule)
			secured.GET("/resources/:id/schedules", resourceHandler.ListSchedules)
			secured.POST("/resources/:id/blocks", resourceHandler.AddBlock)
			secured.DELETE("/resources/:id/blocks/:blockId", resourceHandler.DeleteBlock)

			secured.GET("/resources/:id/availability", resourceHandler.Availability)
			secured.GET("/resources/:id/next-slot", resourceHandler.NextSlot)
			secured.GET("/resources/:id/utilization", resourceHandler.Utilization)
			secured.GET("/resources/:id/conflicts", resourceHandler.Conflicts)

			secured.POST("/services", serviceHandler.Create)
			secured.GET("/services", serviceHandler.List)
			secured.GET("/services/:id", serviceHandler.Get)
			secured.POST("/services/:id/requirements", serviceHandler.AddRequirement)
			secured.GET("/services/:id/requirements", serviceHandler.ListRequirements)
			secured.GET("/services/:id/availability", serviceHandler.Availability)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments",
				middleware.Idempotency(idempotency, d.Log),
				appointmentHandler.Create,
			)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
