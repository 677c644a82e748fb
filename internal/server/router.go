package server

import (
	"net/http"
	"time"

	"servicebook/internal/cache"
	"servicebook/internal/domain"
	"servicebook/internal/events"
	"servicebook/internal/middleware"
	"servicebook/internal/modules/admin"
	"servicebook/internal/modules/auth"
	"servicebook/internal/modules/availability"
	"servicebook/internal/modules/catalog"
	"servicebook/internal/modules/notification"
	"servicebook/internal/modules/payment"
	"servicebook/internal/modules/reporting"
	"servicebook/internal/modules/reservation"
	"servicebook/internal/modules/review"
	jwtsvc "servicebook/internal/pkg/jwt"
	"servicebook/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB             *gorm.DB
	JWT            *jwtsvc.Service
	Log            *zap.Logger
	Cache          cache.Cache
	CatalogTTL     time.Duration
	LoginLimiter   middleware.Limiter
	AllowedOrigins []string
	// Sinks receive every domain event alongside the websocket hub.
	Sinks []events.Publisher
}

type Server struct {
	Engine *gin.Engine
	Hub    *notification.Hub
}

// New builds the HTTP API under /api/v1.
func New(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}

	userRepo := repository.NewUserRepository(d.DB)
	professionalRepo := repository.NewProfessionalRepository(d.DB)
	catalogRepo := repository.NewCatalogRepository(d.DB)
	availabilityRepo := repository.NewAvailabilityRepository(d.DB)
	reservationRepo := repository.NewReservationRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)
	reportRepo := repository.NewReportRepository(d.DB)

	catalogService := catalog.NewService(catalogRepo, reportRepo, d.Cache, d.CatalogTTL, log)

	hub := notification.NewHub(professionalRepo, log.Named("ws"))
	publisher := events.NewFanout(log, append([]events.Publisher{hub, catalogService}, d.Sinks...)...)

	authService := auth.NewService(userRepo, professionalRepo, d.JWT, log)
	availabilityService := availability.NewService(availabilityRepo, log)
	reservationService := reservation.NewService(reservationRepo, catalogRepo, professionalRepo, publisher, log)
	paymentService := payment.NewService(paymentRepo, reservationRepo, publisher, log)
	reviewService := review.NewService(reviewRepo, reservationRepo, publisher, log)
	reportingService := reporting.NewService(reportRepo, reservationRepo, log)
	adminService := admin.NewService(userRepo, professionalRepo, reportingService, catalogService, log)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	availabilityHandler := availability.NewHandler(availabilityService)
	reservationHandler := reservation.NewHandler(reservationService)
	paymentHandler := payment.NewHandler(paymentService)
	reviewHandler := review.NewHandler(reviewService)
	reportingHandler := reporting.NewHandler(reportingService)
	adminHandler := admin.NewHandler(adminService)
	wsHandler := notification.NewHandler(hub, d.AllowedOrigins)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.ErrorLogger(log),
		middleware.CORS(d.AllowedOrigins),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		var loginGuard gin.HandlerFunc
		if d.LoginLimiter != nil {
			loginGuard = middleware.RateLimit("login", d.LoginLimiter, log)
		}
		authHandler.RegisterPublicRoutes(v1, loginGuard)
		catalogHandler.RegisterRoutes(v1, nil, nil)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			wsHandler.RegisterRoutes(protected)
		}

		client := v1.Group("")
		client.Use(middleware.JWTAuth(d.JWT), middleware.RequireRole(domain.RoleClient))
		{
			reservationHandler.RegisterRoutes(client, nil, nil)
			reviewHandler.RegisterRoutes(client, nil)
			reportingHandler.RegisterRoutes(client, nil, nil)
		}

		professional := v1.Group("/professional")
		professional.Use(middleware.JWTAuth(d.JWT), middleware.ProfessionalOnly())
		{
			availabilityHandler.RegisterRoutes(professional)
			catalogHandler.RegisterRoutes(nil, professional, nil)
			reservationHandler.RegisterRoutes(nil, professional, nil)
			reviewHandler.RegisterRoutes(nil, professional)
			reportingHandler.RegisterRoutes(nil, professional, nil)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(d.JWT), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			catalogHandler.RegisterRoutes(nil, nil, adminGroup)
			reservationHandler.RegisterRoutes(nil, nil, adminGroup)
			paymentHandler.RegisterAdminRoutes(adminGroup)
			reportingHandler.RegisterRoutes(nil, nil, adminGroup)
		}
	}

	return &Server{Engine: r, Hub: hub}
}
