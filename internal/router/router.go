// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cvtravel/visa-backend/internal/config"
	"github.com/cvtravel/visa-backend/internal/handlers"
	"github.com/cvtravel/visa-backend/internal/middleware"
	"github.com/cvtravel/visa-backend/internal/services"
	"github.com/cvtravel/visa-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	gateway := services.NewStripeGateway(cfg)
	store, err := services.NewS3Store(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize document store")
	}
	mailer := services.NewSMTPMailer(cfg)

	applicationService := services.NewApplicationService(db, cfg, gateway, store, mailer)
	adminService := services.NewAdminService(db, cfg)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	paymentHandler := handlers.NewPaymentHandler(applicationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Service catalog
		v1.GET("/services", applicationHandler.GetServices)

		// Application routes
		applications := v1.Group("/applications")
		{
			applications.POST("/tourist", middleware.SubmitRateLimit(), applicationHandler.SubmitTourist)
			applications.POST("/agency", middleware.SubmitRateLimit(), applicationHandler.SubmitAgency)
			applications.GET("/:reference", applicationHandler.GetStatus)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/callback", paymentHandler.PaymentCallback)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/login", middleware.LoginRateLimit(), adminHandler.Login)

			protected := admin.Group("")
			protected.Use(middleware.AdminRequired())
			{
				protected.GET("/applications", adminHandler.GetApplications)
				protected.PUT("/applications/:id/status", adminHandler.UpdateApplicationStatus)
			}
		}
	}

	return r
}
