package routes

import (
	"net/http"
	"os"
	"strings"

	"podocare-backend/config"
	"podocare-backend/controllers"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the shared singletons the router wires into handlers. main
// constructs them once so the background scheduler works on the same
// instances.
type Deps struct {
	Limiter  *utils.RateLimitStore
	Identity *services.IdentityService
	Gateway  *services.GatewayClient
	Payments *services.PaymentService
	Notifier *services.NotificationService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(utils.RateLimitMiddleware(deps.Limiter, "general"))
	r.Use(utils.AuthGate(deps.Identity))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.AuthController{Identity: deps.Identity}
	paymentController := controllers.PaymentController{Gateway: deps.Gateway, Payments: deps.Payments}
	contactController := controllers.ContactController{Notifier: deps.Notifier}

	auth := r.Group("/auth")
	{
		auth.POST("/login", utils.RateLimitMiddleware(deps.Limiter, "login"), authController.Login)
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	{
		// Booking routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", utils.RateLimitMiddleware(deps.Limiter, "booking"), controllers.CreateAppointment)
			appointments.GET("/availability", controllers.GetAvailability)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/summary", controllers.GetAppointmentSummary)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointmentStatus)
		}

		// Price list routes
		priceList := api.Group("/services")
		{
			priceList.GET("", controllers.GetServices)
			priceList.POST("", controllers.CreateService)
			priceList.PUT("/:id", controllers.UpdateService)
			priceList.DELETE("/:id", controllers.DeleteService)
		}

		// Testimonial routes
		testimonials := api.Group("/testimonials")
		{
			testimonials.GET("", controllers.GetTestimonials)
			testimonials.POST("", utils.RateLimitMiddleware(deps.Limiter, "testimonials"), controllers.CreateTestimonial)
			testimonials.PUT("/:id/approve", controllers.ApproveTestimonial)
			testimonials.DELETE("/:id", controllers.DeleteTestimonial)
		}

		// Settings routes
		settings := api.Group("/settings")
		{
			settings.GET("/booking", controllers.GetBookingSettings)
			settings.PUT("/booking", controllers.UpdateBookingSettings)
			settings.GET("/payment", controllers.GetPaymentSettings)
			settings.PUT("/payment", controllers.UpdatePaymentSettings)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/initiate", paymentController.InitiatePayment)
			// Bare /status hits the handler's missing-reference 400
			payments.GET("/status", paymentController.GetPaymentStatus)
			payments.GET("/status/:ref", paymentController.GetPaymentStatus)
			payments.POST("/callback", paymentController.PaymentCallback)
		}

		api.POST("/contact", utils.RateLimitMiddleware(deps.Limiter, "email"), contactController.SendContactMessage)

		api.GET("/audit", controllers.GetAuditLog)
	}

	return r
}
