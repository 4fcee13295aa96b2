package main

import (
	"fmt"
	"log"
	"os"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/routes"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Appointment{},
		&models.Testimonial{},
		&models.BookingSettings{},
		&models.PaymentSettings{},
		&models.AuditLog{},
	)
	config.MigrateIndexes()
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	limiter := utils.NewRateLimitStore()
	identity := services.NewIdentityService(config.DB)
	gateway := services.NewGatewayClient()
	notifier := services.NewNotificationService()
	payments := services.NewPaymentService(config.DB, gateway, notifier)

	services.StartScheduler(limiter, payments)

	r := routes.SetupRouter(routes.Deps{
		Limiter:  limiter,
		Identity: identity,
		Gateway:  gateway,
		Payments: payments,
		Notifier: notifier,
	})
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
