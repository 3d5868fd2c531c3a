package handler

import (
	"task-manager/config"
	"task-manager/controller"
	_ "task-manager/docs" // Import for swagger docs
	"task-manager/pkg/logger"
	"task-manager/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes registers all HTTP routes and middleware
func RegisterRoutes(
	e *echo.Echo,
	apiKeyController *controller.APIKeyController,
	otpController *controller.OTPController,
	userController *controller.UserController,
	taskController *controller.TaskController,
	healthController *controller.HealthController,
	apiKeyService service.APIKeyService,
	cfg *config.Config,
	logger *logger.Logger,
) {
	// Add common middleware
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware())
	e.Use(RequestLoggerMiddleware(logger))
	e.Use(APIKeyMiddleware(apiKeyService, logger))

	// System endpoints
	e.GET("/health", healthController.HealthCheck)
	e.GET("/", healthController.ServiceInfo)

	// Swagger documentation
	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/api/v1")

	// API key routes; creation is the public bootstrap path
	authGroup := v1.Group("/auth")
	authGroup.POST("/api-keys", apiKeyController.Create)
	authGroup.GET("/api-keys", apiKeyController.List)
	authGroup.DELETE("/api-keys/:id", apiKeyController.Deactivate)

	// User routes (protected)
	userGroup := v1.Group("/users")
	userGroup.POST("/send_otp", otpController.SendOTP)
	userGroup.POST("/verify_phone", otpController.VerifyPhone)
	userGroup.POST("/register", userController.Register)
	userGroup.POST("/login", userController.Login)
	userGroup.GET("", userController.List)
	userGroup.GET("/:id", userController.Get)
	userGroup.PUT("/:id", userController.Update)
	userGroup.DELETE("/:id", userController.Delete)

	// Task routes (protected)
	taskGroup := v1.Group("/tasks")
	taskGroup.POST("", taskController.Create)
	taskGroup.GET("", taskController.List)
	taskGroup.GET("/:id", taskController.Get)
	taskGroup.PUT("/:id", taskController.Update)
	taskGroup.DELETE("/:id", taskController.Delete)
	taskGroup.PATCH("/:id/complete", taskController.Complete)
	taskGroup.GET("/stats/summary", taskController.Stats)
	taskGroup.GET("/overdue/list", taskController.Overdue)
	taskGroup.GET("/priority/:priority", taskController.ByPriority)
	taskGroup.GET("/status/:status", taskController.ByStatus)
	taskGroup.GET("/today/list", taskController.Today)
}
