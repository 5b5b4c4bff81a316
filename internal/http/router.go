package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/config"
	"github.com/nirgunrohan/LMS/internal/http/handlers"
	"github.com/nirgunrohan/LMS/internal/http/middleware"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/services"
	"github.com/nirgunrohan/LMS/internal/token"
)

type Dependencies struct {
	Config           *config.Config
	UserRepo         *repo.UserRepo
	AuthService      *services.AuthService
	OrderService     *services.OrderService
	ComplaintService *services.ComplaintService
	Tokens           *token.Issuer
	Logger           *slog.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(deps.AuthService, handlers.CookieConfig{
		Secure: deps.Config.Env == "prod",
		MaxAge: int(deps.Config.RefreshTTL.Seconds()),
	})
	orderHandler := handlers.NewOrderHandler(deps.OrderService, deps.AuthService)
	complaintHandler := handlers.NewComplaintHandler(deps.ComplaintService, deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserRepo)

	router.GET("/healthz", handlers.Health)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/reset-password/request", authHandler.ResetRequest)
		auth.POST("/reset-password/confirm", authHandler.ResetConfirm)
	}

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(deps.Tokens))
	{
		authed.GET("/auth/verify", authHandler.Verify)
		authed.POST("/auth/2fa/setup", authHandler.TwoFactorSetup)
		authed.POST("/auth/2fa/verify", authHandler.TwoFactorVerify)

		authed.GET("/orders", orderHandler.List)
		authed.POST("/orders", orderHandler.Create)
		authed.GET("/orders/user", orderHandler.ListOwn)

		authed.GET("/complaints", complaintHandler.List)
		authed.POST("/complaints", complaintHandler.Create)
		authed.GET("/complaints/user", complaintHandler.ListOwn)
	}

	admin := api.Group("")
	admin.Use(middleware.JWTAuth(deps.Tokens), middleware.RequireAdmin())
	{
		admin.PATCH("/orders/:id", orderHandler.UpdateStatus)
		admin.DELETE("/orders/:id", orderHandler.Delete)
		admin.PATCH("/complaints/:id", complaintHandler.UpdateStatus)
		admin.GET("/users", userHandler.List)
	}

	return router
}
