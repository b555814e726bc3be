package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/electrify/backend/internal/config"
	"github.com/emilythestrangee/electrify/backend/internal/database"
	"github.com/emilythestrangee/electrify/backend/internal/handlers"
	"github.com/emilythestrangee/electrify/backend/internal/middleware"
	"github.com/emilythestrangee/electrify/backend/internal/notify"
	"github.com/emilythestrangee/electrify/backend/internal/storage"
)

type Server struct {
	cfg     *config.Config
	db      *database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config) (*http.Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		notifier = notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	}

	uploader := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(db.DB(), cfg, notifier, uploader),
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)

	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	auth := middleware.AuthMiddleware(s.cfg.JWTSecret)

	api := r.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", s.handler.Auth.Register)
			users.POST("/login", s.handler.Auth.Login)
			users.POST("/verify-email", s.handler.Auth.VerifyEmail)
			users.POST("/resend-verification-code", s.handler.Auth.ResendVerification)
			users.GET("/current-user", auth, s.handler.Auth.GetMe)
		}

		// Contest routes
		contests := api.Group("/contests")
		{
			// Public reads and voting
			contests.GET("/published", s.handler.Contest.GetPublishedContests)
			contests.GET("/:contestId", s.handler.Contest.GetContest)
			contests.GET("/:contestId/contestants", s.handler.Contest.GetContestants)
			contests.GET("/:contestId/results", s.handler.Contest.GetResults)
			contests.POST("/:contestId/vote", middleware.VoterKeyMiddleware(), s.handler.Vote.CastVote)

			// Owner operations (authentication required)
			contests.GET("/all", auth, s.handler.Contest.GetMyContests)
			contests.POST("", auth, s.handler.Contest.CreateContest)
			contests.POST("/:contestId/contestants", auth, s.handler.Contest.AttachContestants)
			contests.PATCH("/:contestId/publish", auth, s.handler.Contest.SetPublished)
			contests.DELETE("/:contestId", auth, s.handler.Contest.DeleteContest)
		}

		// Asset uploads (authentication required)
		api.POST("/uploads", auth, s.handler.Upload.Upload)
	}

	return r
}
