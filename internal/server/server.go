package server

import (
	"context"
	"net/http"

	"github.com/BasharSaadi/fitness-club-project/internal/auth"
	"github.com/BasharSaadi/fitness-club-project/internal/class"
	"github.com/BasharSaadi/fitness-club-project/internal/config"
	"github.com/BasharSaadi/fitness-club-project/internal/health"
	"github.com/BasharSaadi/fitness-club-project/internal/notify"
	"github.com/BasharSaadi/fitness-club-project/internal/room"
	"github.com/BasharSaadi/fitness-club-project/internal/session"
	"github.com/BasharSaadi/fitness-club-project/internal/trainer"
	"github.com/BasharSaadi/fitness-club-project/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, mail *notify.Service) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userRepo := user.NewRepository(db)
	roomRepo := room.NewRepository(db)
	trainerRepo := trainer.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	classRepo := class.NewRepository(db)
	healthRepo := health.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	roomService := room.NewService(roomRepo)
	trainerService := trainer.NewService(trainerRepo)
	sessionService := session.NewService(sessionRepo, userRepo, mail)
	classService := class.NewService(classRepo, roomRepo, userRepo, mail)
	healthService := health.NewService(healthRepo, userRepo, mail)

	userHandler := user.NewHandler(userService)
	roomHandler := room.NewHandler(roomService)
	trainerHandler := trainer.NewHandler(trainerService)
	sessionHandler := session.NewHandler(sessionService)
	classHandler := class.NewHandler(classService)
	healthHandler := health.NewHandler(healthService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTAccessSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PUT("/me", userHandler.UpdateMe)
		protected.GET("/trainers", userHandler.ListTrainers)

		protected.GET("/rooms", roomHandler.ListRooms)

		protected.POST("/sessions", sessionHandler.Book)
		protected.GET("/sessions", sessionHandler.List)
		protected.POST("/sessions/:sessionID/cancel", sessionHandler.Cancel)
		protected.POST("/sessions/:sessionID/reschedule", sessionHandler.Reschedule)

		protected.GET("/classes", classHandler.List)
		protected.POST("/classes/:classID/register", classHandler.Register)
		protected.GET("/registrations", classHandler.ListRegistrations)
		protected.POST("/registrations/:registrationID/cancel", classHandler.CancelRegistration)

		protected.POST("/health-metrics", healthHandler.LogMetric)
		protected.GET("/health-metrics", healthHandler.ListMetrics)
		protected.POST("/goals", healthHandler.CreateGoal)
		protected.GET("/goals", healthHandler.ListGoals)
		protected.PATCH("/goals/:goalID", healthHandler.UpdateGoal)
		protected.GET("/dashboard", healthHandler.GetDashboard)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/users", userHandler.CreateStaff)
		admin.GET("/members", userHandler.SearchMembers)

		admin.POST("/rooms", roomHandler.CreateRoom)
		admin.POST("/rooms/:roomID/bookings", roomHandler.BookRoom)
		admin.GET("/rooms/:roomID/bookings", roomHandler.ListBookings)
		admin.POST("/bookings/:bookingID/cancel", roomHandler.CancelBooking)

		admin.POST("/classes", classHandler.Create)
		admin.POST("/classes/:classID/cancel", classHandler.CancelClass)
	}

	trainerGroup := router.Group("/trainer")
	trainerGroup.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer, auth.RoleAdmin))
	{
		trainerGroup.POST("/availability", trainerHandler.AddAvailability)
		trainerGroup.GET("/availability", trainerHandler.ListAvailability)
		trainerGroup.DELETE("/availability/:availabilityID", trainerHandler.DeleteAvailability)
		trainerGroup.GET("/schedule", trainerHandler.GetSchedule)
		trainerGroup.POST("/registrations/:registrationID/attendance", classHandler.MarkAttendance)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
