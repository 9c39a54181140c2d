package server

import (
	"context"
	"net/http"

	"paygo/internal/auth"
	"paygo/internal/booking"
	"paygo/internal/center"
	"paygo/internal/config"
	"paygo/internal/notify"
	"paygo/internal/user"
	"paygo/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	notify     *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	walletRepo := wallet.NewRepository(db)

	userHandler := user.NewHandler(db, walletRepo, cfg.JWTSecret)
	centerHandler := center.NewHandler(db)
	bookingHandler := booking.NewHandler(db, notifyService)
	walletHandler := wallet.NewHandler(db)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/centers", centerHandler.ListCenters)
		protected.GET("/centers/:centerID", centerHandler.GetCenter)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListBookings)
		protected.GET("/bookings/:bookingCode", bookingHandler.GetBooking)
		protected.POST("/bookings/:bookingCode/cancel", bookingHandler.CancelBooking)
		protected.GET("/bookings/:bookingCode/checkin", bookingHandler.GetCheckInWindow)
		protected.POST("/bookings/:bookingCode/checkin", bookingHandler.CheckIn)
		protected.POST("/bookings/:bookingCode/checkin/simulate", bookingHandler.SimulateCheckIn)

		protected.GET("/wallet/balance", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/wallet/recharge", walletHandler.ConfirmRecharge)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/centers", centerHandler.CreateCenter)
		admin.GET("/centers/:centerID/qr", centerHandler.GetQRPayload)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
