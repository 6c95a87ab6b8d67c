package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/ratelimit"
)

type Server struct {
	config *ServerConfig
	router *gin.Engine
}

func NewServer(options ...ConfigOption) (*Server, error) {
	config := &ServerConfig{
		Port: "3000",
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return nil, err
		}
	}

	if config.Sensors == nil || config.Users == nil || config.Alerts == nil || config.Keys == nil {
		return nil, errors.New("server requires sensor, user, alert, and key stores")
	}
	if config.Limiter == nil {
		config.Limiter = ratelimit.NewRegistry()
	}

	server := &Server{
		config: config,
		router: gin.Default(),
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))
	s.router.Use(s.countRequests())

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Metrics endpoint
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Everything else sits behind the key gate and the tier limiter.
	api := s.router.Group("/", s.requireKey(), s.rateLimit())
	{
		api.GET("/data", s.handleGetData)

		api.GET("/sensors", s.handleGetSensor)
		api.POST("/sensors", s.handleCreateSensor)
		api.DELETE("/sensors", s.handleDeleteSensor)
		api.POST("/sensors/data", s.handleAddReading)
		api.GET("/sensors/data", s.handleReadingsRange)
		api.GET("/sensors/data/last", s.handleLastReading)
		api.GET("/sensors/status", s.handleSensorStatus)
		api.PUT("/sensors/status", s.handleSetSensorStatus)

		api.GET("/alerts", s.handleListAlerts)
		api.GET("/alerts/sensor", s.handleAlertSensor)
		api.POST("/alerts", s.handleCreateAlert)
		api.DELETE("/alerts", s.handleDeleteAlert)

		api.GET("/users", s.handleGetUser)
		api.POST("/users", s.handleCreateUser)
		api.PUT("/users", s.handleUpdateUser)
		api.DELETE("/users", s.handleDeleteUser)
		api.POST("/users/verify", s.handleVerifyPassword)
		api.PUT("/users/password", s.handleUpdatePassword)
		api.GET("/users/timezone", s.handleGetTimezone)
		api.PUT("/users/timezone", s.handleSetTimezone)

		api.GET("/users/sensors", s.handleUserSensors)
		api.POST("/users/sensors", s.handleAddUserSensor)
		api.DELETE("/users/sensors", s.handleRemoveUserSensor)
		api.GET("/users/sensors/count", s.handleUserSensorCount)
		api.GET("/users/alerts", s.handleUserAlerts)
		api.POST("/users/alerts", s.handleAddUserAlert)
		api.DELETE("/users/alerts", s.handleRemoveUserAlert)

		api.GET("/users/cards", s.handleGetCards)
		api.POST("/users/cards", s.handleAddCard)
		api.PUT("/users/cards", s.handleUpdateCard)
		api.DELETE("/users/cards", s.handleDeleteCard)
		api.GET("/users/cards/active", s.handleGetActiveCard)
		api.PUT("/users/cards/active", s.handleSetActiveCard)

		api.GET("/users/bills", s.handleGetBills)
		api.POST("/users/bills", s.handleAddBill)
		api.PUT("/users/bills", s.handleUpdateBill)
		api.DELETE("/users/bills", s.handleDeleteBill)

		api.GET("/users/alarm_recipients", s.handleGetAlarmRecipients)
		api.POST("/users/alarm_recipients", s.handleAddAlarmRecipient)
		api.DELETE("/users/alarm_recipients", s.handleDeleteAlarmRecipient)
		api.GET("/users/alarm_recipients/status", s.handleGetAlarmRecipientStatus)
		api.PUT("/users/alarm_recipients/status", s.handleSetAlarmRecipientStatus)
	}

	// Key administration is restricted to level-0 keys.
	admin := s.router.Group("/apikeys", s.requireKey(), s.rateLimit(), s.requireAdmin())
	{
		admin.GET("", s.handleGetKeyLevel)
		admin.POST("", s.handleAddKey)
		admin.PUT("", s.handleSetKeyLevel)
		admin.DELETE("", s.handleDeleteKey)
	}
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on port %s", s.config.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Close() error {
	if s.config.stores != nil {
		return s.config.stores.Close()
	}
	return nil
}
