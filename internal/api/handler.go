package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"car-rental/internal/auth"
	"car-rental/internal/service"
	"car-rental/internal/uploads"
	"car-rental/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	catalogService *service.CatalogService
	bookingService *service.BookingService
	adminService   *service.AdminService
	authenticator  *auth.Authenticator
	uploads        *uploads.Storage
	checks         map[string]ReadinessCheck
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
	adminService *service.AdminService,
	authenticator *auth.Authenticator,
	uploadStorage *uploads.Storage,
) *Handler {
	return &Handler{
		catalogService: catalogService,
		bookingService: bookingService,
		adminService:   adminService,
		authenticator:  authenticator,
		uploads:        uploadStorage,
		checks:         make(map[string]ReadinessCheck),
		logger:         util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency checked by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/uploads", h.uploads.Dir())

	api := router.Group("/api")
	{
		api.GET("/cars", h.listCars)
		api.GET("/cars/:id", h.getCar)
		api.POST("/cars/:id/quote", h.quoteCar)
		api.POST("/bookings", h.createBooking)
		api.GET("/bookings/:id/invoice", h.getInvoice)
	}

	api.POST("/admin/login", h.login)

	admin := api.Group("/admin", h.requireAdmin())
	{
		admin.GET("/cars", h.adminListCars)
		admin.POST("/cars", h.adminAddCar)
		admin.PUT("/cars/:id", h.adminUpdateCar)
		admin.DELETE("/cars/:id", h.adminDeleteCar)
		admin.PUT("/cars/:id/availability", h.adminSetAvailability)
		admin.POST("/cars/:id/images", h.adminUploadImages)
		admin.GET("/bookings", h.adminListBookings)
		admin.GET("/bookings/:id/invoice", h.adminGetInvoice)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck runs every registered check
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			failed[name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"checks": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, service.ValidationErrors{{Field: "id", Message: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

// requestIDMiddleware tags each request with an id, echoed in the response
// header and attached to the request-scoped logger.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		logger := util.GetLogger().With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(util.ContextWithLogger(c.Request.Context(), logger))
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
