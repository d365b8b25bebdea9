package api

import (
	"fmt"
	"net/http"
	"strings"

	"car-rental/internal/auth"
	"car-rental/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "adminClaims"

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// requireAdmin rejects requests without a valid admin bearer token
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.authenticator.RequireRole(c.GetHeader("Authorization"), auth.RoleAdmin)
		if err != nil {
			h.logger.Debug("Admin request rejected", zap.String("path", c.FullPath()), zap.Error(err))
			respondError(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	token, expiresAt, err := h.authenticator.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Admin login failed", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Unix(),
	})
}

func (h *Handler) adminListCars(c *gin.Context) {
	cars, err := h.adminService.ListCars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) adminAddCar(c *gin.Context) {
	var input service.CarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestBody(c, err)
		return
	}

	car, err := h.adminService.AddCar(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *Handler) adminUpdateCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var update service.CarUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequestBody(c, err)
		return
	}

	car, err := h.adminService.UpdateCar(c.Request.Context(), id, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) adminDeleteCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteCar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("Car deleted by admin", zap.String("admin", adminSubject(c)), zap.Int64("car_id", id))
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminSetAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var update service.AvailabilityUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequestBody(c, err)
		return
	}

	car, err := h.adminService.SetAvailability(c.Request.Context(), id, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// adminUploadImages stores the "images" parts of a multipart form and
// attaches them to the car. Files are removed again if attaching fails.
func (h *Handler) adminUploadImages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	exists, err := h.adminService.CarExists(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, fmt.Errorf("%w: id=%d", service.ErrCarNotFound, id))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequestBody(c, err)
		return
	}
	files := append(form.File["images"], form.File["image"]...)
	if len(files) == 0 {
		respondError(c, service.ValidationErrors{{Field: "images", Message: "at least one image is required"}})
		return
	}

	stored := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := h.uploads.SaveFile(fh)
		if err != nil {
			h.uploads.Remove(stored...)
			respondError(c, err)
			return
		}
		stored = append(stored, name)
	}

	car, err := h.adminService.AttachImages(c.Request.Context(), id, stored)
	if err != nil {
		h.uploads.Remove(stored...)
		respondError(c, err)
		return
	}
	h.logger.Info("Images uploaded by admin", zap.String("admin", adminSubject(c)), zap.Int64("car_id", id), zap.Strings("files", stored))
	c.JSON(http.StatusOK, car)
}

func (h *Handler) adminListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) adminGetInvoice(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	renderInvoice(c, booking)
}

// adminSubject returns the token subject set by requireAdmin
func adminSubject(c *gin.Context) string {
	v, ok := c.Get(claimsKey)
	if !ok {
		return ""
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return ""
	}
	return strings.TrimSpace(claims.Subject)
}
