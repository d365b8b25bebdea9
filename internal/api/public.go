package api

import (
	"net/http"

	"car-rental/internal/invoice"
	"car-rental/internal/models"
	"car-rental/internal/service"

	"github.com/gin-gonic/gin"
)

// QuoteRequest is the body of a price preview
type QuoteRequest struct {
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func (h *Handler) listCars(c *gin.Context) {
	cars, err := h.catalogService.ListCars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) getCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	car, err := h.catalogService.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) quoteCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	quote, err := h.bookingService.Quote(c.Request.Context(), id, req.PickupDate, req.ReturnDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// createBooking handles booking creation
func (h *Handler) createBooking(c *gin.Context) {
	var req service.CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// getInvoice renders the stored booking snapshot as HTML. The caller must
// supply the booking email; a mismatch looks the same as an unknown id.
func (h *Handler) getInvoice(c *gin.Context) {
	booking, err := h.bookingService.GetBookingForCustomer(c.Request.Context(), c.Param("id"), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	renderInvoice(c, booking)
}

func renderInvoice(c *gin.Context, booking *models.Booking) {
	doc, err := invoice.Render(*booking)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}
