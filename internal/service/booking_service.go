package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"car-rental/internal/models"
	"car-rental/internal/pricing"
	"car-rental/internal/store"
	"car-rental/internal/util"

	"go.uber.org/zap"
)

const defaultNotifyTimeout = 15 * time.Second

// errReplayed aborts an Update without writing when the key was already used
var errReplayed = errors.New("idempotency key already used")

// Notifier delivers a confirmation for a persisted booking
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, booking models.Booking) error
}

// PaymentVerifier looks up the state of an external payment
type PaymentVerifier interface {
	PaymentStatus(ctx context.Context, reference string) (*PaymentInfo, error)
}

// PaymentInfo is the gateway's view of a payment
type PaymentInfo struct {
	Status   string
	Amount   int64 // cents, 0 when unknown
	Currency string
}

// IdempotencyStore maps client idempotency keys to booking ids
type IdempotencyStore interface {
	GetBookingID(ctx context.Context, key string) (string, bool, error)
	SaveBookingID(ctx context.Context, key, bookingID string) error
}

// BookingService handles the booking transaction
type BookingService struct {
	store         *store.Store
	validator     *RequestValidator
	notifier      Notifier
	payments      PaymentVerifier
	idempotency   IdempotencyStore
	notifyTimeout time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewBookingService creates a new booking service. notifier, payments and
// idempotency may be nil to disable those integrations.
func NewBookingService(
	store *store.Store,
	validator *RequestValidator,
	notifier Notifier,
	payments PaymentVerifier,
	idempotency IdempotencyStore,
) *BookingService {
	return &BookingService{
		store:         store,
		validator:     validator,
		notifier:      notifier,
		payments:      payments,
		idempotency:   idempotency,
		notifyTimeout: defaultNotifyTimeout,
		now:           time.Now,
		logger:        util.GetLogger(),
	}
}

// SetNotifyTimeout bounds how long a notification may take after a booking
func (s *BookingService) SetNotifyTimeout(d time.Duration) {
	if d > 0 {
		s.notifyTimeout = d
	}
}

// CreateBookingRequest represents a request to book a car
type CreateBookingRequest struct {
	CarID           int64  `json:"carId" validate:"required,gt=0"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone" validate:"required,phone"`
	PickupDate      string `json:"pickupDate" validate:"required"`
	ReturnDate      string `json:"returnDate" validate:"required"`
	PickupLocation  string `json:"pickupLocation" validate:"required,max=200"`
	AdditionalInfo  string `json:"additionalInfo,omitempty" validate:"max=2000"`
	PaymentIntentID string `json:"paymentIntentId,omitempty" validate:"max=255"`
	IdempotencyKey  string `json:"-"`
}

// CreateBooking validates the request, reserves one unit of the car and
// persists the booking in a single critical section. The confirmation is sent
// after the store lock is released; its failure never fails the booking.
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	logger := util.LoggerFromContext(ctx)
	s.sanitize(req)

	pickup, ret, err := s.validator.ValidateBooking(req)
	if err != nil {
		util.BookingsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	if existing := s.replay(ctx, req.IdempotencyKey); existing != nil {
		util.BookingsReplayedTotal.Inc()
		return existing, nil
	}

	payment, err := s.verifyPayment(ctx, req.PaymentIntentID)
	if err != nil {
		util.BookingsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	var booking models.Booking
	replayed := false
	start := time.Now()
	err = s.store.Update(ctx, func(inv *models.Inventory) error {
		if existing := inv.FindBookingByIdempotencyKey(req.IdempotencyKey); existing != nil {
			booking = *existing
			replayed = true
			return errReplayed
		}
		if used := inv.FindBookingByPaymentIntent(req.PaymentIntentID); used != nil {
			return fmt.Errorf("%w: payment %s already used by booking %s",
				ErrPaymentNotCompleted, req.PaymentIntentID, used.BookingID)
		}

		car := inv.FindCar(req.CarID)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, req.CarID)
		}
		if car.Available <= 0 {
			return fmt.Errorf("%w: id=%d", ErrCarUnavailable, req.CarID)
		}

		quote, err := pricing.Calculate(pickup, ret, car.Price)
		if err != nil {
			return err
		}

		status := models.PaymentStatusPending
		if payment != nil {
			if payment.Amount > 0 && payment.Amount < quote.Total.Cents() {
				return fmt.Errorf("%w: paid %d cents, total is %d cents",
					ErrPaymentNotCompleted, payment.Amount, quote.Total.Cents())
			}
			status = payment.Status
		}

		now := s.now()
		booking = models.Booking{
			BookingID:       nextBookingID(inv, now),
			CarID:           car.ID,
			CarName:         car.Name,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Phone:           req.Phone,
			PickupDate:      pricing.FormatDate(pickup),
			ReturnDate:      pricing.FormatDate(ret),
			PickupLocation:  req.PickupLocation,
			AdditionalInfo:  req.AdditionalInfo,
			PricePerDay:     quote.PricePerDay,
			Days:            quote.Days,
			Subtotal:        quote.Subtotal,
			Tax:             quote.Tax,
			Total:           quote.Total,
			PaymentStatus:   status,
			PaymentIntentID: req.PaymentIntentID,
			IdempotencyKey:  req.IdempotencyKey,
			BookingDate:     now.UTC().Format(time.RFC3339),
		}

		car.Available--
		car.ClampAvailability()
		inv.Bookings = append(inv.Bookings, booking)
		return nil
	})
	util.BookingTransactionLatency.Observe(time.Since(start).Seconds())

	if replayed {
		util.BookingsReplayedTotal.Inc()
		logger.Info("Duplicate booking request detected",
			zap.String("key", req.IdempotencyKey),
			zap.String("booking_id", booking.BookingID))
		s.remember(ctx, req.IdempotencyKey, booking.BookingID)
		return &booking, nil
	}

	if err != nil {
		util.BookingsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		if isInfrastructureError(err) {
			logger.Error("Booking transaction failed",
				zap.Int64("car_id", req.CarID),
				zap.Error(err))
		} else {
			logger.Info("Booking rejected",
				zap.Int64("car_id", req.CarID),
				zap.String("reason", failureReason(err)))
		}
		return nil, err
	}

	util.BookingsCreatedTotal.Inc()
	logger.Info("Booking created",
		zap.String("booking_id", booking.BookingID),
		zap.Int64("car_id", booking.CarID),
		zap.String("total", booking.Total.String()))

	s.remember(ctx, req.IdempotencyKey, booking.BookingID)
	s.notify(ctx, booking)

	return &booking, nil
}

// Quote prices a rental for a car without touching availability
func (s *BookingService) Quote(ctx context.Context, carID int64, pickupDate, returnDate string) (*pricing.Quote, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.Quote")
	defer span.End()

	pickup, ret, err := pricing.ParseRange(pickupDate, returnDate)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			return nil, err
		}
		return nil, invalidField("dates", err.Error())
	}

	var quote pricing.Quote
	err = s.store.View(ctx, func(inv *models.Inventory) error {
		car := inv.FindCar(carID)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, carID)
		}
		quote, err = pricing.Calculate(pickup, ret, car.Price)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetBooking retrieves a booking by id
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		b := inv.FindBooking(bookingID)
		if b == nil {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
		}
		copied := *b
		booking = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetBookingForCustomer returns the booking only when email matches the one
// it was made with. A mismatch is reported as not found.
func (s *BookingService) GetBookingForCustomer(ctx context.Context, bookingID, email string) (*models.Booking, error) {
	email = normalizeText(email)
	if email == "" {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(booking.Email, email) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	return booking, nil
}

// ListBookings returns every booking, oldest first
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		bookings = inv.Bookings
		return nil
	})
	return bookings, err
}

func (s *BookingService) sanitize(req *CreateBookingRequest) {
	req.FirstName = normalizeText(req.FirstName)
	req.LastName = normalizeText(req.LastName)
	req.Email = normalizeText(req.Email)
	req.PickupLocation = normalizeText(req.PickupLocation)
	req.PickupDate = normalizeText(req.PickupDate)
	req.ReturnDate = normalizeText(req.ReturnDate)
	req.PaymentIntentID = normalizeText(req.PaymentIntentID)
	if phone := s.validator.NormalizePhone(req.Phone); phone != "" {
		req.Phone = phone
	}
}

// replay returns the booking previously created for key, if any
func (s *BookingService) replay(ctx context.Context, key string) *models.Booking {
	if key == "" || s.idempotency == nil {
		return nil
	}

	bookingID, ok, err := s.idempotency.GetBookingID(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		s.logger.Warn("Idempotency key points to unknown booking",
			zap.String("key", key),
			zap.String("booking_id", bookingID),
			zap.Error(err))
		return nil
	}

	s.logger.Info("Duplicate booking request detected",
		zap.String("key", key),
		zap.String("booking_id", bookingID))
	return booking
}

func (s *BookingService) remember(ctx context.Context, key, bookingID string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.SaveBookingID(ctx, key, bookingID); err != nil {
		s.logger.Warn("Failed to store idempotency key",
			zap.String("key", key),
			zap.String("booking_id", bookingID),
			zap.Error(err))
	}
}

// verifyPayment queries the gateway outside the store lock. Without a
// reference the booking is pay-on-pickup and nil is returned.
func (s *BookingService) verifyPayment(ctx context.Context, reference string) (*PaymentInfo, error) {
	if reference == "" {
		return nil, nil
	}
	if s.payments == nil {
		s.logger.Warn("Payment reference supplied but no gateway configured",
			zap.String("payment_intent_id", reference))
		return nil, nil
	}

	info, err := s.payments.PaymentStatus(ctx, reference)
	if err != nil {
		util.PaymentChecksTotal.WithLabelValues("error").Inc()
		s.logger.Warn("Payment lookup failed",
			zap.String("payment_intent_id", reference),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentNotCompleted, err)
	}

	util.PaymentChecksTotal.WithLabelValues(info.Status).Inc()
	if info.Status != models.PaymentStatusSucceeded {
		return nil, fmt.Errorf("%w: status=%s", ErrPaymentNotCompleted, info.Status)
	}
	return info, nil
}

// notify runs after the critical section. Errors are logged and dropped.
func (s *BookingService) notify(ctx context.Context, booking models.Booking) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyBookingCreated(ctx, booking); err != nil {
		s.logger.Error("Failed to send booking notification",
			zap.String("booking_id", booking.BookingID),
			zap.Error(err))
	}
}

// nextBookingID derives BK<unix-millis> and bumps it past any existing id
func nextBookingID(inv *models.Inventory, now time.Time) string {
	candidate := now.UnixMilli()
	for {
		id := fmt.Sprintf("BK%d", candidate)
		if inv.FindBooking(id) == nil {
			return id
		}
		candidate++
	}
}

func isInfrastructureError(err error) bool {
	return errors.Is(err, store.ErrStoreCorrupt) ||
		errors.Is(err, store.ErrStorePersistFailed) ||
		!(errors.Is(err, ErrCarNotFound) ||
			errors.Is(err, ErrCarUnavailable) ||
			errors.Is(err, ErrInvalidDateRange) ||
			errors.Is(err, ErrPaymentNotCompleted) ||
			errors.Is(err, ErrValidationFailed))
}
