package models

import "fmt"

// Car represents a vehicle in the rental catalog
type Car struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	Trim         string   `json:"trim,omitempty"`
	Year         string   `json:"year,omitempty"`
	Seats        string   `json:"seats,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	Fuel         string   `json:"fuel,omitempty"`
	Mileage      string   `json:"mileage,omitempty"`
	Features     []string `json:"features,omitempty"`
	Color        string   `json:"color,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        int64    `json:"price"`
	Quantity     int      `json:"quantity"`
	Available    int      `json:"available"`
	Images       []string `json:"images"`
}

// ClampAvailability keeps Available within [0, Quantity].
func (c *Car) ClampAvailability() {
	if c.Quantity < 0 {
		c.Quantity = 0
	}
	if c.Available > c.Quantity {
		c.Available = c.Quantity
	}
	if c.Available < 0 {
		c.Available = 0
	}
}

// Booking is an immutable, priced reservation snapshot
type Booking struct {
	BookingID       string `json:"bookingId"`
	CarID           int64  `json:"carId"`
	CarName         string `json:"carName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PickupDate      string `json:"pickupDate"`
	ReturnDate      string `json:"returnDate"`
	PickupLocation  string `json:"pickupLocation"`
	AdditionalInfo  string `json:"additionalInfo,omitempty"`
	PricePerDay     int64  `json:"pricePerDay"`
	Days            int    `json:"days"`
	Subtotal        Money  `json:"subtotal"`
	Tax             Money  `json:"tax"`
	Total           Money  `json:"total"`
	PaymentStatus   string `json:"paymentStatus"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	IdempotencyKey  string `json:"idempotencyKey,omitempty"`
	BookingDate     string `json:"bookingDate"`
}

// Inventory is the persisted document: the sole source of truth for cars and bookings
type Inventory struct {
	Cars     []Car     `json:"cars"`
	Bookings []Booking `json:"bookings"`
}

// FindCar returns a pointer into Cars so callers can mutate in place
func (inv *Inventory) FindCar(id int64) *Car {
	for i := range inv.Cars {
		if inv.Cars[i].ID == id {
			return &inv.Cars[i]
		}
	}
	return nil
}

// FindBooking returns the booking with the given id, or nil
func (inv *Inventory) FindBooking(id string) *Booking {
	for i := range inv.Bookings {
		if inv.Bookings[i].BookingID == id {
			return &inv.Bookings[i]
		}
	}
	return nil
}

// FindBookingByIdempotencyKey returns the booking created under key, or nil
func (inv *Inventory) FindBookingByIdempotencyKey(key string) *Booking {
	if key == "" {
		return nil
	}
	for i := range inv.Bookings {
		if inv.Bookings[i].IdempotencyKey == key {
			return &inv.Bookings[i]
		}
	}
	return nil
}

// FindBookingByPaymentIntent returns the booking paid by intentID, or nil
func (inv *Inventory) FindBookingByPaymentIntent(intentID string) *Booking {
	if intentID == "" {
		return nil
	}
	for i := range inv.Bookings {
		if inv.Bookings[i].PaymentIntentID == intentID {
			return &inv.Bookings[i]
		}
	}
	return nil
}

// Validate checks the document-wide invariants: positive unique car ids,
// 0 <= available <= quantity, unique booking ids.
func (inv *Inventory) Validate() error {
	carIDs := make(map[int64]struct{}, len(inv.Cars))
	for _, c := range inv.Cars {
		if c.ID <= 0 {
			return fmt.Errorf("car id %d is not positive", c.ID)
		}
		if _, dup := carIDs[c.ID]; dup {
			return fmt.Errorf("duplicate car id %d", c.ID)
		}
		carIDs[c.ID] = struct{}{}

		if c.Quantity < 0 || c.Available < 0 || c.Available > c.Quantity {
			return fmt.Errorf("car %d has available=%d quantity=%d", c.ID, c.Available, c.Quantity)
		}
	}

	bookingIDs := make(map[string]struct{}, len(inv.Bookings))
	for _, b := range inv.Bookings {
		if _, dup := bookingIDs[b.BookingID]; dup {
			return fmt.Errorf("duplicate booking id %s", b.BookingID)
		}
		bookingIDs[b.BookingID] = struct{}{}
	}
	return nil
}

// NextCarID returns max(id)+1
func (inv *Inventory) NextCarID() int64 {
	var maxID int64
	for _, c := range inv.Cars {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
)

// Availability tiers
const (
	TierAvailable   = "available"
	TierLimited     = "limited"
	TierUnavailable = "unavailable"
)
