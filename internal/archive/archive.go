// Package archive mirrors persisted bookings into Postgres for reporting.
// The inventory document remains the source of truth; rows here are written
// after the fact by the archive worker and are never read back by the
// booking flow.
package archive

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookings_archive (
	booking_id       TEXT PRIMARY KEY,
	car_id           BIGINT NOT NULL,
	car_name         TEXT NOT NULL,
	first_name       TEXT NOT NULL,
	last_name        TEXT NOT NULL,
	email            TEXT NOT NULL,
	phone            TEXT NOT NULL,
	pickup_date      TEXT NOT NULL,
	return_date      TEXT NOT NULL,
	pickup_location  TEXT NOT NULL,
	additional_info  TEXT NOT NULL DEFAULT '',
	price_per_day    BIGINT NOT NULL,
	days             INTEGER NOT NULL,
	subtotal_cents   BIGINT NOT NULL,
	tax_cents        BIGINT NOT NULL,
	total_cents      BIGINT NOT NULL,
	payment_status   TEXT NOT NULL,
	booked_at        TEXT NOT NULL,
	archived_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Row is the archived form of a booking
type Row struct {
	BookingID      string    `db:"booking_id"`
	CarID          int64     `db:"car_id"`
	CarName        string    `db:"car_name"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	PickupDate     string    `db:"pickup_date"`
	ReturnDate     string    `db:"return_date"`
	PickupLocation string    `db:"pickup_location"`
	AdditionalInfo string    `db:"additional_info"`
	PricePerDay    int64     `db:"price_per_day"`
	Days           int       `db:"days"`
	SubtotalCents  int64     `db:"subtotal_cents"`
	TaxCents       int64     `db:"tax_cents"`
	TotalCents     int64     `db:"total_cents"`
	PaymentStatus  string    `db:"payment_status"`
	BookedAt       string    `db:"booked_at"`
	ArchivedAt     time.Time `db:"archived_at"`
}

// FromBooking flattens a booking into an archive row
func FromBooking(b models.Booking) Row {
	return Row{
		BookingID:      b.BookingID,
		CarID:          b.CarID,
		CarName:        b.CarName,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		Phone:          b.Phone,
		PickupDate:     b.PickupDate,
		ReturnDate:     b.ReturnDate,
		PickupLocation: b.PickupLocation,
		AdditionalInfo: b.AdditionalInfo,
		PricePerDay:    b.PricePerDay,
		Days:           b.Days,
		SubtotalCents:  b.Subtotal.Cents(),
		TaxCents:       b.Tax.Cents(),
		TotalCents:     b.Total.Cents(),
		PaymentStatus:  b.PaymentStatus,
		BookedAt:       b.BookingDate,
	}
}

type Archive struct {
	db *sqlx.DB
}

// NewArchive connects to Postgres and ensures the archive table exists
func NewArchive(databaseURL string) (*Archive, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	a := &Archive{db: db}
	if err := a.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// EnsureSchema creates the archive table if needed
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// RecordBooking inserts a booking; replays of the same booking are ignored
func (a *Archive) RecordBooking(ctx context.Context, b models.Booking) error {
	query := `
		INSERT INTO bookings_archive (
			booking_id, car_id, car_name, first_name, last_name, email, phone,
			pickup_date, return_date, pickup_location, additional_info,
			price_per_day, days, subtotal_cents, tax_cents, total_cents,
			payment_status, booked_at)
		VALUES (
			:booking_id, :car_id, :car_name, :first_name, :last_name, :email, :phone,
			:pickup_date, :return_date, :pickup_location, :additional_info,
			:price_per_day, :days, :subtotal_cents, :tax_cents, :total_cents,
			:payment_status, :booked_at)
		ON CONFLICT (booking_id) DO NOTHING`

	if _, err := a.db.NamedExecContext(ctx, query, FromBooking(b)); err != nil {
		return fmt.Errorf("failed to archive booking %s: %w", b.BookingID, err)
	}
	return nil
}
