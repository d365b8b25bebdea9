// Package pricing computes rental quotes. All arithmetic is done in integer
// cents so the same inputs always produce the same amounts.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"car-rental/internal/models"
)

// DateLayout is the calendar date format used for pickup and return dates
const DateLayout = "2006-01-02"

// TaxRatePercent is the fixed sales tax applied to every rental
const TaxRatePercent = 8

const day = 24 * time.Hour

// ErrInvalidDateRange is returned when the return date is not after the pickup date
var ErrInvalidDateRange = errors.New("return date must be after pickup date")

// Quote is a priced rental period
type Quote struct {
	Days        int          `json:"days"`
	PricePerDay int64        `json:"pricePerDay"`
	Subtotal    models.Money `json:"subtotal"`
	Tax         models.Money `json:"tax"`
	Total       models.Money `json:"total"`
}

// Calculate prices a rental from pickup to return at dailyRate currency units per day.
// Partial days are charged as full days.
func Calculate(pickup, ret time.Time, dailyRate int64) (Quote, error) {
	if !ret.After(pickup) {
		return Quote{}, ErrInvalidDateRange
	}

	span := ret.Sub(pickup)
	days := int(span / day)
	if span%day != 0 {
		days++
	}

	subtotal := models.FromUnits(int64(days) * dailyRate)
	tax := percentOf(subtotal, TaxRatePercent)

	return Quote{
		Days:        days,
		PricePerDay: dailyRate,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       subtotal + tax,
	}, nil
}

// percentOf rounds half away from zero to the nearest cent
func percentOf(amount models.Money, percent int64) models.Money {
	scaled := amount.Cents() * percent
	if scaled >= 0 {
		return models.Money((scaled + 50) / 100)
	}
	return models.Money((scaled - 50) / 100)
}

// ParseDate accepts a calendar date (2024-06-01) or an RFC3339 timestamp.
// Timestamps are reduced to the calendar date in their own offset, so the
// result is always midnight UTC of a calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a parsed date in DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseRange parses both dates and checks their ordering
func ParseRange(pickup, ret string) (time.Time, time.Time, error) {
	p, err := ParseDate(pickup)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	r, err := ParseDate(ret)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !r.After(p) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return p, r, nil
}
