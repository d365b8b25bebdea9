package pricing

import (
	"testing"
	"time"

	"car-rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCalculateThreeDayRental(t *testing.T) {
	q, err := Calculate(date(t, "2024-06-01"), date(t, "2024-06-04"), 70)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Days)
	assert.Equal(t, int64(70), q.PricePerDay)
	assert.Equal(t, "210.00", q.Subtotal.String())
	assert.Equal(t, "16.80", q.Tax.String())
	assert.Equal(t, "226.80", q.Total.String())
}

func TestCalculateRejectsInvalidRange(t *testing.T) {
	pickup := date(t, "2024-06-04")

	_, err := Calculate(pickup, pickup, 70)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = Calculate(pickup, date(t, "2024-06-01"), 70)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCalculateRoundsPartialDaysUp(t *testing.T) {
	pickup := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ret := time.Date(2024, 6, 2, 10, 30, 0, 0, time.UTC)

	q, err := Calculate(pickup, ret, 45)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Days)
}

func TestCalculateIsDeterministic(t *testing.T) {
	pickup := date(t, "2024-01-10")
	ret := date(t, "2024-01-17")

	first, err := Calculate(pickup, ret, 33)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		q, err := Calculate(pickup, ret, 33)
		require.NoError(t, err)
		assert.Equal(t, first, q)
	}
}

func TestCalculateTaxInvariant(t *testing.T) {
	pickup := date(t, "2024-03-01")
	for _, rate := range []int64{1, 7, 13, 45, 70, 99, 119, 250} {
		for days := 1; days <= 30; days++ {
			q, err := Calculate(pickup, pickup.AddDate(0, 0, days), rate)
			require.NoError(t, err)

			assert.Equal(t, q.Subtotal+q.Tax, q.Total)
			// round(subtotal * 0.08, 2) computed in cents, half up
			want := models.Money((q.Subtotal.Cents()*8 + 50) / 100)
			assert.Equal(t, want, q.Tax, "rate=%d days=%d", rate, days)
		}
	}
}

func TestParseRange(t *testing.T) {
	_, _, err := ParseRange("2024-06-01", "not-a-date")
	assert.Error(t, err)

	_, _, err = ParseRange("2024-06-05", "2024-06-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	p, r, err := ParseRange("2024-06-01", "2024-06-04")
	require.NoError(t, err)
	assert.True(t, r.After(p))
}

func TestParseDateReducesTimestampsToCalendarDays(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-06-01", "2024-06-01"},
		{" 2024-06-01 ", "2024-06-01"},
		{"2024-06-01T00:00:00-10:00", "2024-06-01"},
		{"2024-06-01T23:30:00+02:00", "2024-06-01"},
		{"2024-06-01T12:00:00Z", "2024-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(d))
			assert.Equal(t, time.UTC, d.Location())
			assert.Zero(t, d.Hour())
		})
	}
}

func TestParseRangeComparesCalendarDays(t *testing.T) {
	_, _, err := ParseRange("2024-06-01T00:00:00-10:00", "2024-06-01T12:00:00Z")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	p, r, err := ParseRange("2024-06-01T22:00:00-10:00", "2024-06-02T01:00:00Z")
	require.NoError(t, err)
	q, err := Calculate(p, r, 70)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Days)
}
