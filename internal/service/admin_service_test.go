package service

import (
	"context"
	"testing"

	"car-rental/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestAddCarAssignsNextID(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	car, err := svc.AddCar(context.Background(), &CarInput{Name: "  Kia   Niro ", Price: 60, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(10), car.ID)
	assert.Equal(t, "Kia Niro", car.Name)
	assert.Equal(t, 2, car.Available)
	assert.Empty(t, car.Images)

	stored := loadCar(t, st, 10)
	assert.Equal(t, *car, stored)
}

func TestAddCarClampsAvailable(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	car, err := svc.AddCar(context.Background(), &CarInput{Name: "Kia Niro", Price: 60, Quantity: 2, Available: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 2, car.Available)
}

func TestAddCarValidation(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	_, err := svc.AddCar(context.Background(), &CarInput{Name: "", Price: 0, Quantity: -1})
	require.ErrorIs(t, err, ErrValidationFailed)

	cars, err := svc.ListCars(context.Background())
	require.NoError(t, err)
	assert.Len(t, cars, 3)
}

func TestUpdateCarPartial(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	car, err := svc.UpdateCar(context.Background(), 2, &CarUpdate{Color: strPtr("Blue"), Quantity: intPtr(1)})
	require.NoError(t, err)

	assert.Equal(t, "Honda CR-V", car.Name)
	assert.Equal(t, "Blue", car.Color)
	assert.Equal(t, 1, car.Quantity)
	assert.Equal(t, 1, car.Available)
	assert.Equal(t, int64(70), car.Price)

	_, err = svc.UpdateCar(context.Background(), 404, &CarUpdate{Color: strPtr("Blue")})
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestDeleteCarKeepsBookings(t *testing.T) {
	st := newTestStore(t)
	bookings := NewBookingService(st, NewRequestValidator("US"), nil, nil, nil)
	svc := NewAdminService(st, NewRequestValidator("US"))

	booking, err := bookings.CreateBooking(context.Background(), validRequest(2))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCar(context.Background(), 2))

	exists, err := svc.CarExists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, exists)

	stored, err := bookings.GetBooking(context.Background(), booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Honda CR-V", stored.CarName)

	assert.ErrorIs(t, svc.DeleteCar(context.Background(), 2), ErrCarNotFound)
}

func TestSetAvailabilityClamps(t *testing.T) {
	tests := []struct {
		name          string
		update        AvailabilityUpdate
		wantAvailable int
		wantQuantity  int
	}{
		{"set within bounds", AvailabilityUpdate{Available: intPtr(1)}, 1, 3},
		{"above quantity", AvailabilityUpdate{Available: intPtr(10)}, 3, 3},
		{"negative", AvailabilityUpdate{Available: intPtr(-4)}, 0, 3},
		{"quantity shrinks below available", AvailabilityUpdate{Quantity: intPtr(2)}, 2, 2},
		{"both fields", AvailabilityUpdate{Available: intPtr(5), Quantity: intPtr(5)}, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			svc := NewAdminService(st, NewRequestValidator("US"))

			car, err := svc.SetAvailability(context.Background(), 2, &tt.update)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, car.Available)
			assert.Equal(t, tt.wantQuantity, car.Quantity)

			stored := loadCar(t, st, 2)
			assert.Equal(t, tt.wantAvailable, stored.Available)
		})
	}
}

func TestSetAvailabilityRequiresField(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	_, err := svc.SetAvailability(context.Background(), 2, &AvailabilityUpdate{})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.SetAvailability(context.Background(), 2, &AvailabilityUpdate{Quantity: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAttachImagesAppends(t *testing.T) {
	st := newTestStore(t)
	svc := NewAdminService(st, NewRequestValidator("US"))

	_, err := svc.AttachImages(context.Background(), 2, []string{"a.jpg"})
	require.NoError(t, err)
	car, err := svc.AttachImages(context.Background(), 2, []string{"b.png", "c.webp"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.png", "c.webp"}, car.Images)

	_, err = svc.AttachImages(context.Background(), 2, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.AttachImages(context.Background(), 404, []string{"a.jpg"})
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestCatalogServiceProjects(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, catalog.NewProjector("http://localhost:8080", "http://img/placeholder.png"))

	views, err := svc.ListCars(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "$70/day", views[0].Price)
	assert.Equal(t, "unavailable", views[1].Availability)

	view, err := svc.GetCar(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "available", view.Availability)

	_, err = svc.GetCar(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCarNotFound)
}
