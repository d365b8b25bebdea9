package catalog

import (
	"testing"

	"car-rental/internal/models"

	"github.com/stretchr/testify/assert"
)

const placeholder = "https://img.example.com/placeholder.png"

func TestTier(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		available int
		want      string
	}{
		{"all units free", 3, 3, models.TierAvailable},
		{"some units free", 3, 1, models.TierLimited},
		{"none free", 3, 0, models.TierUnavailable},
		{"no fleet", 0, 0, models.TierUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tier(models.Car{Quantity: tt.quantity, Available: tt.available})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectResolvesImages(t *testing.T) {
	p := NewProjector("https://cars.example.com", placeholder)
	car := models.Car{ID: 2, Name: "Honda CR-V", Price: 70, Quantity: 3, Available: 2, Images: []string{"front.jpg", "side view.png"}}

	view := p.Project(car)

	assert.Equal(t, "$70/day", view.Price)
	assert.Equal(t, int64(70), view.PriceValue)
	assert.Equal(t, models.TierLimited, view.Availability)
	assert.Equal(t, "https://cars.example.com/uploads/front.jpg", view.Image)
	assert.Equal(t, []string{
		"https://cars.example.com/uploads/front.jpg",
		"https://cars.example.com/uploads/side%20view.png",
	}, view.Images)
}

func TestProjectUsesPlaceholder(t *testing.T) {
	p := NewProjector("https://cars.example.com", placeholder)

	view := p.Project(models.Car{ID: 1, Name: "Corolla", Price: 45, Quantity: 1, Available: 1})

	assert.Equal(t, placeholder, view.Image)
	assert.Equal(t, []string{placeholder}, view.Images)
}

func TestProjectDoesNotMutateCar(t *testing.T) {
	p := NewProjector("https://cars.example.com", placeholder)
	car := models.Car{ID: 1, Name: "Corolla", Price: 45, Quantity: 2, Available: 1, Images: []string{"a.jpg"}, Features: []string{"AWD"}}
	original := car
	original.Images = append([]string(nil), car.Images...)
	original.Features = append([]string(nil), car.Features...)

	view := p.Project(car)
	view.Features[0] = "changed"

	assert.Equal(t, original, car)
}
