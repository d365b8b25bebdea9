package catalog

import (
	"fmt"
	"net/url"

	"car-rental/internal/models"
)

// CarView is the public representation of a car
type CarView struct {
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
	Price        string   `json:"price"`
	PriceValue   int64    `json:"priceValue"`
	Quantity     int      `json:"quantity"`
	Available    int      `json:"available"`
	Availability string   `json:"availability"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
}

// Projector turns stored cars into public views
type Projector struct {
	uploadsURL     string
	placeholderURL string
}

// NewProjector creates a projector. Stored image filenames are resolved
// against baseURL + "/uploads/".
func NewProjector(baseURL, placeholderURL string) *Projector {
	return &Projector{
		uploadsURL:     baseURL + "/uploads/",
		placeholderURL: placeholderURL,
	}
}

// Project builds the view for a single car. The car is not modified.
func (p *Projector) Project(car models.Car) CarView {
	images := make([]string, 0, len(car.Images))
	for _, name := range car.Images {
		images = append(images, p.imageURL(name))
	}
	if len(images) == 0 {
		images = append(images, p.placeholderURL)
	}

	var features []string
	if len(car.Features) > 0 {
		features = append([]string(nil), car.Features...)
	}

	return CarView{
		ID:           car.ID,
		Name:         car.Name,
		Model:        car.Model,
		Trim:         car.Trim,
		Year:         car.Year,
		Seats:        car.Seats,
		Transmission: car.Transmission,
		Fuel:         car.Fuel,
		Mileage:      car.Mileage,
		Features:     features,
		Color:        car.Color,
		Description:  car.Description,
		Price:        FormatDailyPrice(car.Price),
		PriceValue:   car.Price,
		Quantity:     car.Quantity,
		Available:    car.Available,
		Availability: Tier(car),
		Image:        images[0],
		Images:       images,
	}
}

// ProjectAll projects every car in order
func (p *Projector) ProjectAll(cars []models.Car) []CarView {
	views := make([]CarView, 0, len(cars))
	for _, car := range cars {
		views = append(views, p.Project(car))
	}
	return views
}

func (p *Projector) imageURL(filename string) string {
	return p.uploadsURL + url.PathEscape(filename)
}

// Tier classifies availability: every unit free, some free, or none free
func Tier(car models.Car) string {
	switch {
	case car.Available <= 0:
		return models.TierUnavailable
	case car.Available < car.Quantity:
		return models.TierLimited
	default:
		return models.TierAvailable
	}
}

// FormatDailyPrice renders a daily rate such as "$70/day"
func FormatDailyPrice(price int64) string {
	return fmt.Sprintf("$%d/day", price)
}
