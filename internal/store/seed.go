package store

import "car-rental/internal/models"

// DefaultCatalog is written on first run when no inventory document exists
func DefaultCatalog() *models.Inventory {
	return &models.Inventory{
		Cars: []models.Car{
			{
				ID:           1,
				Name:         "Toyota Corolla",
				Model:        "Corolla",
				Trim:         "LE",
				Year:         "2023",
				Seats:        "5",
				Transmission: "Automatic",
				Fuel:         "Gasoline",
				Mileage:      "33 mpg",
				Features:     []string{"Bluetooth", "Backup Camera", "Apple CarPlay"},
				Color:        "White",
				Price:        45,
				Quantity:     4,
				Available:    4,
				Images:       []string{},
			},
			{
				ID:           2,
				Name:         "Honda CR-V",
				Model:        "CR-V",
				Trim:         "EX",
				Year:         "2023",
				Seats:        "5",
				Transmission: "Automatic",
				Fuel:         "Gasoline",
				Mileage:      "30 mpg",
				Features:     []string{"AWD", "Lane Assist", "Heated Seats"},
				Color:        "Silver",
				Price:        70,
				Quantity:     3,
				Available:    3,
				Images:       []string{},
			},
			{
				ID:           3,
				Name:         "Ford Mustang",
				Model:        "Mustang",
				Trim:         "GT",
				Year:         "2022",
				Seats:        "4",
				Transmission: "Manual",
				Fuel:         "Gasoline",
				Mileage:      "18 mpg",
				Features:     []string{"Convertible", "Premium Audio"},
				Color:        "Red",
				Price:        120,
				Quantity:     2,
				Available:    2,
				Images:       []string{},
			},
			{
				ID:           4,
				Name:         "Tesla Model 3",
				Model:        "Model 3",
				Trim:         "Long Range",
				Year:         "2024",
				Seats:        "5",
				Transmission: "Automatic",
				Fuel:         "Electric",
				Mileage:      "358 mi range",
				Features:     []string{"Autopilot", "Glass Roof", "Supercharging"},
				Color:        "Black",
				Price:        110,
				Quantity:     2,
				Available:    2,
				Images:       []string{},
			},
		},
		Bookings: []models.Booking{},
	}
}
