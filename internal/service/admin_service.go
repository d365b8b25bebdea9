package service

import (
	"context"
	"fmt"

	"car-rental/internal/models"
	"car-rental/internal/store"
	"car-rental/internal/util"

	"go.uber.org/zap"
)

// AdminService handles catalog mutations. Callers are expected to have
// passed the admin gate already.
type AdminService struct {
	store     *store.Store
	validator *RequestValidator
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store *store.Store, validator *RequestValidator) *AdminService {
	return &AdminService{
		store:     store,
		validator: validator,
		logger:    util.GetLogger(),
	}
}

// CarInput is the payload for adding a car
type CarInput struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Model        string   `json:"model" validate:"max=200"`
	Trim         string   `json:"trim" validate:"max=200"`
	Year         string   `json:"year" validate:"max=20"`
	Seats        string   `json:"seats" validate:"max=20"`
	Transmission string   `json:"transmission" validate:"max=100"`
	Fuel         string   `json:"fuel" validate:"max=100"`
	Mileage      string   `json:"mileage" validate:"max=100"`
	Features     []string `json:"features" validate:"max=50,dive,max=100"`
	Color        string   `json:"color" validate:"max=100"`
	Description  string   `json:"description" validate:"max=5000"`
	Price        int64    `json:"price" validate:"required,gt=0"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	Available    *int     `json:"available,omitempty" validate:"omitempty,gte=0"`
}

// CarUpdate is a partial update; nil fields are left unchanged
type CarUpdate struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Model        *string   `json:"model,omitempty" validate:"omitempty,max=200"`
	Trim         *string   `json:"trim,omitempty" validate:"omitempty,max=200"`
	Year         *string   `json:"year,omitempty" validate:"omitempty,max=20"`
	Seats        *string   `json:"seats,omitempty" validate:"omitempty,max=20"`
	Transmission *string   `json:"transmission,omitempty" validate:"omitempty,max=100"`
	Fuel         *string   `json:"fuel,omitempty" validate:"omitempty,max=100"`
	Mileage      *string   `json:"mileage,omitempty" validate:"omitempty,max=100"`
	Features     *[]string `json:"features,omitempty" validate:"omitempty,max=50"`
	Color        *string   `json:"color,omitempty" validate:"omitempty,max=100"`
	Description  *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price        *int64    `json:"price,omitempty" validate:"omitempty,gt=0"`
	Quantity     *int      `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Available    *int      `json:"available,omitempty" validate:"omitempty,gte=0"`
}

// AvailabilityUpdate sets available and/or quantity
type AvailabilityUpdate struct {
	Available *int `json:"available,omitempty"`
	Quantity  *int `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// ListCars returns the raw stored records
func (s *AdminService) ListCars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		cars = inv.Cars
		return nil
	})
	return cars, err
}

// AddCar assigns the next id and stores a new car
func (s *AdminService) AddCar(ctx context.Context, input *CarInput) (*models.Car, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.AddCar")
	defer span.End()

	input.Name = normalizeText(input.Name)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var car models.Car
	err := s.store.Update(ctx, func(inv *models.Inventory) error {
		car = models.Car{
			ID:           inv.NextCarID(),
			Name:         input.Name,
			Model:        input.Model,
			Trim:         input.Trim,
			Year:         input.Year,
			Seats:        input.Seats,
			Transmission: input.Transmission,
			Fuel:         input.Fuel,
			Mileage:      input.Mileage,
			Features:     input.Features,
			Color:        input.Color,
			Description:  input.Description,
			Price:        input.Price,
			Quantity:     input.Quantity,
			Available:    input.Quantity,
			Images:       []string{},
		}
		if input.Available != nil {
			car.Available = *input.Available
		}
		car.ClampAvailability()

		inv.Cars = append(inv.Cars, car)
		return nil
	})
	if err != nil {
		s.logFailure("add_car", 0, err)
		return nil, err
	}

	util.AdminMutationsTotal.WithLabelValues("add_car").Inc()
	s.logger.Info("Car added", zap.Int64("car_id", car.ID), zap.String("name", car.Name))
	return &car, nil
}

// UpdateCar applies a partial update and re-clamps availability
func (s *AdminService) UpdateCar(ctx context.Context, id int64, update *CarUpdate) (*models.Car, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.UpdateCar")
	defer span.End()

	if update.Name != nil {
		name := normalizeText(*update.Name)
		update.Name = &name
	}
	if err := s.validator.Struct(update); err != nil {
		return nil, err
	}

	var updated models.Car
	err := s.store.Update(ctx, func(inv *models.Inventory) error {
		car := inv.FindCar(id)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, id)
		}

		applyString(&car.Name, update.Name)
		applyString(&car.Model, update.Model)
		applyString(&car.Trim, update.Trim)
		applyString(&car.Year, update.Year)
		applyString(&car.Seats, update.Seats)
		applyString(&car.Transmission, update.Transmission)
		applyString(&car.Fuel, update.Fuel)
		applyString(&car.Mileage, update.Mileage)
		applyString(&car.Color, update.Color)
		applyString(&car.Description, update.Description)
		if update.Features != nil {
			car.Features = *update.Features
		}
		if update.Price != nil {
			car.Price = *update.Price
		}
		if update.Quantity != nil {
			car.Quantity = *update.Quantity
		}
		if update.Available != nil {
			car.Available = *update.Available
		}
		car.ClampAvailability()

		updated = *car
		return nil
	})
	if err != nil {
		s.logFailure("update_car", id, err)
		return nil, err
	}

	util.AdminMutationsTotal.WithLabelValues("update_car").Inc()
	s.logger.Info("Car updated", zap.Int64("car_id", id))
	return &updated, nil
}

// DeleteCar removes a car. Existing bookings keep their snapshot.
func (s *AdminService) DeleteCar(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "AdminService.DeleteCar")
	defer span.End()

	err := s.store.Update(ctx, func(inv *models.Inventory) error {
		for i := range inv.Cars {
			if inv.Cars[i].ID == id {
				inv.Cars = append(inv.Cars[:i], inv.Cars[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: id=%d", ErrCarNotFound, id)
	})
	if err != nil {
		s.logFailure("delete_car", id, err)
		return err
	}

	util.AdminMutationsTotal.WithLabelValues("delete_car").Inc()
	s.logger.Info("Car deleted", zap.Int64("car_id", id))
	return nil
}

// SetAvailability sets available and/or quantity, then clamps available
// into [0, quantity].
func (s *AdminService) SetAvailability(ctx context.Context, id int64, update *AvailabilityUpdate) (*models.Car, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.SetAvailability")
	defer span.End()

	if update.Available == nil && update.Quantity == nil {
		return nil, invalidField("available", "available or quantity is required")
	}
	if err := s.validator.Struct(update); err != nil {
		return nil, err
	}

	var updated models.Car
	err := s.store.Update(ctx, func(inv *models.Inventory) error {
		car := inv.FindCar(id)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, id)
		}
		if update.Quantity != nil {
			car.Quantity = *update.Quantity
		}
		if update.Available != nil {
			car.Available = *update.Available
		}
		car.ClampAvailability()

		updated = *car
		return nil
	})
	if err != nil {
		s.logFailure("set_availability", id, err)
		return nil, err
	}

	util.AdminMutationsTotal.WithLabelValues("set_availability").Inc()
	s.logger.Info("Car availability set",
		zap.Int64("car_id", id),
		zap.Int("available", updated.Available),
		zap.Int("quantity", updated.Quantity))
	return &updated, nil
}

// AttachImages appends already stored image filenames to a car
func (s *AdminService) AttachImages(ctx context.Context, id int64, filenames []string) (*models.Car, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.AttachImages")
	defer span.End()

	if len(filenames) == 0 {
		return nil, invalidField("images", "at least one image is required")
	}

	var updated models.Car
	err := s.store.Update(ctx, func(inv *models.Inventory) error {
		car := inv.FindCar(id)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, id)
		}
		car.Images = append(car.Images, filenames...)

		updated = *car
		return nil
	})
	if err != nil {
		s.logFailure("attach_images", id, err)
		return nil, err
	}

	util.AdminMutationsTotal.WithLabelValues("attach_images").Inc()
	s.logger.Info("Images attached", zap.Int64("car_id", id), zap.Int("count", len(filenames)))
	return &updated, nil
}

// CarExists reports whether a car with id is stored
func (s *AdminService) CarExists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		found = inv.FindCar(id) != nil
		return nil
	})
	return found, err
}

func (s *AdminService) logFailure(op string, id int64, err error) {
	if isInfrastructureError(err) {
		s.logger.Error("Admin operation failed",
			zap.String("operation", op),
			zap.Int64("car_id", id),
			zap.Error(err))
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
