package service

import (
	"context"
	"fmt"

	"car-rental/internal/catalog"
	"car-rental/internal/models"
	"car-rental/internal/store"
)

// CatalogService serves read-only public views of the fleet
type CatalogService struct {
	store     *store.Store
	projector *catalog.Projector
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, projector *catalog.Projector) *CatalogService {
	return &CatalogService{store: store, projector: projector}
}

// ListCars projects every stored car
func (s *CatalogService) ListCars(ctx context.Context) ([]catalog.CarView, error) {
	var views []catalog.CarView
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		views = s.projector.ProjectAll(inv.Cars)
		return nil
	})
	return views, err
}

// GetCar projects a single car
func (s *CatalogService) GetCar(ctx context.Context, id int64) (*catalog.CarView, error) {
	var view catalog.CarView
	err := s.store.View(ctx, func(inv *models.Inventory) error {
		car := inv.FindCar(id)
		if car == nil {
			return fmt.Errorf("%w: id=%d", ErrCarNotFound, id)
		}
		view = s.projector.Project(*car)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
