package fitness

import (
	"context"
	"fmt"
	"strings"
)

// ProductStore describes food catalog persistence.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *Product) error
	FindProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, skip, take int) ([]*Product, error)
	SearchProducts(ctx context.Context, name, barcode string) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
}

func validateProduct(p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Barcode = strings.TrimSpace(p.Barcode)
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if len(p.Name) > maxNameLength {
		return fmt.Errorf("%w: product name is too long", ErrInvalidInput)
	}
	if p.Calories < 0 {
		return fmt.Errorf("%w: calories cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if p == nil {
		return fmt.Errorf("%w: product is required", ErrInvalidInput)
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.store.CreateProduct(ctx, p)
}

func (s *Service) FindProduct(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	return s.store.FindProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, skip, take int) ([]*Product, error) {
	if skip < 0 || take <= 0 {
		return nil, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	return s.store.ListProducts(ctx, skip, take)
}

// SearchProducts filters by name substring and/or exact barcode. At least
// one criterion must be given.
func (s *Service) SearchProducts(ctx context.Context, name, barcode string) ([]*Product, error) {
	name = strings.TrimSpace(name)
	barcode = strings.TrimSpace(barcode)
	if name == "" && barcode == "" {
		return nil, fmt.Errorf("%w: name or barcode is required", ErrInvalidInput)
	}
	return s.store.SearchProducts(ctx, name, barcode)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.store.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	return s.store.DeleteProduct(ctx, id)
}
