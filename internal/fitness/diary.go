package fitness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DiaryStore describes food-diary persistence. Days are UTC calendar days.
type DiaryStore interface {
	SaveAssignment(ctx context.Context, a *AssignedProduct) error
	FindAssignment(ctx context.Context, accountID, productID string, day time.Time) (*AssignedProduct, error)
	FindAssignmentByID(ctx context.Context, accountID, id string, day time.Time) (*AssignedProduct, error)
	ListAssignments(ctx context.Context, accountID string, skip, take int, day *time.Time) ([]*AssignedProduct, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// AssignProduct records a product in an account's diary for one day. A
// repeated assignment of the same product on the same day returns the
// existing entry unchanged. An absent weight falls back to the product's
// default weight.
func (s *Service) AssignProduct(ctx context.Context, accountID, productID string, day time.Time, weight *int, count int) (*AssignedProduct, error) {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: account and product ids are required", ErrInvalidInput)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidInput)
	}
	product, err := s.store.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	day = dayOf(day)
	existing, err := s.store.FindAssignment(ctx, accountID, productID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if weight == nil {
		weight = product.Weight
	}
	entry := &AssignedProduct{
		AccountID: accountID,
		ProductID: productID,
		Added:     day,
		Weight:    weight,
		Count:     count,
	}
	if err := s.store.SaveAssignment(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListAssignedProducts returns an account's diary page, optionally limited
// to one day.
func (s *Service) ListAssignedProducts(ctx context.Context, accountID string, skip, take int, day *time.Time) ([]*AssignedProduct, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if skip < 0 || take <= 0 {
		return nil, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	if day != nil {
		d := dayOf(*day)
		day = &d
	}
	return s.store.ListAssignments(ctx, accountID, skip, take, day)
}

// UnassignProduct removes one diary entry, scoped to the owning account and
// the entry's day so a stale id cannot delete another day's record.
func (s *Service) UnassignProduct(ctx context.Context, accountID, assignedID string, day time.Time) error {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(assignedID) == "" {
		return fmt.Errorf("%w: account and assignment ids are required", ErrInvalidInput)
	}
	entry, err := s.store.FindAssignmentByID(ctx, accountID, assignedID, dayOf(day))
	if err != nil {
		return err
	}
	return s.store.DeleteAssignment(ctx, entry.ID)
}
