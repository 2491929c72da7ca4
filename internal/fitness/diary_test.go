package fitness

import (
	"context"
	"errors"
	"testing"
	"time"
)

func mustProduct(t *testing.T, svc *Service, p *Product) *Product {
	t.Helper()
	if err := svc.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func TestAssignProductIdempotentPerDay(t *testing.T) {
	svc := newTestService(t)
	p := mustProduct(t, svc, &Product{Name: "Oats", Calories: 370})

	morning := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	first, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, morning, nil, 2)
	if err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}
	// Same product on the same calendar day returns the existing entry.
	second, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, evening, nil, 5)
	if err != nil {
		t.Fatalf("repeated AssignProduct: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the existing entry, got %s want %s", second.ID, first.ID)
	}
	if second.Count != 2 {
		t.Fatalf("repeated assignment must not change the entry, got count %d", second.Count)
	}

	nextDay, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, morning.AddDate(0, 0, 1), nil, 1)
	if err != nil {
		t.Fatalf("AssignProduct next day: %v", err)
	}
	if nextDay.ID == first.ID {
		t.Fatalf("a different day must get its own entry")
	}
}

func TestAssignProductWeightDefaultsToProduct(t *testing.T) {
	svc := newTestService(t)
	grams := 40
	p := mustProduct(t, svc, &Product{Name: "Oats", Calories: 370, Weight: &grams})

	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	entry, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, day, nil, 1)
	if err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}
	if entry.Weight == nil || *entry.Weight != grams {
		t.Fatalf("expected the product default weight, got %v", entry.Weight)
	}

	override := 60
	other := mustProduct(t, svc, &Product{Name: "Rice", Calories: 350, Weight: &grams})
	entry, err = svc.AssignProduct(context.Background(), "acct-1", other.ID, day, &override, 1)
	if err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}
	if entry.Weight == nil || *entry.Weight != override {
		t.Fatalf("expected the explicit weight, got %v", entry.Weight)
	}
}

func TestAssignProductUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.AssignProduct(context.Background(), "acct-1", "missing", time.Now(), nil, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAssignedProductsByDay(t *testing.T) {
	svc := newTestService(t)
	p := mustProduct(t, svc, &Product{Name: "Oats", Calories: 370})

	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	if _, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, day1, nil, 1); err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}
	if _, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, day2, nil, 1); err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}

	all, err := svc.ListAssignedProducts(context.Background(), "acct-1", 0, 10, nil)
	if err != nil {
		t.Fatalf("ListAssignedProducts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both entries, got %d", len(all))
	}

	filtered, err := svc.ListAssignedProducts(context.Background(), "acct-1", 0, 10, &day1)
	if err != nil {
		t.Fatalf("ListAssignedProducts: %v", err)
	}
	if len(filtered) != 1 || !filtered[0].Added.Equal(dayOf(day1)) {
		t.Fatalf("expected one entry on day1, got %+v", filtered)
	}
}

func TestUnassignProductScoping(t *testing.T) {
	svc := newTestService(t)
	p := mustProduct(t, svc, &Product{Name: "Oats", Calories: 370})

	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	entry, err := svc.AssignProduct(context.Background(), "acct-1", p.ID, day, nil, 1)
	if err != nil {
		t.Fatalf("AssignProduct: %v", err)
	}

	// Wrong account, wrong day: both miss.
	if err := svc.UnassignProduct(context.Background(), "acct-2", entry.ID, day); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another account, got %v", err)
	}
	if err := svc.UnassignProduct(context.Background(), "acct-1", entry.ID, day.AddDate(0, 0, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another day, got %v", err)
	}

	if err := svc.UnassignProduct(context.Background(), "acct-1", entry.ID, day); err != nil {
		t.Fatalf("UnassignProduct: %v", err)
	}
	remaining, err := svc.ListAssignedProducts(context.Background(), "acct-1", 0, 10, nil)
	if err != nil {
		t.Fatalf("ListAssignedProducts: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected an empty diary, got %+v", remaining)
	}
}
