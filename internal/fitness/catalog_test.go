package fitness

import (
	"context"
	"errors"
	"testing"
)

func TestExerciseValidation(t *testing.T) {
	svc := newTestService(t)

	if err := svc.CreateExercise(context.Background(), &Exercise{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a blank name, got %v", err)
	}
	if err := svc.CreateExercise(context.Background(), &Exercise{Name: "Squat", BurnedCalories: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative calories, got %v", err)
	}
	if err := svc.CreateExercise(context.Background(), &Exercise{Name: "Squat", Series: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a negative series count, got %v", err)
	}
}

func TestExerciseLifecycle(t *testing.T) {
	svc := newTestService(t)

	e := &Exercise{Name: " Squat ", BodyPart: "legs", BurnedCalories: 120, Series: 3, Repetition: 10}
	if err := svc.CreateExercise(context.Background(), e); err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if e.Name != "Squat" {
		t.Fatalf("expected trimmed name, got %q", e.Name)
	}

	e.Repetition = 12
	if err := svc.UpdateExercise(context.Background(), e); err != nil {
		t.Fatalf("UpdateExercise: %v", err)
	}
	stored, err := svc.FindExercise(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("FindExercise: %v", err)
	}
	if stored.Repetition != 12 {
		t.Fatalf("update lost: %d", stored.Repetition)
	}

	if err := svc.DeleteExercise(context.Background(), e.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	if _, err := svc.FindExercise(context.Background(), e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachExercise(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), "acct-1", "Leg day", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	e := &Exercise{Name: "Squat"}
	if err := svc.CreateExercise(context.Background(), e); err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}

	if err := svc.AttachExercise(context.Background(), w.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown exercise, got %v", err)
	}

	if err := svc.AttachExercise(context.Background(), w.ID, e.ID); err != nil {
		t.Fatalf("AttachExercise: %v", err)
	}
	// Linking again is a no-op.
	if err := svc.AttachExercise(context.Background(), w.ID, e.ID); err != nil {
		t.Fatalf("repeated AttachExercise: %v", err)
	}
	linked, err := svc.WorkoutExercises(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("WorkoutExercises: %v", err)
	}
	if len(linked) != 1 || linked[0].ID != e.ID {
		t.Fatalf("unexpected links: %+v", linked)
	}
}

func TestProductSearch(t *testing.T) {
	svc := newTestService(t)

	oats := &Product{Name: "Rolled Oats", Calories: 370, Barcode: "590123"}
	rice := &Product{Name: "Brown Rice", Calories: 350, Barcode: "590456"}
	for _, p := range []*Product{oats, rice} {
		if err := svc.CreateProduct(context.Background(), p); err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
	}

	if _, err := svc.SearchProducts(context.Background(), "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without criteria, got %v", err)
	}

	byName, err := svc.SearchProducts(context.Background(), "oats", "")
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != oats.ID {
		t.Fatalf("expected the substring match, got %+v", byName)
	}

	byBarcode, err := svc.SearchProducts(context.Background(), "", "590456")
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(byBarcode) != 1 || byBarcode[0].ID != rice.ID {
		t.Fatalf("expected the exact barcode match, got %+v", byBarcode)
	}

	none, err := svc.SearchProducts(context.Background(), "oats", "590456")
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("criteria must combine, got %+v", none)
	}
}

func TestProductValidation(t *testing.T) {
	svc := newTestService(t)

	if err := svc.CreateProduct(context.Background(), &Product{Name: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a blank name, got %v", err)
	}
	if err := svc.CreateProduct(context.Background(), &Product{Name: "Oats", Calories: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative calories, got %v", err)
	}
}
