package fitness

import (
	"context"
	"fmt"
	"strings"
)

// ExerciseStore describes exercise catalog persistence.
type ExerciseStore interface {
	CreateExercise(ctx context.Context, e *Exercise) error
	FindExercise(ctx context.Context, id string) (*Exercise, error)
	ListExercises(ctx context.Context, skip, take int) ([]*Exercise, error)
	UpdateExercise(ctx context.Context, e *Exercise) error
	DeleteExercise(ctx context.Context, id string) error
}

func validateExercise(e *Exercise) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidInput)
	}
	if len(e.Name) > maxNameLength {
		return fmt.Errorf("%w: exercise name is too long", ErrInvalidInput)
	}
	if e.BurnedCalories < 0 {
		return fmt.Errorf("%w: burned calories cannot be negative", ErrInvalidInput)
	}
	if e.Difficulty < 0 || e.Series < 0 || e.Repetition < 0 || e.Weight < 0 {
		return fmt.Errorf("%w: exercise numbers cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateExercise(ctx context.Context, e *Exercise) error {
	if e == nil {
		return fmt.Errorf("%w: exercise is required", ErrInvalidInput)
	}
	if err := validateExercise(e); err != nil {
		return err
	}
	return s.store.CreateExercise(ctx, e)
}

func (s *Service) FindExercise(ctx context.Context, id string) (*Exercise, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: exercise id is required", ErrInvalidInput)
	}
	return s.store.FindExercise(ctx, id)
}

func (s *Service) ListExercises(ctx context.Context, skip, take int) ([]*Exercise, error) {
	if skip < 0 || take <= 0 {
		return nil, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	return s.store.ListExercises(ctx, skip, take)
}

func (s *Service) UpdateExercise(ctx context.Context, e *Exercise) error {
	if e == nil || strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: exercise id is required", ErrInvalidInput)
	}
	if err := validateExercise(e); err != nil {
		return err
	}
	return s.store.UpdateExercise(ctx, e)
}

func (s *Service) DeleteExercise(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: exercise id is required", ErrInvalidInput)
	}
	return s.store.DeleteExercise(ctx, id)
}
