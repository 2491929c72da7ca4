package fitness

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("fitness: not found")
	ErrInvalidInput = errors.New("fitness: invalid input")
)

const maxNameLength = 100

// WorkoutStore describes workout persistence, including the links into the
// exercise catalog.
type WorkoutStore interface {
	Create(ctx context.Context, w *Workout) error
	Find(ctx context.Context, id string) (*Workout, error)
	List(ctx context.Context, skip, take int) ([]*Workout, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Workout, error)
	Update(ctx context.Context, w *Workout) error
	Delete(ctx context.Context, id string) error
	LinkExercise(ctx context.Context, workoutID, exerciseID string) error
	Exercises(ctx context.Context, workoutID string) ([]*Exercise, error)
}

// Store is the full persistence surface of the package. PGStore and
// MemoryStore implement all of it.
type Store interface {
	WorkoutStore
	ExerciseStore
	ProductStore
	DiaryStore
}

// Service validates input and delegates to the store. Ownership is enforced
// by the caller against the returned entities, not here.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("fitness: store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) Create(ctx context.Context, accountID, name, description string) (*Workout, error) {
	name = strings.TrimSpace(name)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: workout name is too long", ErrInvalidInput)
	}
	w := &Workout{
		AccountID:   accountID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Find(ctx context.Context, id string) (*Workout, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: workout id is required", ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]*Workout, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return s.store.ListByAccount(ctx, accountID)
}

func (s *Service) Update(ctx context.Context, w *Workout) error {
	if w == nil || strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("%w: workout id is required", ErrInvalidInput)
	}
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" || len(w.Name) > maxNameLength {
		return fmt.Errorf("%w: workout name is required", ErrInvalidInput)
	}
	return s.store.Update(ctx, w)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: workout id is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// List returns a page of all workouts regardless of owner.
func (s *Service) List(ctx context.Context, skip, take int) ([]*Workout, error) {
	if skip < 0 || take <= 0 {
		return nil, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	return s.store.List(ctx, skip, take)
}

// AttachExercise links a catalog exercise to a workout. Linking the same
// exercise twice is a no-op.
func (s *Service) AttachExercise(ctx context.Context, workoutID, exerciseID string) error {
	if strings.TrimSpace(workoutID) == "" || strings.TrimSpace(exerciseID) == "" {
		return fmt.Errorf("%w: workout and exercise ids are required", ErrInvalidInput)
	}
	if _, err := s.store.FindExercise(ctx, exerciseID); err != nil {
		return err
	}
	return s.store.LinkExercise(ctx, workoutID, exerciseID)
}

// WorkoutExercises returns the exercises linked to a workout.
func (s *Service) WorkoutExercises(ctx context.Context, workoutID string) ([]*Exercise, error) {
	if strings.TrimSpace(workoutID) == "" {
		return nil, fmt.Errorf("%w: workout id is required", ErrInvalidInput)
	}
	return s.store.Exercises(ctx, workoutID)
}
