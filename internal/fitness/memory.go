package fitness

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitbase.org/internal/ids"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a mutex-guarded in-memory Store for development and tests.
type MemoryStore struct {
	mu          sync.Mutex
	workouts    map[string]*Workout
	exercises   map[string]*Exercise
	products    map[string]*Product
	assignments map[string]*AssignedProduct
	links       map[string]map[string]bool // workout id -> exercise ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workouts:    make(map[string]*Workout),
		exercises:   make(map[string]*Exercise),
		products:    make(map[string]*Product),
		assignments: make(map[string]*AssignedProduct),
		links:       make(map[string]map[string]bool),
	}
}

func cloneWorkout(w *Workout) *Workout {
	c := *w
	return &c
}

func (s *MemoryStore) Create(ctx context.Context, w *Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = ids.New()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	s.workouts[w.ID] = cloneWorkout(w)
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id string) (*Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneWorkout(w), nil
}

func (s *MemoryStore) ListByAccount(ctx context.Context, accountID string) ([]*Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Workout
	for _, w := range s.workouts {
		if w.AccountID == accountID {
			out = append(out, cloneWorkout(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, w *Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.workouts[w.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneWorkout(w)
	updated.AccountID = stored.AccountID
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.workouts[w.ID] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[id]; !ok {
		return ErrNotFound
	}
	delete(s.workouts, id)
	delete(s.links, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, skip, take int) ([]*Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		all = append(all, cloneWorkout(w))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, skip, take), nil
}

func (s *MemoryStore) LinkExercise(ctx context.Context, workoutID, exerciseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[workoutID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.exercises[exerciseID]; !ok {
		return ErrNotFound
	}
	if s.links[workoutID] == nil {
		s.links[workoutID] = make(map[string]bool)
	}
	s.links[workoutID][exerciseID] = true
	return nil
}

func (s *MemoryStore) Exercises(ctx context.Context, workoutID string) ([]*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[workoutID]; !ok {
		return nil, ErrNotFound
	}
	var out []*Exercise
	for id := range s.links[workoutID] {
		if e, ok := s.exercises[id]; ok {
			out = append(out, cloneExercise(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneExercise(e *Exercise) *Exercise {
	c := *e
	return &c
}

func (s *MemoryStore) CreateExercise(ctx context.Context, e *Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = ids.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.exercises[e.ID] = cloneExercise(e)
	return nil
}

func (s *MemoryStore) FindExercise(ctx context.Context, id string) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exercises[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneExercise(e), nil
}

func (s *MemoryStore) ListExercises(ctx context.Context, skip, take int) ([]*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		all = append(all, cloneExercise(e))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, skip, take), nil
}

func (s *MemoryStore) UpdateExercise(ctx context.Context, e *Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.exercises[e.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneExercise(e)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.exercises[e.ID] = updated
	return nil
}

func (s *MemoryStore) DeleteExercise(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exercises[id]; !ok {
		return ErrNotFound
	}
	delete(s.exercises, id)
	for _, linked := range s.links {
		delete(linked, id)
	}
	return nil
}

func cloneProduct(p *Product) *Product {
	c := *p
	return &c
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = ids.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = cloneProduct(p)
	return nil
}

func (s *MemoryStore) FindProduct(ctx context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, skip, take int) ([]*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, cloneProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, skip, take), nil
}

func (s *MemoryStore) SearchProducts(ctx context.Context, name, barcode string) ([]*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Product
	for _, p := range s.products {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if barcode != "" && p.Barcode != barcode {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneProduct(p)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = updated
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	for aid, a := range s.assignments {
		if a.ProductID == id {
			delete(s.assignments, aid)
		}
	}
	return nil
}

func cloneAssignment(a *AssignedProduct) *AssignedProduct {
	c := *a
	return &c
}

func (s *MemoryStore) SaveAssignment(ctx context.Context, a *AssignedProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = ids.New()
	}
	s.assignments[a.ID] = cloneAssignment(a)
	return nil
}

func (s *MemoryStore) FindAssignment(ctx context.Context, accountID, productID string, day time.Time) (*AssignedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.AccountID == accountID && a.ProductID == productID && a.Added.Equal(day) {
			return cloneAssignment(a), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindAssignmentByID(ctx context.Context, accountID, id string, day time.Time) (*AssignedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok || a.AccountID != accountID || !a.Added.Equal(day) {
		return nil, ErrNotFound
	}
	return cloneAssignment(a), nil
}

func (s *MemoryStore) ListAssignments(ctx context.Context, accountID string, skip, take int, day *time.Time) ([]*AssignedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*AssignedProduct
	for _, a := range s.assignments {
		if a.AccountID != accountID {
			continue
		}
		if day != nil && !a.Added.Equal(*day) {
			continue
		}
		out = append(out, cloneAssignment(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, skip, take), nil
}

func (s *MemoryStore) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(s.assignments, id)
	return nil
}

func page[T any](all []T, skip, take int) []T {
	if skip >= len(all) {
		return nil
	}
	all = all[skip:]
	if take < len(all) {
		all = all[:take]
	}
	return all
}
