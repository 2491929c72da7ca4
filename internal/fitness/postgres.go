package fitness

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitbase.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const workoutColumns = `id, account_id, name, description, completed, created_at, updated_at`

func scanWorkout(row interface{ Scan(...any) error }) (*Workout, error) {
	var w Workout
	err := row.Scan(&w.ID, &w.AccountID, &w.Name, &w.Description, &w.Completed, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (s *PGStore) Create(ctx context.Context, w *Workout) error {
	if w.ID == "" {
		w.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into workouts(id, account_id, name, description, completed) values($1,$2,$3,$4,$5)`,
		w.ID, w.AccountID, w.Name, w.Description, w.Completed,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Workout, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+workoutColumns+` from workouts where id=$1`, id)
	return scanWorkout(row)
}

func (s *PGStore) ListByAccount(ctx context.Context, accountID string) ([]*Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+workoutColumns+` from workouts where account_id=$1 order by created_at`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []*Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, w *Workout) error {
	res, err := s.db.ExecContext(ctx,
		`update workouts set name=$2, description=$3, completed=$4, updated_at=now() where id=$1`,
		w.ID, w.Name, w.Description, w.Completed,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from workouts where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, skip, take int) ([]*Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+workoutColumns+` from workouts order by id offset $1 limit $2`, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []*Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (s *PGStore) LinkExercise(ctx context.Context, workoutID, exerciseID string) error {
	_, err := s.db.ExecContext(ctx,
		`insert into workout_exercises(workout_id, exercise_id) values($1,$2) on conflict do nothing`,
		workoutID, exerciseID,
	)
	return err
}

func (s *PGStore) Exercises(ctx context.Context, workoutID string) ([]*Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+exerciseColumns+` from exercises e
		 join workout_exercises we on we.exercise_id = e.id
		 where we.workout_id = $1 order by e.id`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []*Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

const exerciseColumns = `e.id, e.name, e.description, e.body_part, e.video_url, e.burned_calories,
	e.is_weight_training, e.difficulty, e.series, e.repetition, e.weight, e.created_at, e.updated_at`

func scanExercise(row interface{ Scan(...any) error }) (*Exercise, error) {
	var e Exercise
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.BodyPart, &e.VideoURL, &e.BurnedCalories,
		&e.IsWeightTraining, &e.Difficulty, &e.Series, &e.Repetition, &e.Weight, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PGStore) CreateExercise(ctx context.Context, e *Exercise) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into exercises(id, name, description, body_part, video_url, burned_calories,
		 is_weight_training, difficulty, series, repetition, weight)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.Name, e.Description, e.BodyPart, e.VideoURL, e.BurnedCalories,
		e.IsWeightTraining, e.Difficulty, e.Series, e.Repetition, e.Weight,
	)
	return err
}

func (s *PGStore) FindExercise(ctx context.Context, id string) (*Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+exerciseColumns+` from exercises e where e.id=$1`, id)
	return scanExercise(row)
}

func (s *PGStore) ListExercises(ctx context.Context, skip, take int) ([]*Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+exerciseColumns+` from exercises e order by e.id offset $1 limit $2`, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []*Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (s *PGStore) UpdateExercise(ctx context.Context, e *Exercise) error {
	res, err := s.db.ExecContext(ctx,
		`update exercises set name=$2, description=$3, body_part=$4, video_url=$5,
		 burned_calories=$6, is_weight_training=$7, difficulty=$8, series=$9,
		 repetition=$10, weight=$11, updated_at=now() where id=$1`,
		e.ID, e.Name, e.Description, e.BodyPart, e.VideoURL,
		e.BurnedCalories, e.IsWeightTraining, e.Difficulty, e.Series,
		e.Repetition, e.Weight,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *PGStore) DeleteExercise(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from exercises where id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const productColumns = `id, name, calories, carbs, fat, protein, barcode, weight, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Calories, &p.Carbs, &p.Fat, &p.Protein,
		&p.Barcode, &p.Weight, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into products(id, name, calories, carbs, fat, protein, barcode, weight)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Calories, p.Carbs, p.Fat, p.Protein, p.Barcode, p.Weight,
	)
	return err
}

func (s *PGStore) FindProduct(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+productColumns+` from products where id=$1`, id)
	return scanProduct(row)
}

func (s *PGStore) ListProducts(ctx context.Context, skip, take int) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+productColumns+` from products order by id offset $1 limit $2`, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// SearchProducts matches the name as a case-insensitive substring and the
// barcode exactly. Empty criteria are skipped.
func (s *PGStore) SearchProducts(ctx context.Context, name, barcode string) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+productColumns+` from products
		 where ($1 = '' or name ilike '%' || $1 || '%')
		   and ($2 = '' or barcode = $2)
		 order by id`, name, barcode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PGStore) UpdateProduct(ctx context.Context, p *Product) error {
	res, err := s.db.ExecContext(ctx,
		`update products set name=$2, calories=$3, carbs=$4, fat=$5, protein=$6,
		 barcode=$7, weight=$8, updated_at=now() where id=$1`,
		p.ID, p.Name, p.Calories, p.Carbs, p.Fat, p.Protein, p.Barcode, p.Weight,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *PGStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from products where id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const assignmentColumns = `id, account_id, product_id, added, weight, count`

func scanAssignment(row interface{ Scan(...any) error }) (*AssignedProduct, error) {
	var a AssignedProduct
	err := row.Scan(&a.ID, &a.AccountID, &a.ProductID, &a.Added, &a.Weight, &a.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *PGStore) SaveAssignment(ctx context.Context, a *AssignedProduct) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into assigned_products(id, account_id, product_id, added, weight, count)
		 values($1,$2,$3,$4,$5,$6)`,
		a.ID, a.AccountID, a.ProductID, a.Added, a.Weight, a.Count,
	)
	return err
}

func (s *PGStore) FindAssignment(ctx context.Context, accountID, productID string, day time.Time) (*AssignedProduct, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+assignmentColumns+` from assigned_products
		 where account_id=$1 and product_id=$2 and added=$3`,
		accountID, productID, day)
	return scanAssignment(row)
}

func (s *PGStore) FindAssignmentByID(ctx context.Context, accountID, id string, day time.Time) (*AssignedProduct, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+assignmentColumns+` from assigned_products
		 where id=$1 and account_id=$2 and added=$3`,
		id, accountID, day)
	return scanAssignment(row)
}

func (s *PGStore) ListAssignments(ctx context.Context, accountID string, skip, take int, day *time.Time) ([]*AssignedProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+assignmentColumns+` from assigned_products
		 where account_id=$1 and ($2::date is null or added=$2)
		 order by id offset $3 limit $4`,
		accountID, day, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*AssignedProduct
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func (s *PGStore) DeleteAssignment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from assigned_products where id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
