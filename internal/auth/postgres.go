package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"fitbase.org/internal/ids"
)

var (
	_ AccountStore      = (*PGStore)(nil)
	_ RefreshTokenStore = (*PGStore)(nil)
)

// PGStore implements AccountStore and RefreshTokenStore on PostgreSQL.
// Refresh rotation relies on a conditional update keyed on the presented
// token value, so concurrent redeemers are serialized by the database.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const accountColumns = `id, username, email, coalesce(password_hash, ''), weight, height, target_weight, age, kcal, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.Weight, &a.Height, &a.TargetWeight, &a.Age, &a.Kcal,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where email=$1`, email)
	return scanAccount(row)
}

func (s *PGStore) Create(ctx context.Context, account *Account, password string) error {
	if account.ID == "" {
		account.ID = ids.New()
	}
	var hash sql.NullString
	if password != "" {
		if reasons := ValidatePassword(password); len(reasons) > 0 {
			return &ValidationError{Reasons: reasons}
		}
		hashed, err := HashPassword(password)
		if err != nil {
			return err
		}
		hash = sql.NullString{String: hashed, Valid: true}
		account.PasswordHash = hashed
	}
	_, err := s.db.ExecContext(ctx,
		`insert into accounts(id, username, email, password_hash) values($1,$2,$3,$4)`,
		account.ID, account.Username, account.Email, hash,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PGStore) Update(ctx context.Context, account *Account) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set username=$2, weight=$3, height=$4, target_weight=$5, age=$6, kcal=$7, updated_at=now()
		 where id=$1`,
		account.ID, account.Username, account.Weight, account.Height,
		account.TargetWeight, account.Age, account.Kcal,
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

// Delete removes the account; the refresh token row goes with it through the
// foreign key cascade.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from accounts where id=$1`, id)
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

func (s *PGStore) VerifyPassword(ctx context.Context, accountID, password string) error {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		`select password_hash from accounts where id=$1`, accountID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !hash.Valid || hash.String == "" {
		// Federated account without a local credential.
		return ErrUnauthorized
	}
	if err := VerifyPassword(hash.String, password); err != nil {
		return ErrUnauthorized
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, skip, take int) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts order by id offset $1 limit $2`, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PGStore) Search(ctx context.Context, email, username string) ([]*Account, error) {
	if email == "" && username == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts
		 where ($1 = '' or email = $1) and ($2 = '' or username = $2)
		 order by id`, email, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PGStore) Roles(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`select role from account_roles where account_id=$1 order by role`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (s *PGStore) SetRoles(ctx context.Context, accountID string, roles []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from account_roles where account_id=$1`, accountID); err != nil {
		return err
	}
	for _, role := range roles {
		_, err := tx.ExecContext(ctx,
			`insert into account_roles(account_id, role) values($1,$2) on conflict do nothing`,
			accountID, role,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Refresh token store ------------------------------------------------------

const refreshColumns = `id, account_id, value, expires_at, created_at`

func scanRefreshToken(row interface{ Scan(...any) error }) (*RefreshToken, error) {
	var t RefreshToken
	err := row.Scan(&t.ID, &t.AccountID, &t.Value, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *PGStore) FindByAccount(ctx context.Context, accountID string) (*RefreshToken, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+refreshColumns+` from refresh_tokens where account_id=$1`, accountID)
	return scanRefreshToken(row)
}

func (s *PGStore) FindByValue(ctx context.Context, value string) (*RefreshToken, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+refreshColumns+` from refresh_tokens where value=$1`, value)
	return scanRefreshToken(row)
}

func (s *PGStore) Save(ctx context.Context, tok *RefreshToken) error {
	if tok.ID == "" {
		tok.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into refresh_tokens(id, account_id, value, expires_at)
		 values($1,$2,$3,$4)
		 on conflict (account_id) do update set value=excluded.value, expires_at=excluded.expires_at`,
		tok.ID, tok.AccountID, tok.Value, tok.ExpiresAt,
	)
	return err
}

// Rotate is the redemption point: one conditional update replaces value and
// expiry only while the stored value still equals the presented string and
// the token is live. Zero rows means someone else already rotated it.
func (s *PGStore) Rotate(ctx context.Context, presented string, next *RefreshToken) (*RefreshToken, error) {
	row := s.db.QueryRowContext(ctx,
		`update refresh_tokens set value=$2, expires_at=$3
		 where value=$1 and expires_at > $4
		 returning `+refreshColumns,
		presented, next.Value, next.ExpiresAt, time.Now().UTC(),
	)
	return scanRefreshToken(row)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
