package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitbase.org/internal/ids"
)

var (
	_ AccountStore      = (*MemoryStore)(nil)
	_ RefreshTokenStore = (*MemoryStore)(nil)
)

// MemoryStore is a mutex-guarded in-memory implementation of the auth stores,
// used for local development and tests. Rotation performs its compare-and-swap
// under the store lock, giving the same single-winner guarantee as Postgres.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	byEmail  map[string]string
	roles    map[string][]string
	tokens   map[string]*RefreshToken // keyed by account id
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
		roles:    make(map[string][]string),
		tokens:   make(map[string]*RefreshToken),
		now:      time.Now,
	}
}

func cloneAccount(a *Account) *Account {
	c := *a
	return &c
}

func cloneToken(t *RefreshToken) *RefreshToken {
	c := *t
	return &c
}

func (s *MemoryStore) Find(ctx context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(a), nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(s.accounts[id]), nil
}

func (s *MemoryStore) Create(ctx context.Context, account *Account, password string) error {
	if password != "" {
		if reasons := ValidatePassword(password); len(reasons) > 0 {
			return &ValidationError{Reasons: reasons}
		}
		hashed, err := HashPassword(password)
		if err != nil {
			return err
		}
		account.PasswordHash = hashed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(account.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrConflict
	}
	if account.ID == "" {
		account.ID = ids.New()
	}
	now := s.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = cloneAccount(account)
	s.byEmail[email] = account.ID
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneAccount(account)
	updated.Email = stored.Email
	updated.PasswordHash = stored.PasswordHash
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = s.now().UTC()
	s.accounts[account.ID] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, strings.ToLower(a.Email))
	delete(s.accounts, id)
	delete(s.roles, id)
	delete(s.tokens, id)
	return nil
}

func (s *MemoryStore) VerifyPassword(ctx context.Context, accountID, password string) error {
	s.mu.Lock()
	a, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if a.PasswordHash == "" {
		return ErrUnauthorized
	}
	if err := VerifyPassword(a.PasswordHash, password); err != nil {
		return ErrUnauthorized
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, skip, take int) ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idList := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		idList = append(idList, id)
	}
	sort.Strings(idList)

	var out []*Account
	for i, id := range idList {
		if i < skip {
			continue
		}
		if take > 0 && len(out) >= take {
			break
		}
		out = append(out, cloneAccount(s.accounts[id]))
	}
	return out, nil
}

func (s *MemoryStore) Search(ctx context.Context, email, username string) ([]*Account, error) {
	if email == "" && username == "" {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Account
	for _, a := range s.accounts {
		if email != "" && !strings.EqualFold(a.Email, email) {
			continue
		}
		if username != "" && a.Username != username {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Roles(ctx context.Context, accountID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := s.roles[accountID]
	out := make([]string, len(roles))
	copy(out, roles)
	return out, nil
}

func (s *MemoryStore) SetRoles(ctx context.Context, accountID string, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return ErrNotFound
	}
	out := make([]string, len(roles))
	copy(out, roles)
	sort.Strings(out)
	s.roles[accountID] = out
	return nil
}

func (s *MemoryStore) FindByAccount(ctx context.Context, accountID string) (*RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[accountID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneToken(t), nil
}

func (s *MemoryStore) FindByValue(ctx context.Context, value string) (*RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Value == value {
			return cloneToken(t), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Save(ctx context.Context, tok *RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok.AccountID] = cloneToken(tok)
	return nil
}

func (s *MemoryStore) Rotate(ctx context.Context, presented string, next *RefreshToken) (*RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	for _, t := range s.tokens {
		if t.Value != presented {
			continue
		}
		if t.Expired(now) {
			return nil, ErrNotFound
		}
		t.Value = next.Value
		t.ExpiresAt = next.ExpiresAt
		return cloneToken(t), nil
	}
	return nil, ErrNotFound
}
