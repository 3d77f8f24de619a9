package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunIdentityStore is the reference IdentityStore backed by a bun database.
// It owns credential hashing and the unique-email constraint mapping.
type BunIdentityStore struct {
	repo   repository.Repository[*User]
	db     *bun.DB
	logger Logger
}

var _ IdentityStore = (*BunIdentityStore)(nil)

// BunIdentityStoreOption customizes store construction.
type BunIdentityStoreOption func(*BunIdentityStore)

// WithStoreLogger overrides the logger.
func WithStoreLogger(logger Logger) BunIdentityStoreOption {
	return func(s *BunIdentityStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBunIdentityStore creates the bun-backed credential store.
func NewBunIdentityStore(db *bun.DB, opts ...BunIdentityStoreOption) *BunIdentityStore {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	store := &BunIdentityStore{
		repo:   repo,
		db:     db,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

func (s *BunIdentityStore) CreateUser(ctx context.Context, record NewUserRecord) (*User, error) {
	var hash string
	if record.Password != "" {
		var err error
		if hash, err = HashPassword(record.Password); err != nil {
			return nil, NewAdapterError(AdapterCodeUnavailable, err)
		}
	} else {
		hash = RandomPasswordHash()
	}

	user := &User{
		ID:           uuid.New(),
		Name:         record.Name,
		Email:        normalizeEmail(record.Email),
		PasswordHash: hash,
		Role:         record.Role,
		LeaderStatus: record.LeaderStatus,
		Provider:     record.Provider,
	}
	user.EnsureRole()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewAdapterError(AdapterCodeDuplicate, err)
		}
		return nil, NewAdapterError(AdapterCodeUnavailable, err)
	}

	return created, nil
}

func (s *BunIdentityStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, NewAdapterError(AdapterCodeNotFound, err)
		}
		return nil, NewAdapterError(AdapterCodeUnavailable, err)
	}

	return record, nil
}

func (s *BunIdentityStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, NewAdapterError(AdapterCodeNotFound, err)
	}

	record := &User{}
	err = s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, NewAdapterError(AdapterCodeNotFound, err)
		}
		return nil, NewAdapterError(AdapterCodeUnavailable, err)
	}

	return record, nil
}

func (s *BunIdentityStore) UpdateUserFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return NewAdapterError(AdapterCodeNotFound, err)
	}

	q := s.db.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", uid)

	for column, value := range fields {
		q = q.Set("? = ?", bun.Ident(column), value)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return NewAdapterError(AdapterCodeUnavailable, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NewAdapterError(AdapterCodeNotFound, sql.ErrNoRows)
	}

	return nil
}

func (s *BunIdentityStore) ListUsers(ctx context.Context) ([]*User, error) {
	var records []*User
	err := s.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, NewAdapterError(AdapterCodeUnavailable, err)
	}

	return records, nil
}

func (s *BunIdentityStore) VerifyCredentials(ctx context.Context, email, password string) (*User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, NewAdapterError(AdapterCodeBadPassword, err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation matches the constraint error shapes of the dialects we
// run against (sqlite in tests, postgres in deployment).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "constraint failed: users.email")
}
