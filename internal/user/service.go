package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/promosite/service-api/internal/auth"
	"github.com/promosite/service-api/internal/user/entity"
	"github.com/promosite/service-api/pkg/utilities"
)

// Repository is the store contract the service depends on. The sqlx
// implementation lives in the repo subpackage; tests substitute fakes.
type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// PasswordHasher defines the minimal hashing interface (abstract so we can
// swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail reports an email already held by another account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrBadCredentials covers both unknown email and wrong password so the
	// login response never leaks account existence.
	ErrBadCredentials = errors.New("invalid credentials")
)

// Service orchestrates registration, authentication and user lifecycle.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens *auth.TokenManager
}

func NewService(repo Repository, hasher PasswordHasher, tokens *auth.TokenManager) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a user and returns its public projection plus a signed
// session token.
func (s *Service) Register(ctx context.Context, name, email, phone, password string) (*entity.PublicUser, string, error) {
	email = normalizeEmail(email)

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           utilities.NewKSUID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// concurrent registration racing on the same email loses here
		if isUniqueViolation(err) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u.Public(), token, nil
}

// Login verifies credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.PublicUser, string, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, "", ErrBadCredentials
	}
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u.Public(), token, nil
}

// Get returns the public projection for a user id.
func (s *Service) Get(ctx context.Context, id string) (*entity.PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u.Public(), nil
}

// List returns public projections for all users.
func (s *Service) List(ctx context.Context) ([]*entity.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// UpdateInput lists every optional profile field. Only non-nil fields are
// applied.
type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Update applies a partial profile update. Changing the email to one held
// by another account fails with ErrDuplicateEmail.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !strings.EqualFold(email, u.Email) {
			other, err := s.repo.GetByEmail(ctx, email)
			if err == nil && other.ID != id {
				return nil, ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
		}
		u.Email = email
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	u.UpdatedAt = time.Now().UTC()

	rows, err := s.repo.Update(ctx, u)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return u.Public(), nil
}

// Delete removes a user by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
