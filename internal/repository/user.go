// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"socialite/internal/cache"
	"socialite/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users. It is the store
// boundary consumed by the services; all state lives behind it.
type UserRepository interface {
	// Create persists a new user. It fails with a CONFLICT error when the
	// username or email is already taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// Search matches the query case-insensitively against username, name and
	// bio. Results are unranked, in store-iteration order.
	Search(ctx context.Context, query string) ([]models.User, error)
	// Save upserts by id. There is no optimistic-lock or version check.
	Save(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	// Best-effort pre-checks for precise error messages. The unique indexes
	// are the backstop; concurrent creators can still race to the constraint.
	if existing, err := r.GetByUsername(ctx, user.Username); err == nil && existing != nil {
		return models.NewConflictError("Username already exists")
	} else if err != nil && !models.IsCode(err, models.CodeNotFound) {
		return err
	}
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return models.NewConflictError("Email already exists")
	} else if err != nil && !models.IsCode(err, models.CodeNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// userCacheEntry is the cache-only serialization of a user. The API shape of
// models.User hides the password from JSON, so the entry carries it in a
// separate field; without this a cache hit would hand mutating paths a record
// with an empty password, and their full-record Save would persist it.
type userCacheEntry struct {
	User     models.User `json:"user"`
	Password string      `json:"password"`
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var entry userCacheEntry
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &entry, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry.User).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry.Password = entry.User.Password
		return nil
	})
	if err != nil {
		return nil, err
	}

	user := entry.User
	user.Password = entry.Password
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ? OR LOWER(bio) LIKE ?", pattern, pattern, pattern).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// isUniqueViolation checks if a DB error is a unique constraint violation.
// PostgreSQL reports SQLSTATE 23505; the string fallback covers SQLite in
// tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
