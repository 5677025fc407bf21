package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "userdir/internal/errors"
	"userdir/internal/model"
)

// UserRepository defines persistence operations for directory records. It is
// the single writer path for the users table; duplicate-email and not-found
// conditions are reported as domain sentinels, never as raw driver errors.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, query string, offset, limit int) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the record and fills in its assigned ID. Uniqueness is
// enforced by the email index at the database, so two concurrent creates with
// the same email cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns records in insertion order, optionally narrowed to names
// containing query. Matching is case-insensitive under the table's collation;
// offset and limit apply to the filtered set and are taken as given, the
// service layer clamps them beforehand.
func (r *userRepository) List(ctx context.Context, query string, offset, limit int) ([]model.User, error) {
	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where("name LIKE ?", "%"+escapeLike(query)+"%")
	}

	var users []model.User
	err := tx.
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// Update persists the record in a single all-field UPDATE, so an email
// conflict leaves no partial write behind. Zero affected rows means the
// record was deleted since it was loaded, reported as not found. Save would
// re-insert the row in that case, so the update is issued explicitly.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	tx := r.db.WithContext(ctx).Model(user).Select("*").Updates(user)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// escapeLike neutralizes LIKE metacharacters so a filter matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// translate maps GORM errors onto the domain taxonomy. Email is the table's
// only unique index, so a duplicated-key error always means an email conflict.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrEmailTaken
	default:
		return err
	}
}
