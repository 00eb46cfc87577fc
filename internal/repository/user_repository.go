package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cliphub/internal/model"
)

// UserRepository defines user persistence operations.
//
// UpdateFields and SetRefreshToken are targeted updates: they touch only
// the named columns and skip model hooks and full-record validation.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmailOrUsername(ctx context.Context, identifier string) (*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername resolves a login identifier that may be either an
// email address or a username.
func (r *userRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SetRefreshToken overwrites the single refresh token slot; nil clears it.
func (r *userRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// RotateRefreshToken swaps the stored refresh token from current to next
// in a single compare-and-swap update. Returns false when the stored value
// no longer equals current, i.e. a concurrent rotation won the race.
func (r *userRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
