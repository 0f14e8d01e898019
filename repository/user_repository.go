package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skyview-backend/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, wrap("List", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap("GetByID", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap("GetByUsername", err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return wrap("Create", r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.User, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, wrap("Update", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: Update", ErrNotFound)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return wrap("Delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: Delete", ErrNotFound)
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, wrap("CountByRole", err)
	}
	return count, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return wrap("TouchLastLogin", r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error)
}
