package fields

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for field data access
type Repository interface {
	CreateField(ctx context.Context, field *Field) error
	ListFieldsByUser(ctx context.Context, userID string) ([]Field, error)
	GetFieldByID(ctx context.Context, id uuid.UUID) (*Field, error)
	DeleteField(ctx context.Context, userID string, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed field repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateField(ctx context.Context, field *Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *gormRepository) ListFieldsByUser(ctx context.Context, userID string) ([]Field, error) {
	var result []Field
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *gormRepository) GetFieldByID(ctx context.Context, id uuid.UUID) (*Field, error) {
	var field Field
	if err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *gormRepository) DeleteField(ctx context.Context, userID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&Field{}).Error
}
