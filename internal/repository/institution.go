package repository

import (
	"context"
	"errors"
	"strings"

	"alumlink/internal/cache"
	"alumlink/internal/models"

	"gorm.io/gorm"
)

// InstitutionRepository defines persistence operations for institutions.
type InstitutionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Institution, error)
	GetByName(ctx context.Context, name string) (*models.Institution, error)
	// FindOrCreate looks an institution up by normalized name, creating it
	// when it does not exist yet.
	FindOrCreate(ctx context.Context, name string, instType models.AdminType, createdBy uint) (*models.Institution, error)
	List(ctx context.Context, limit, offset int) ([]models.Institution, error)
}

type institutionRepository struct {
	db *gorm.DB
}

// NewInstitutionRepository returns a new InstitutionRepository implementation.
func NewInstitutionRepository(db *gorm.DB) InstitutionRepository {
	return &institutionRepository{db: db}
}

func (r *institutionRepository) GetByID(ctx context.Context, id uint) (*models.Institution, error) {
	var inst models.Institution
	key := cache.InstitutionKey(id)

	err := cache.Aside(ctx, key, &inst, cache.InstitutionTTL, func() error {
		if err := r.db.WithContext(ctx).First(&inst, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Institution", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *institutionRepository) GetByName(ctx context.Context, name string) (*models.Institution, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	var inst models.Institution
	if err := r.db.WithContext(ctx).Where("normalized_name = ?", normalized).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &inst, nil
}

func (r *institutionRepository) FindOrCreate(ctx context.Context, name string, instType models.AdminType, createdBy uint) (*models.Institution, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	inst := models.Institution{
		Name:            strings.TrimSpace(name),
		Type:            instType,
		CreatedByUserID: createdBy,
	}
	if err := r.db.WithContext(ctx).Create(&inst).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a creation race; the row exists now.
			return r.GetByName(ctx, name)
		}
		return nil, models.NewInternalError(err)
	}
	return &inst, nil
}

func (r *institutionRepository) List(ctx context.Context, limit, offset int) ([]models.Institution, error) {
	var insts []models.Institution
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).Offset(offset).
		Find(&insts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return insts, nil
}
