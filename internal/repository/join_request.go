package repository

import (
	"context"
	"errors"
	"time"

	"alumlink/internal/models"

	"gorm.io/gorm"
)

// JoinRequestRepository defines persistence operations for membership join requests.
type JoinRequestRepository interface {
	Create(ctx context.Context, req *models.JoinRequest) error
	GetByID(ctx context.Context, id uint) (*models.JoinRequest, error)
	ListPendingByInstitution(ctx context.Context, institutionID uint, limit, offset int) ([]models.JoinRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.JoinRequest, error)
	HasPending(ctx context.Context, userID, institutionID uint) (bool, error)
	Decide(ctx context.Context, id uint, status models.JoinRequestStatus, reviewerID uint, at time.Time) (*models.JoinRequest, error)
}

type joinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository returns a new JoinRequestRepository implementation.
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *models.JoinRequest) error {
	pending, err := r.HasPending(ctx, req.UserID, req.InstitutionID)
	if err != nil {
		return err
	}
	if pending {
		return models.NewConflictError("A pending join request already exists for this institution")
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id uint) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Institution").
		First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("JoinRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *joinRequestRepository) ListPendingByInstitution(ctx context.Context, institutionID uint, limit, offset int) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("institution_id = ? AND status = ?", institutionID, models.JoinRequestPending).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *joinRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	if err := r.db.WithContext(ctx).
		Preload("Institution").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *joinRequestRepository) HasPending(ctx context.Context, userID, institutionID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("user_id = ? AND institution_id = ? AND status = ?", userID, institutionID, models.JoinRequestPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *joinRequestRepository) Decide(ctx context.Context, id uint, status models.JoinRequestStatus, reviewerID uint, at time.Time) (*models.JoinRequest, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, models.JoinRequestPending).
		Updates(map[string]any{
			"status":              status,
			"reviewed_by_user_id": reviewerID,
			"reviewed_at":         at,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var req models.JoinRequest
		if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("JoinRequest", id)
			}
			return nil, models.NewInternalError(err)
		}
		return nil, models.NewConflictError("Join request has already been reviewed")
	}
	return r.GetByID(ctx, id)
}
