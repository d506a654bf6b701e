package repository

import (
	"context"
	"errors"
	"time"

	"alumlink/internal/models"

	"gorm.io/gorm"
)

// LinkRequestRepository defines persistence operations for link requests.
type LinkRequestRepository interface {
	Create(ctx context.Context, req *models.LinkRequest) error
	GetByID(ctx context.Context, id uint) (*models.LinkRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.LinkRequest, error)
	ListBySender(ctx context.Context, senderID uint) ([]models.LinkRequest, error)
	// LatestApprovedBySender returns the most recently reviewed approved
	// request for the sender, or nil when none exists.
	LatestApprovedBySender(ctx context.Context, senderID uint) (*models.LinkRequest, error)
	// Decide transitions a pending request to a terminal status. The update is
	// conditional on the request still being pending; a concurrent decision
	// that got there first surfaces as a conflict.
	Decide(ctx context.Context, id uint, status models.LinkRequestStatus, reviewerID uint, grantedLabel string, at time.Time) (*models.LinkRequest, error)
}

type linkRequestRepository struct {
	db *gorm.DB
}

// NewLinkRequestRepository returns a new LinkRequestRepository implementation.
func NewLinkRequestRepository(db *gorm.DB) LinkRequestRepository {
	return &linkRequestRepository{db: db}
}

func (r *linkRequestRepository) Create(ctx context.Context, req *models.LinkRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *linkRequestRepository) GetByID(ctx context.Context, id uint) (*models.LinkRequest, error) {
	var req models.LinkRequest
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("LinkRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *linkRequestRepository) ListPending(ctx context.Context, limit, offset int) ([]models.LinkRequest, error) {
	var reqs []models.LinkRequest
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("status = ?", models.LinkRequestPending).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *linkRequestRepository) ListBySender(ctx context.Context, senderID uint) ([]models.LinkRequest, error) {
	var reqs []models.LinkRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *linkRequestRepository) LatestApprovedBySender(ctx context.Context, senderID uint) (*models.LinkRequest, error) {
	var req models.LinkRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ? AND granted_hierarchy <> ''", senderID, models.LinkRequestApproved).
		Order("reviewed_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *linkRequestRepository) Decide(ctx context.Context, id uint, status models.LinkRequestStatus, reviewerID uint, grantedLabel string, at time.Time) (*models.LinkRequest, error) {
	updates := map[string]any{
		"status":              status,
		"reviewed_by_user_id": reviewerID,
		"reviewed_at":         at,
		"granted_hierarchy":   grantedLabel,
	}
	res := r.db.WithContext(ctx).
		Model(&models.LinkRequest{}).
		Where("id = ? AND status = ?", id, models.LinkRequestPending).
		Updates(updates)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the request does not exist or it was already decided.
		var req models.LinkRequest
		if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("LinkRequest", id)
			}
			return nil, models.NewInternalError(err)
		}
		return nil, models.NewConflictError("Link request has already been reviewed")
	}
	return r.GetByID(ctx, id)
}
