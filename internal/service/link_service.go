// Package service implements the business logic layer of the application.
package service

import (
	"context"
	"strings"
	"time"

	"alumlink/internal/hierarchy"
	"alumlink/internal/middleware"
	"alumlink/internal/models"
	"alumlink/internal/repository"
)

// reconcilePageSize bounds how many users a reconciliation pass loads at once.
const reconcilePageSize = 200

// LinkService provides hierarchy link-request business logic: filing
// requests, reviewing them, resolving a user's effective hierarchy and
// reconciling drifted cached labels.
type LinkService struct {
	linkRepo repository.LinkRequestRepository
	userRepo repository.UserRepository
}

// NewLinkService returns a new LinkService.
func NewLinkService(linkRepo repository.LinkRequestRepository, userRepo repository.UserRepository) *LinkService {
	return &LinkService{
		linkRepo: linkRepo,
		userRepo: userRepo,
	}
}

// HierarchyStatus describes a user's effective hierarchy and where it came from.
type HierarchyStatus struct {
	Label  string          `json:"label"`
	Level  hierarchy.Level `json:"level"`
	Source string          `json:"source"`
}

// CreateLinkRequest files a new pending hierarchy request for the sender.
func (s *LinkService) CreateLinkRequest(ctx context.Context, senderID uint, requestedLabel string) (*models.LinkRequest, error) {
	label := strings.TrimSpace(requestedLabel)
	if label == "" {
		return nil, models.NewValidationError("Requested hierarchy is required")
	}

	if _, err := s.userRepo.GetByID(ctx, senderID); err != nil {
		return nil, err
	}

	req := &models.LinkRequest{
		SenderID:           senderID,
		RequestedHierarchy: label,
		Status:             models.LinkRequestPending,
	}
	if err := s.linkRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.linkRepo.GetByID(ctx, req.ID)
}

// ListPendingRequests returns pending link requests, oldest first.
func (s *LinkService) ListPendingRequests(ctx context.Context, limit, offset int) ([]models.LinkRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.linkRepo.ListPending(ctx, limit, offset)
}

// ListRequestsBySender returns all link requests filed by the sender.
func (s *LinkService) ListRequestsBySender(ctx context.Context, senderID uint) ([]models.LinkRequest, error) {
	return s.linkRepo.ListBySender(ctx, senderID)
}

// ReviewRequest decides a pending link request. The reviewer may supply a
// granted label that differs from the requested one; when empty, the
// requested label is granted. The reviewer must either hold blanket grant
// rights or sit at or above the label being decided, for rejections as well
// as approvals, since a decision is terminal. The pending -> decided
// transition happens at most once; concurrent reviews lose with a conflict.
func (s *LinkService) ReviewRequest(ctx context.Context, reviewerID, requestID uint, approve bool, grantedLabel string) (*models.LinkRequest, error) {
	req, err := s.linkRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Decided() {
		return nil, models.NewConflictError("Link request has already been reviewed")
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.HasAdminCapability() {
		return nil, models.NewForbiddenError("Reviewing link requests requires admin access")
	}

	label := strings.TrimSpace(grantedLabel)
	if label == "" {
		label = req.RequestedHierarchy
	}
	if !reviewer.HasBlanketGrantRights() && !hierarchy.CanGrant(reviewer.AdminHierarchy, label) {
		return nil, models.NewForbiddenError("Your hierarchy level cannot grant the requested level")
	}

	granted := ""
	status := models.LinkRequestRejected
	if approve {
		granted = label
		status = models.LinkRequestApproved
	}

	decided, err := s.linkRepo.Decide(ctx, requestID, status, reviewerID, granted, time.Now())
	if err != nil {
		return nil, err
	}
	middleware.LinkReviewDecisions.WithLabelValues(string(status)).Inc()

	if status == models.LinkRequestApproved {
		// Write-through: the decision is committed, so a failure here leaves
		// the cached label behind until reconciliation catches up. The
		// request itself is never rolled back.
		at := time.Now()
		if decided.ReviewedAt != nil {
			at = *decided.ReviewedAt
		}
		if err := s.userRepo.GrantHierarchy(ctx, req.SenderID, granted, reviewerID, at); err != nil {
			middleware.Logger.ErrorContext(ctx, "hierarchy write-through failed, cached label is stale until reconcile",
				"request_id", requestID, "sender_id", req.SenderID, "error", err)
			return decided, models.NewInconsistentError("Request approved but the user's hierarchy could not be updated", err)
		}
	}

	return decided, nil
}

// EffectiveHierarchy resolves the user's effective hierarchy. The most
// recently reviewed approved link request wins; the cached label on the user
// record is the fallback.
func (s *LinkService) EffectiveHierarchy(ctx context.Context, userID uint) (*HierarchyStatus, error) {
	latest, err := s.linkRepo.LatestApprovedBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return &HierarchyStatus{
			Label:  latest.GrantedHierarchy,
			Level:  hierarchy.Classify(latest.GrantedHierarchy),
			Source: "request",
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &HierarchyStatus{
		Label:  user.AdminHierarchy,
		Level:  hierarchy.Classify(user.AdminHierarchy),
		Source: "cache",
	}, nil
}

// ReconcileAll sweeps every user and rewrites cached hierarchy labels that
// drifted from the latest approved link request. Users without an approved
// request are left untouched. The sweep is idempotent.
func (s *LinkService) ReconcileAll(ctx context.Context) (int, error) {
	updated := 0
	offset := 0
	for {
		users, err := s.userRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return updated, err
		}
		if len(users) == 0 {
			return updated, nil
		}

		for i := range users {
			user := &users[i]
			latest, err := s.linkRepo.LatestApprovedBySender(ctx, user.ID)
			if err != nil {
				return updated, err
			}
			if latest == nil || latest.GrantedHierarchy == user.AdminHierarchy {
				continue
			}
			if err := s.userRepo.SetAdminHierarchy(ctx, user.ID, latest.GrantedHierarchy); err != nil {
				return updated, err
			}
			middleware.Logger.InfoContext(ctx, "reconciled drifted hierarchy label",
				"user_id", user.ID, "from", user.AdminHierarchy, "to", latest.GrantedHierarchy)
			middleware.ReconcileUpdates.Inc()
			updated++
		}

		offset += len(users)
	}
}
