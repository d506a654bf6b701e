package service

import (
	"context"
	"time"

	"alumlink/internal/models"
	"alumlink/internal/repository"
)

// MembershipService provides institution and join-request business logic.
type MembershipService struct {
	joinRepo repository.JoinRequestRepository
	instRepo repository.InstitutionRepository
	userRepo repository.UserRepository
}

// NewMembershipService returns a new MembershipService.
func NewMembershipService(joinRepo repository.JoinRequestRepository, instRepo repository.InstitutionRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		joinRepo: joinRepo,
		instRepo: instRepo,
		userRepo: userRepo,
	}
}

// ListInstitutions returns registered institutions, alphabetically.
func (s *MembershipService) ListInstitutions(ctx context.Context, limit, offset int) ([]models.Institution, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.instRepo.List(ctx, limit, offset)
}

// CreateJoinRequest files a membership request against an institution.
func (s *MembershipService) CreateJoinRequest(ctx context.Context, userID, institutionID uint, details models.JoinRequestDetails) (*models.JoinRequest, error) {
	if _, err := s.instRepo.GetByID(ctx, institutionID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.InstitutionID != nil && *user.InstitutionID == institutionID {
		return nil, models.NewValidationError("You are already a member of this institution")
	}

	req := &models.JoinRequest{
		UserID:        userID,
		InstitutionID: institutionID,
		Details:       details,
		Status:        models.JoinRequestPending,
	}
	if err := s.joinRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.joinRepo.GetByID(ctx, req.ID)
}

// ListMyJoinRequests returns the user's join requests, newest first.
func (s *MembershipService) ListMyJoinRequests(ctx context.Context, userID uint) ([]models.JoinRequest, error) {
	return s.joinRepo.ListByUser(ctx, userID)
}

// ListPendingJoinRequests returns pending requests for an institution.
func (s *MembershipService) ListPendingJoinRequests(ctx context.Context, institutionID uint, limit, offset int) ([]models.JoinRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.joinRepo.ListPendingByInstitution(ctx, institutionID, limit, offset)
}

// ReviewJoinRequest decides a pending join request. Reviewers without blanket
// rights must administer the institution the request targets. Approval makes
// the applicant a member.
func (s *MembershipService) ReviewJoinRequest(ctx context.Context, reviewerID, requestID uint, approve bool) (*models.JoinRequest, error) {
	req, err := s.joinRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.HasBlanketGrantRights() {
		if !reviewer.HasAdminCapability() {
			return nil, models.NewForbiddenError("Reviewing join requests requires admin access")
		}
		if reviewer.InstitutionID == nil || *reviewer.InstitutionID != req.InstitutionID {
			return nil, models.NewForbiddenError("You can only review join requests for your own institution")
		}
	}

	status := models.JoinRequestRejected
	if approve {
		status = models.JoinRequestApproved
	}

	decided, err := s.joinRepo.Decide(ctx, requestID, status, reviewerID, time.Now())
	if err != nil {
		return nil, err
	}

	if approve {
		applicant, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return decided, err
		}
		instID := req.InstitutionID
		applicant.InstitutionID = &instID
		if err := s.userRepo.Update(ctx, applicant); err != nil {
			return decided, models.NewInconsistentError("Request approved but membership could not be recorded", err)
		}
	}

	return decided, nil
}
