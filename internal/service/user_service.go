package service

import (
	"context"
	"strings"

	"alumlink/internal/models"
	"alumlink/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	instRepo repository.InstitutionRepository
}

type UpdateProfileInput struct {
	UserID uint
	Name   string
}

// CreateAdminInput describes a superadmin-provisioned admin account.
type CreateAdminInput struct {
	Name            string
	Username        string
	Email           string
	AdminType       models.AdminType
	InstitutionName string
	HierarchyLabel  string
	CreatedBy       uint
}

func NewUserService(userRepo repository.UserRepository, instRepo repository.InstitutionRepository) *UserService {
	return &UserService{userRepo: userRepo, instRepo: instRepo}
}

// ListUsers returns users visible to the viewer. Superadmins see everyone;
// institution admins see only members of their own institution.
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer.Role != models.RoleSuperAdmin && viewer.InstitutionID != nil {
		return s.userRepo.ListByInstitution(ctx, *viewer.InstitutionID, limit, offset)
	}
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 100

	if in.Name != "" {
		if len(in.Name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		user.Name = in.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetRole changes a user's platform role.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role models.UserRole) (*models.User, error) {
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return nil, models.NewValidationError("Unknown role")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateAdmin provisions an admin account with a generated temporary password
// and attaches it to an institution, creating the institution on first use.
// The plaintext temporary password is returned exactly once.
func (s *UserService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.User, string, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Username) == "" {
		return nil, "", models.NewValidationError("Email and username are required")
	}
	if strings.TrimSpace(in.InstitutionName) == "" {
		return nil, "", models.NewValidationError("Institution name is required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("A user with this email already exists")
	}

	inst, err := s.instRepo.FindOrCreate(ctx, in.InstitutionName, in.AdminType, in.CreatedBy)
	if err != nil {
		return nil, "", err
	}

	tempPassword := uuid.NewString()[:12]
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	instID := inst.ID
	admin := &models.User{
		Name:           in.Name,
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hashed),
		Role:           models.RoleAdmin,
		AdminType:      in.AdminType,
		InstitutionID:  &instID,
		AdminHierarchy: strings.TrimSpace(in.HierarchyLabel),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, "", err
	}

	return admin, tempPassword, nil
}
