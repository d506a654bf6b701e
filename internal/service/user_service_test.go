package service

import (
	"context"
	"testing"

	"alumlink/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestUserServiceListUsersScoping(t *testing.T) {
	inst := uint(7)
	userRepo := noopUserRepo()
	userRepo.listFn = func(context.Context, int, int) ([]models.User, error) {
		return []models.User{{ID: 1}, {ID: 2}, {ID: 3}}, nil
	}
	var scopedTo uint
	userRepo.listByInstitutionFn = func(_ context.Context, institutionID uint, _, _ int) ([]models.User, error) {
		scopedTo = institutionID
		return []models.User{{ID: 2}}, nil
	}

	svc := NewUserService(userRepo, noopInstRepo())

	userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 9, Role: models.RoleAdmin, InstitutionID: &inst}, nil
	}
	users, err := svc.ListUsers(context.Background(), 9, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || scopedTo != inst {
		t.Errorf("expected listing scoped to institution %d, got %d users scoped to %d", inst, len(users), scopedTo)
	}

	userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 1, Role: models.RoleSuperAdmin, InstitutionID: &inst}, nil
	}
	users, err = svc.ListUsers(context.Background(), 1, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("superadmin should see all users, got %d", len(users))
	}
}

func TestUserServiceUpdateProfileValidatesName(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopInstRepo())

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Name: string(long)})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestUserServiceSetRole(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 2, Role: models.RoleUser}, nil
	}
	var saved *models.User
	userRepo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(userRepo, noopInstRepo())
	user, err := svc.SetRole(context.Background(), 2, models.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != models.RoleAdmin || saved == nil || saved.Role != models.RoleAdmin {
		t.Errorf("role not applied: %+v", user)
	}

	_, err = svc.SetRole(context.Background(), 2, models.UserRole("owner"))
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestUserServiceCreateAdmin(t *testing.T) {
	instRepo := noopInstRepo()
	var instName string
	instRepo.findOrCreateFn = func(_ context.Context, name string, instType models.AdminType, createdBy uint) (*models.Institution, error) {
		instName = name
		return &models.Institution{ID: 4, Name: name, Type: instType}, nil
	}

	userRepo := noopUserRepo()
	var created *models.User
	userRepo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 11
		created = u
		return nil
	}

	svc := NewUserService(userRepo, instRepo)
	admin, tempPassword, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Name:            "Dean Admin",
		Username:        "dean",
		Email:           "dean@example.com",
		AdminType:       models.AdminTypeInstitute,
		InstitutionName: "Springfield University",
		HierarchyLabel:  "hod",
		CreatedBy:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", admin.Role)
	}
	if admin.InstitutionID == nil || *admin.InstitutionID != 4 {
		t.Errorf("institution not attached: %+v", admin.InstitutionID)
	}
	if instName != "Springfield University" {
		t.Errorf("unexpected institution name %q", instName)
	}
	if created == nil || created.AdminHierarchy != "hod" {
		t.Errorf("hierarchy label not set: %+v", created)
	}
	if tempPassword == "" {
		t.Fatal("expected a temporary password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(tempPassword)); err != nil {
		t.Error("stored hash does not match the returned temporary password")
	}
}

func TestUserServiceCreateAdminDuplicateEmail(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 3}, nil
	}

	svc := NewUserService(userRepo, noopInstRepo())
	_, _, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Username:        "dup",
		Email:           "dup@example.com",
		InstitutionName: "Springfield University",
	})
	assertAppErrorCode(t, err, "CONFLICT")
}
