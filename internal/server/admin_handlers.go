package server

import (
	"alumlink/internal/models"
	"alumlink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateAdmin handles POST /api/admin/users
func (s *Server) CreateAdmin(c *fiber.Ctx) error {
	var req struct {
		Name            string `json:"name"`
		Username        string `json:"username"`
		Email           string `json:"email"`
		AdminType       string `json:"admin_type"`
		InstitutionName string `json:"institution_name"`
		HierarchyLabel  string `json:"hierarchy_label"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	adminType := models.AdminType(req.AdminType)
	switch adminType {
	case models.AdminTypeInstitute, models.AdminTypeCorporate, models.AdminTypeSchool:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Admin type must be 'institute', 'corporate' or 'school'"))
	}

	admin, tempPassword, err := s.userService.CreateAdmin(c.UserContext(), service.CreateAdminInput{
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		AdminType:       adminType,
		InstitutionName: req.InstitutionName,
		HierarchyLabel:  req.HierarchyLabel,
		CreatedBy:       currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// The temporary password is surfaced exactly once, in this response.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          admin,
		"temp_password": tempPassword,
	})
}

// SetUserRole handles POST /api/admin/users/:id/role
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, svcErr := s.userService.SetRole(c.UserContext(), targetID, models.UserRole(req.Role))
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.JSON(user)
}
