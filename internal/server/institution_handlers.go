package server

import (
	"alumlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetInstitutions handles GET /api/institutions
func (s *Server) GetInstitutions(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	institutions, err := s.membershipService.ListInstitutions(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"institutions": institutions})
}

// CreateJoinRequest handles POST /api/institutions/:id/join
func (s *Server) CreateJoinRequest(c *fiber.Ctx) error {
	institutionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		EnrollmentYear int    `json:"enrollment_year"`
		Branch         string `json:"branch"`
		RollNumber     string `json:"roll_number"`
		Course         string `json:"course"`
		CollegeEmail   string `json:"college_email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	details := models.JoinRequestDetails{
		EnrollmentYear: req.EnrollmentYear,
		Branch:         req.Branch,
		RollNumber:     req.RollNumber,
		Course:         req.Course,
		CollegeEmail:   req.CollegeEmail,
	}

	created, svcErr := s.membershipService.CreateJoinRequest(c.UserContext(), currentUserID(c), institutionID, details)
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetMyJoinRequests handles GET /api/institutions/requests/me
func (s *Server) GetMyJoinRequests(c *fiber.Ctx) error {
	requests, err := s.membershipService.ListMyJoinRequests(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// GetPendingJoinRequests handles GET /api/institutions/:id/requests
func (s *Server) GetPendingJoinRequests(c *fiber.Ctx) error {
	institutionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Non-blanket admins may only list their own institution's queue.
	user, userErr := s.currentUser(c)
	if userErr != nil {
		return models.RespondWithError(c, models.StatusForError(userErr), userErr)
	}
	if !user.HasBlanketGrantRights() {
		if user.InstitutionID == nil || *user.InstitutionID != institutionID {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You can only view join requests for your own institution"))
		}
	}

	p := parsePagination(c, 50)
	requests, svcErr := s.membershipService.ListPendingJoinRequests(c.UserContext(), institutionID, p.Limit, p.Offset)
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// ReviewJoinRequest handles POST /api/institutions/requests/:id/review
func (s *Server) ReviewJoinRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Decision must be 'approve' or 'reject'"))
	}

	decided, svcErr := s.membershipService.ReviewJoinRequest(c.UserContext(), currentUserID(c), requestID, req.Decision == "approve")
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.JSON(decided)
}
