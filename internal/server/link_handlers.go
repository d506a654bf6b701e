package server

import (
	"alumlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateLinkRequest handles POST /api/links/requests
func (s *Server) CreateLinkRequest(c *fiber.Ctx) error {
	var req struct {
		RequestedHierarchy string `json:"requested_hierarchy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.linkService.CreateLinkRequest(c.UserContext(), currentUserID(c), req.RequestedHierarchy)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetMyLinkRequests handles GET /api/links/requests/me
func (s *Server) GetMyLinkRequests(c *fiber.Ctx) error {
	requests, err := s.linkService.ListRequestsBySender(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// GetPendingLinkRequests handles GET /api/links/requests
func (s *Server) GetPendingLinkRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	requests, err := s.linkService.ListPendingRequests(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// ReviewLinkRequest handles POST /api/links/requests/:id/review
func (s *Server) ReviewLinkRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Decision string `json:"decision"`
		// GrantedHierarchy optionally overrides the requested label on approval.
		GrantedHierarchy string `json:"granted_hierarchy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var approve bool
	switch req.Decision {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Decision must be 'approve' or 'reject'"))
	}

	decided, svcErr := s.linkService.ReviewRequest(c.UserContext(), currentUserID(c), requestID, approve, req.GrantedHierarchy)
	if svcErr != nil {
		return models.RespondWithError(c, models.StatusForError(svcErr), svcErr)
	}

	return c.JSON(decided)
}

// GetMyHierarchy handles GET /api/links/my-hierarchy
func (s *Server) GetMyHierarchy(c *fiber.Ctx) error {
	status, err := s.linkService.EffectiveHierarchy(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(status)
}

// ReconcileHierarchies handles POST /api/links/reconcile
func (s *Server) ReconcileHierarchies(c *fiber.Ctx) error {
	updated, err := s.linkService.ReconcileAll(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"updated": updated})
}
