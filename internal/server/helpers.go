package server

import (
	"errors"

	"alumlink/internal/hierarchy"
	"alumlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// currentUser loads the authenticated user's record.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	return s.userRepo.GetByID(c.UserContext(), currentUserID(c))
}

// AdminGateRequired rejects users that neither hold a blanket admin role nor
// carry a hierarchy label. Must be placed after AuthRequired.
func (s *Server) AdminGateRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.HasAdminCapability() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// HierarchyLevelRequired rejects users whose effective hierarchy level sits
// below min. Blanket admin roles bypass the check. Must be placed after
// AuthRequired.
func (s *Server) HierarchyLevelRequired(min hierarchy.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if user.HasBlanketGrantRights() {
			return c.Next()
		}
		if user.AdminHierarchy == "" || !hierarchy.Classify(user.AdminHierarchy).AtLeast(min) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Insufficient hierarchy level"))
		}
		return c.Next()
	}
}

// BlanketAdminRequired rejects users without a blanket admin role.
// Must be placed after AuthRequired.
func (s *Server) BlanketAdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.HasBlanketGrantRights() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin role required"))
		}
		return c.Next()
	}
}

// SuperAdminRequired rejects everyone but superadmins.
// Must be placed after AuthRequired.
func (s *Server) SuperAdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if user.Role != models.RoleSuperAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Superadmin access required"))
		}
		return c.Next()
	}
}
