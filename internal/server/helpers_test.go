package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"alumlink/internal/hierarchy"
	"alumlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

func gateStatus(t *testing.T, app *fiber.App, path string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestAdminGateRequired(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	tests := []struct {
		name     string
		user     *models.User
		expected int
	}{
		{"plain user", &models.User{Username: "u1", Email: "u1@example.com", Role: models.RoleUser}, http.StatusForbidden},
		{"hierarchy admin", &models.User{Username: "u2", Email: "u2@example.com", Role: models.RoleUser, AdminHierarchy: "faculty"}, http.StatusOK},
		{"blanket admin", &models.User{Username: "u3", Email: "u3@example.com", Role: models.RoleAdmin}, http.StatusOK},
		{"superadmin", &models.User{Username: "u4", Email: "u4@example.com", Role: models.RoleSuperAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := mustCreateUser(t, db, tt.user)
			app := newTestApp(user.ID)
			app.Get("/gated", s.AdminGateRequired(), okHandler)

			if got := gateStatus(t, app, "/gated"); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHierarchyLevelRequired(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	tests := []struct {
		name     string
		user     *models.User
		min      hierarchy.Level
		expected int
	}{
		{"no label", &models.User{Username: "h1", Email: "h1@example.com"}, hierarchy.Faculty, http.StatusForbidden},
		{"label below threshold", &models.User{Username: "h2", Email: "h2@example.com", AdminHierarchy: "alumni coordinator"}, hierarchy.Faculty, http.StatusForbidden},
		{"label at threshold", &models.User{Username: "h3", Email: "h3@example.com", AdminHierarchy: "faculty"}, hierarchy.Faculty, http.StatusOK},
		{"label above threshold", &models.User{Username: "h4", Email: "h4@example.com", AdminHierarchy: "principal"}, hierarchy.Faculty, http.StatusOK},
		{"blanket admin bypasses", &models.User{Username: "h5", Email: "h5@example.com", Role: models.RoleAdmin}, hierarchy.Management, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := mustCreateUser(t, db, tt.user)
			app := newTestApp(user.ID)
			app.Get("/gated", s.HierarchyLevelRequired(tt.min), okHandler)

			if got := gateStatus(t, app, "/gated"); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestSuperAdminRequired(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	admin := mustCreateUser(t, db, &models.User{Username: "sa1", Email: "sa1@example.com", Role: models.RoleAdmin})
	superadmin := mustCreateUser(t, db, &models.User{Username: "sa2", Email: "sa2@example.com", Role: models.RoleSuperAdmin})

	adminApp := newTestApp(admin.ID)
	adminApp.Get("/gated", s.SuperAdminRequired(), okHandler)
	if got := gateStatus(t, adminApp, "/gated"); got != http.StatusForbidden {
		t.Fatalf("expected 403 for blanket admin, got %d", got)
	}

	superApp := newTestApp(superadmin.ID)
	superApp.Get("/gated", s.SuperAdminRequired(), okHandler)
	if got := gateStatus(t, superApp, "/gated"); got != http.StatusOK {
		t.Fatalf("expected 200 for superadmin, got %d", got)
	}
}

func TestParsePagination(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var got Pagination
	app.Get("/items", func(c *fiber.Ctx) error {
		got = parsePagination(c, 50)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		query    string
		expected Pagination
	}{
		{"", Pagination{Limit: 50, Offset: 0}},
		{"?limit=10&offset=20", Pagination{Limit: 10, Offset: 20}},
		{"?limit=1000", Pagination{Limit: 100, Offset: 0}},
		{"?limit=-5&offset=-3", Pagination{Limit: 50, Offset: 0}},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		_ = resp.Body.Close()
		if got != tt.expected {
			t.Errorf("query %q: expected %+v, got %+v", tt.query, tt.expected, got)
		}
	}
}
