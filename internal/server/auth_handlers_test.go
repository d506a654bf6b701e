package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"alumlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	app := newTestApp(0)
	app.Post("/auth/signup", s.Signup)

	body := []byte(`{"name":"New User","username":"newuser","email":"new@example.com","password":"SecurePass12!@"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token == "" {
		t.Error("expected a token")
	}
	if out.User.Role != models.RoleUser {
		t.Errorf("expected regular role, got %s", out.User.Role)
	}

	var stored models.User
	if err := db.Where("email = ?", "new@example.com").First(&stored).Error; err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.Password == "SecurePass12!@" {
		t.Error("password stored in plaintext")
	}

	// Duplicate email conflicts.
	req = httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	app := newTestApp(0)
	app.Post("/auth/signup", s.Signup)

	body := []byte(`{"username":"weakling","email":"weak@example.com","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	mustCreateUser(t, db, &models.User{
		Username: "returning",
		Email:    "returning@example.com",
		Password: hashPassword(t, "SecurePass12!@"),
	})

	app := newTestApp(0)
	app.Post("/auth/login", s.Login)

	// Wrong password.
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"returning@example.com","password":"WrongPass12!@"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Unknown email gets the same response as a bad password.
	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"ghost@example.com","password":"SecurePass12!@"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Correct credentials.
	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"returning@example.com","password":"SecurePass12!@"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a token")
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	user := mustCreateUser(t, db, &models.User{Username: "authuser", Email: "auth@example.com"})

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	// No token.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Valid token.
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.UserID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, out.UserID)
	}
}
