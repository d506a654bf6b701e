package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alumlink/internal/models"
)

func TestLinkRequestReviewFlow(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	sender := mustCreateUser(t, db, &models.User{Username: "sender", Email: "sender@example.com", Role: models.RoleUser})
	admin := mustCreateUser(t, db, &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})

	// Sender files a request.
	senderApp := newTestApp(sender.ID)
	senderApp.Post("/links/requests", s.CreateLinkRequest)
	senderApp.Get("/links/my-hierarchy", s.GetMyHierarchy)

	body := []byte(`{"requested_hierarchy":"Head of Department"}`)
	req := httptest.NewRequest(http.MethodPost, "/links/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := senderApp.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created models.LinkRequest
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != models.LinkRequestPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	// Admin lists the pending queue and approves.
	adminApp := newTestApp(admin.ID)
	adminApp.Get("/links/requests", s.GetPendingLinkRequests)
	adminApp.Post("/links/requests/:id/review", s.ReviewLinkRequest)

	resp, err = adminApp.Test(httptest.NewRequest(http.MethodGet, "/links/requests", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var listing struct {
		Requests []models.LinkRequest `json:"requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Requests) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(listing.Requests))
	}

	// The admin grants a different label than the one requested.
	reviewBody := []byte(`{"decision":"approve","granted_hierarchy":"hod"}`)
	reviewReq := httptest.NewRequest(http.MethodPost, "/links/requests/1/review", bytes.NewReader(reviewBody))
	reviewReq.Header.Set("Content-Type", "application/json")
	resp, err = adminApp.Test(reviewReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Write-through updated the sender's cached label and history.
	var reloaded models.User
	if err := db.Preload("HierarchyGrants").First(&reloaded, sender.ID).Error; err != nil {
		t.Fatalf("reload sender: %v", err)
	}
	if reloaded.AdminHierarchy != "hod" {
		t.Fatalf("expected write-through of the granted label, got %q", reloaded.AdminHierarchy)
	}
	if len(reloaded.HierarchyGrants) != 1 {
		t.Fatalf("expected 1 grant history entry, got %d", len(reloaded.HierarchyGrants))
	}

	// The sender's effective hierarchy now comes from the request.
	resp, err = senderApp.Test(httptest.NewRequest(http.MethodGet, "/links/my-hierarchy", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var status struct {
		Label  string `json:"label"`
		Level  int    `json:"level"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Source != "request" || status.Label != "hod" || status.Level != 2 {
		t.Fatalf("unexpected status %+v", status)
	}

	// A second review of the same request conflicts.
	reviewReq = httptest.NewRequest(http.MethodPost, "/links/requests/1/review", bytes.NewReader([]byte(`{"decision":"reject"}`)))
	reviewReq.Header.Set("Content-Type", "application/json")
	resp, err = adminApp.Test(reviewReq)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestReviewLinkRequestValidation(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := mustCreateUser(t, db, &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin})

	app := newTestApp(admin.ID)
	app.Post("/links/requests/:id/review", s.ReviewLinkRequest)

	// Unknown decision verb.
	req := httptest.NewRequest(http.MethodPost, "/links/requests/1/review", bytes.NewReader([]byte(`{"decision":"maybe"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Non-numeric id.
	req = httptest.NewRequest(http.MethodPost, "/links/requests/abc/review", bytes.NewReader([]byte(`{"decision":"approve"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Unknown request id.
	req = httptest.NewRequest(http.MethodPost, "/links/requests/999/review", bytes.NewReader([]byte(`{"decision":"approve"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateLinkRequestEmptyLabel(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	sender := mustCreateUser(t, db, &models.User{Username: "sender", Email: "sender@example.com"})

	app := newTestApp(sender.ID)
	app.Post("/links/requests", s.CreateLinkRequest)

	req := httptest.NewRequest(http.MethodPost, "/links/requests", bytes.NewReader([]byte(`{"requested_hierarchy":"   "}`)))
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

func TestReconcileHierarchiesEndpoint(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)

	superadmin := mustCreateUser(t, db, &models.User{Username: "root", Email: "root@example.com", Role: models.RoleSuperAdmin})
	drifted := mustCreateUser(t, db, &models.User{Username: "drifted", Email: "drifted@example.com", AdminHierarchy: "stale"})

	reviewedBy := superadmin.ID
	at := time.Now()
	if err := db.Create(&models.LinkRequest{
		SenderID:           drifted.ID,
		RequestedHierarchy: "faculty",
		GrantedHierarchy:   "faculty",
		Status:             models.LinkRequestApproved,
		ReviewedByUserID:   &reviewedBy,
		ReviewedAt:         &at,
	}).Error; err != nil {
		t.Fatalf("seed approved request: %v", err)
	}

	app := newTestApp(superadmin.ID)
	app.Post("/links/reconcile", s.ReconcileHierarchies)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/links/reconcile", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Updated int `json:"updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 update, got %d", result.Updated)
	}

	var reloaded models.User
	if err := db.First(&reloaded, drifted.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.AdminHierarchy != "faculty" {
		t.Fatalf("expected reconciled label, got %q", reloaded.AdminHierarchy)
	}

	// Second sweep is a no-op.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/links/reconcile", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Updated != 0 {
		t.Fatalf("expected idempotent sweep, got %d updates", result.Updated)
	}
}
