package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/models"
)

func (e *testEnv) createDelivery(token string, projectID uint, title string) models.Delivery {
	e.t.Helper()

	var delivery models.Delivery
	rec, body := e.request(http.MethodPost, fmt.Sprintf("/api/projects/%d/deliveries", projectID), token, map[string]interface{}{
		"title":               title,
		"category":            "mechanical",
		"priority":            "high",
		"stage":               "ifa",
		"verification_status": "verified",
	})
	e.mustOK(rec, body, http.StatusCreated, &delivery)
	return delivery
}

func TestVerificationDrivesDeliveryStatus(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("doc", models.RoleDocumentation)
	projectID := env.createProject(token, nil)
	delivery := env.createDelivery(token, projectID, "Pump datasheet")

	if delivery.VerificationStatus != models.VerificationNotSubmitted || delivery.Status != models.DeliveryStatusInProgress {
		t.Fatalf("unexpected defaults: %+v", delivery)
	}

	path := fmt.Sprintf("/api/deliveries/%d", delivery.ID)

	rec, body := env.request(http.MethodPatch, path, token, map[string]interface{}{"status": "completed", "verification_status": "verified"})
	env.mustOK(rec, body, http.StatusOK, &delivery)
	if delivery.VerificationStatus != models.VerificationNotSubmitted {
		t.Fatal("verification status must not be writable through patch")
	}

	for _, verdict := range []string{"rejected", "verified", "rejected"} {
		rec, body = env.request(http.MethodPost, path+"/verifications", token, map[string]interface{}{"status": verdict, "notes": verdict})
		env.mustOK(rec, body, http.StatusCreated, nil)
	}

	rec, body = env.request(http.MethodPost, path+"/verifications", token, map[string]interface{}{"status": "submitted"})
	env.mustFail(rec, body, http.StatusBadRequest)

	rec, body = env.request(http.MethodGet, path, token, nil)
	env.mustOK(rec, body, http.StatusOK, &delivery)
	if delivery.VerificationStatus != models.VerificationRejected {
		t.Fatalf("expected latest verdict, got %s", delivery.VerificationStatus)
	}

	var verifications []models.DeliveryVerification
	rec, body = env.request(http.MethodGet, path+"/verifications", token, nil)
	env.mustOK(rec, body, http.StatusOK, &verifications)
	if len(verifications) != 3 || verifications[1].Status != "verified" {
		t.Fatalf("unexpected verifications: %+v", verifications)
	}

	rec, body = env.request(http.MethodDelete, path, token, nil)
	env.mustOK(rec, body, http.StatusOK, nil)
	if count(t, &models.DeliveryVerification{}) != 0 {
		t.Fatal("verifications left after delivery delete")
	}
}

func TestSubmissionLinksDeliveries(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("doc", models.RoleDocumentation)
	projectID := env.createProject(token, nil)
	first := env.createDelivery(token, projectID, "Layout")
	second := env.createDelivery(token, projectID, "Isometrics")
	old := env.upload(token, "rev A", "a.dwg", "A")
	fresh := env.upload(token, "rev B", "b.dwg", "B")

	rec, body := env.request(http.MethodPost, "/api/submissions", token, map[string]interface{}{
		"selected_file_ids": []uint{old.ID},
		"file_ids":          []uint{fresh.ID},
		"delivery_ids":      []uint{first.ID, 777},
	})
	env.mustFail(rec, body, http.StatusBadRequest)

	var submission models.DeliverablesSubmission
	rec, body = env.request(http.MethodPost, "/api/submissions", token, map[string]interface{}{
		"selected_file_ids": []uint{old.ID},
		"file_ids":          []uint{fresh.ID},
		"delivery_ids":      []uint{first.ID, second.ID},
	})
	env.mustOK(rec, body, http.StatusCreated, &submission)

	if len(submission.SelectedFiles) != 1 || len(submission.UploadedFiles) != 1 || len(submission.Deliveries) != 2 {
		t.Fatalf("unexpected submission: %+v", submission)
	}
	for _, d := range submission.Deliveries {
		if d.VerificationStatus != models.VerificationNotSubmitted {
			t.Fatalf("submission changed verification status of %d", d.ID)
		}
	}

	db.DB.Delete(&models.DeliverablesSubmission{}, submission.ID)

	var reloaded models.Delivery
	db.DB.First(&reloaded, first.ID)
	if reloaded.SubmissionID != nil {
		t.Fatal("submission reference should be cleared, not cascaded")
	}

	rec, body = env.request(http.MethodGet, fmt.Sprintf("/api/submissions/%d", submission.ID), token, nil)
	env.mustFail(rec, body, http.StatusNotFound)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/projects", "/api/tasks/mine", "/api/users", "/api/teams"} {
		rec, body := env.request(http.MethodGet, path, "", nil)
		env.mustFail(rec, body, http.StatusUnauthorized)
	}

	rec, body := env.request(http.MethodGet, "/api/projects", "not-a-token", nil)
	env.mustFail(rec, body, http.StatusUnauthorized)
}
