package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
)

func (e *testEnv) estimate(token string, projectID uint, fields map[string]interface{}) {
	e.t.Helper()

	rec, body := e.request(http.MethodPost, fmt.Sprintf("/api/projects/%d/estimation", projectID), token, fields)
	e.mustOK(rec, body, http.StatusCreated, nil)
}

func TestDashboardWorkCards(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser("admin", models.RoleAdmin)
	pm, pmToken := env.createUser("pm", models.RolePM)
	other, _ := env.createUser("pm2", models.RolePM)

	done := env.createProject(adminToken, map[string]interface{}{"status": "completed"})
	open := env.createProject(adminToken, nil)
	unsent := env.createProject(adminToken, nil)

	env.estimate(adminToken, done, map[string]interface{}{"sent_to_pm": true, "forward_to": pm.ID})
	env.estimate(adminToken, open, map[string]interface{}{"sent_to_pm": true, "forward_to": other.ID})
	env.estimate(adminToken, unsent, map[string]interface{}{"forward_to": pm.ID})

	var cards map[string]int64
	rec, body := env.request(http.MethodGet, "/api/dashboard/cards", adminToken, nil)
	env.mustOK(rec, body, http.StatusOK, &cards)
	if cards["total_projects"] != 2 || cards["completed_works"] != 1 || cards["pending_works"] != 1 {
		t.Fatalf("unexpected admin cards: %v", cards)
	}

	cards = nil
	rec, body = env.request(http.MethodGet, "/api/dashboard/cards", pmToken, nil)
	env.mustOK(rec, body, http.StatusOK, &cards)
	if cards["total_projects"] != 1 || cards["completed_works"] != 1 || cards["pending_works"] != 0 {
		t.Fatalf("unexpected pm cards: %v", cards)
	}
}

func TestDashboardRFQAndEstimationCards(t *testing.T) {
	env := newTestEnv(t)
	_, rfqToken := env.createUser("rfq", models.RoleRFQ)
	_, estToken := env.createUser("est", models.RoleEstimation)

	first := env.createProject(rfqToken, map[string]interface{}{"send_to_estimation": true})
	second := env.createProject(rfqToken, map[string]interface{}{"send_to_estimation": true})
	env.createProject(rfqToken, nil)

	var rfq map[string]int64
	rec, body := env.request(http.MethodGet, "/api/dashboard/cards", rfqToken, nil)
	env.mustOK(rec, body, http.StatusOK, &rfq)
	if rfq["active_projects"] != 2 || rfq["ready_for_estimation"] != 1 {
		t.Fatalf("unexpected rfq cards: %v", rfq)
	}

	var est map[string]float64
	rec, body = env.request(http.MethodGet, "/api/dashboard/cards", estToken, nil)
	env.mustOK(rec, body, http.StatusOK, &est)
	if est["active_estimation"] != 2 || est["pending_estimations"] != 0 || est["total_value"] != 0 {
		t.Fatalf("unexpected empty estimation cards: %v", est)
	}

	env.estimate(estToken, first, map[string]interface{}{"status": "estimation_approved", "cost": 1000.5})
	env.estimate(estToken, second, map[string]interface{}{"cost": 250})

	est = nil
	rec, body = env.request(http.MethodGet, "/api/dashboard/cards", estToken, nil)
	env.mustOK(rec, body, http.StatusOK, &est)
	if est["pending_estimations"] != 1 || est["completed_estimations"] != 1 || est["total_value"] != 1250.5 {
		t.Fatalf("unexpected estimation cards: %v", est)
	}
}

func TestDashboardTaskCards(t *testing.T) {
	env := newTestEnv(t)
	_, pmToken := env.createUser("pm", models.RolePM)
	worker, workerToken := env.createUser("worker", models.RoleWorking)
	projectID := env.createProject(pmToken, nil)

	env.createTask(pmToken, projectID, map[string]interface{}{"assigned_individual": worker.ID, "status": "completed"})
	env.createTask(pmToken, projectID, map[string]interface{}{"assigned_individual": worker.ID})
	env.createTask(pmToken, projectID, nil)

	var cards map[string]int64
	rec, body := env.request(http.MethodGet, "/api/dashboard/cards", workerToken, nil)
	env.mustOK(rec, body, http.StatusOK, &cards)
	if cards["total_tasks"] != 2 || cards["completed_tasks"] != 1 || cards["pending_tasks"] != 1 {
		t.Fatalf("unexpected task cards: %v", cards)
	}
}
