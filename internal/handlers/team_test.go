package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
)

func TestTeamMembership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("pm", models.RolePM)
	a, _ := env.createUser("a", models.RoleWorking)
	b, _ := env.createUser("b", models.RoleWorking)

	var team models.Team
	rec, body := env.request(http.MethodPost, "/api/teams", token, map[string]interface{}{"title": "Empty"})
	env.mustOK(rec, body, http.StatusCreated, &team)
	if team.Members == nil || len(team.Members) != 0 {
		t.Fatalf("expected empty member list, got %+v", team.Members)
	}

	path := fmt.Sprintf("/api/teams/%d", team.ID)

	rec, body = env.request(http.MethodPatch, path, token, map[string]interface{}{"member_ids": []uint{a.ID, b.ID}})
	env.mustOK(rec, body, http.StatusOK, &team)
	if len(team.Members) != 2 || team.Title != "Empty" {
		t.Fatalf("unexpected team: %+v", team)
	}

	rec, body = env.request(http.MethodPatch, path, token, map[string]interface{}{"member_ids": []uint{b.ID, 555}})
	env.mustFail(rec, body, http.StatusBadRequest)

	rec, body = env.request(http.MethodPatch, path, token, map[string]interface{}{"title": "Civil", "member_ids": []uint{b.ID}})
	env.mustOK(rec, body, http.StatusOK, &team)
	if len(team.Members) != 1 || team.Members[0].ID != b.ID || team.Title != "Civil" {
		t.Fatalf("unexpected team: %+v", team)
	}

	var teams []models.Team
	rec, body = env.request(http.MethodGet, "/api/teams", token, nil)
	env.mustOK(rec, body, http.StatusOK, &teams)
	if len(teams) != 1 || len(teams[0].Members) != 1 {
		t.Fatalf("unexpected team list: %+v", teams)
	}

	rec, body = env.request(http.MethodGet, "/api/teams/99", token, nil)
	env.mustFail(rec, body, http.StatusNotFound)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var health map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || health["status"] != "ok" {
		t.Fatalf("unexpected health response %d: %v", rec.Code, health)
	}
}
