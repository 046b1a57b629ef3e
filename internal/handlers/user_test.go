package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/models"
)

func TestCreateUserRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	for _, role := range []models.Role{models.RoleWorking, models.RolePM, models.RoleProjectLeader} {
		_, token := env.createUser("caller_"+string(role), role)
		before := count(t, &models.User{})

		rec, body := env.request(http.MethodPost, "/api/users", token, map[string]interface{}{
			"username": "mallory",
			"email":    "mallory@example.com",
			"role":     "admin",
		})
		env.mustFail(rec, body, http.StatusForbidden)

		if got := count(t, &models.User{}); got != before {
			t.Fatalf("%s: expected %d users, got %d", role, before, got)
		}
	}

	if env.mailer.count() != 0 {
		t.Fatalf("expected no email, got %d", env.mailer.count())
	}
}

func TestAdminCreatesUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)

	var created models.User
	rec, body := env.request(http.MethodPost, "/api/users", token, map[string]interface{}{
		"username":  "alice",
		"email":     "a@x.com",
		"password":  "p1",
		"role":      "working",
		"is_active": "true",
	})
	env.mustOK(rec, body, http.StatusCreated, &created)

	var stored models.User
	if err := db.DB.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}
	if !stored.Active || stored.Role != models.RoleWorking {
		t.Fatalf("unexpected stored user: active=%v role=%s", stored.Active, stored.Role)
	}
	if !auth.CheckPassword(stored.PasswordHash, "p1") {
		t.Fatal("stored hash does not match the supplied password")
	}
	if strings.Contains(string(body.Data), "password") {
		t.Fatalf("password leaked in response: %s", body.Data)
	}

	if env.mailer.count() != 1 {
		t.Fatalf("expected exactly one email, got %d", env.mailer.count())
	}
	mail := env.mailer.sent[0]
	if mail.To != "a@x.com" {
		t.Fatalf("email sent to %q", mail.To)
	}
	wantLink := fmt.Sprintf("http://api.test/api/auth/users/%d/password", stored.ID)
	if !strings.Contains(mail.Text, wantLink) || !strings.Contains(mail.Text, "p1") {
		t.Fatalf("email is missing credentials or reset link: %q", mail.Text)
	}

	rec, body = env.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "p1"})
	env.mustOK(rec, body, http.StatusOK, nil)
}

func TestCreateUserGeneratesPassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)

	rec, body := env.request(http.MethodPost, "/api/users", token, map[string]interface{}{
		"username": "bob",
		"email":    "Bob@Example.com",
		"phone":    "5550123",
		"role":     "pm",
	})
	env.mustOK(rec, body, http.StatusCreated, nil)

	var stored models.User
	if err := db.DB.Where("username = ?", "bob").First(&stored).Error; err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if stored.Email != "bob@example.com" {
		t.Fatalf("email not normalised: %q", stored.Email)
	}
	if !stored.Active {
		t.Fatal("accounts are active unless stated otherwise")
	}
	if env.mailer.count() != 1 {
		t.Fatalf("expected one email, got %d", env.mailer.count())
	}
	if !strings.Contains(env.mailer.sent[0].Text, "123") {
		t.Fatalf("generated password should end with the phone digits: %q", env.mailer.sent[0].Text)
	}
}

func TestCreateUserSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)
	env.mailer.err = errors.New("smtp down")

	rec, body := env.request(http.MethodPost, "/api/users", token, map[string]interface{}{
		"username": "carol",
		"email":    "carol@example.com",
		"role":     "rfq",
	})
	env.mustOK(rec, body, http.StatusCreated, nil)

	if count(t, &models.User{}, "username = ?", "carol") != 1 {
		t.Fatal("account should stay when the email fails")
	}
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)

	cases := map[string]struct {
		body   map[string]interface{}
		status int
	}{
		"duplicate email": {map[string]interface{}{"username": "other", "email": "root@example.com", "role": "pm"}, http.StatusConflict},
		"unknown role":    {map[string]interface{}{"username": "dave", "email": "dave@example.com", "role": "ceo"}, http.StatusBadRequest},
		"bad is_active":   {map[string]interface{}{"username": "erin", "email": "erin@example.com", "role": "pm", "is_active": "maybe"}, http.StatusBadRequest},
		"missing email":   {map[string]interface{}{"username": "frank", "role": "pm"}, http.StatusBadRequest},
	}

	for name, tc := range cases {
		rec, body := env.request(http.MethodPost, "/api/users", token, tc.body)
		if rec.Code != tc.status || body.StatusCode != 5001 {
			t.Errorf("%s: expected %d/5001, got %d/%d", name, tc.status, rec.Code, body.StatusCode)
		}
	}

	if got := count(t, &models.User{}); got != 1 {
		t.Fatalf("expected only the admin, got %d users", got)
	}
}

func TestMissingUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin, token := env.createUser("root", models.RoleAdmin)

	requests := []struct {
		method, path, token string
		body                interface{}
	}{
		{http.MethodDelete, "/api/users/9999", token, nil},
		{http.MethodPut, "/api/users/9999", token, map[string]interface{}{"username": "x", "email": "x@example.com", "role": "pm"}},
		{http.MethodPatch, "/api/users/9999/status", token, map[string]interface{}{"is_active": false}},
		{http.MethodPost, "/api/auth/users/7/password", "", map[string]string{"password": "newpw"}},
	}

	for _, r := range requests {
		rec, body := env.request(r.method, r.path, r.token, r.body)
		env.mustFail(rec, body, http.StatusNotFound)
	}

	var stored models.User
	if err := db.DB.First(&stored, admin.ID).Error; err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if !stored.UpdatedAt.Equal(admin.UpdatedAt) || !auth.CheckPassword(stored.PasswordHash, "secret") {
		t.Fatal("existing account was modified")
	}
	if got := count(t, &models.User{}); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}
}

func TestUpdateAndDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)
	target, _ := env.createUser("target", models.RoleWorking)

	path := fmt.Sprintf("/api/users/%d", target.ID)

	var updated models.User
	rec, body := env.request(http.MethodPut, path, token, map[string]interface{}{
		"username":  "target2",
		"name":      "Target Two",
		"email":     "target2@example.com",
		"role":      "documentation",
		"is_active": false,
	})
	env.mustOK(rec, body, http.StatusOK, &updated)

	if updated.Username != "target2" || updated.Role != models.RoleDocumentation || updated.Active {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	var stored models.User
	db.DB.First(&stored, target.ID)
	if !auth.CheckPassword(stored.PasswordHash, "secret") {
		t.Fatal("empty password should keep the current one")
	}

	rec, body = env.request(http.MethodPatch, path+"/status", token, map[string]interface{}{"is_active": "1"})
	env.mustOK(rec, body, http.StatusOK, &updated)
	if !updated.Active {
		t.Fatal("status toggle did not activate the account")
	}

	rec, body = env.request(http.MethodDelete, path, token, nil)
	env.mustOK(rec, body, http.StatusOK, nil)

	if count(t, &models.User{}, "id = ?", target.ID) != 0 {
		t.Fatal("user was not deleted")
	}
}

func TestListUsersByRole(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser("root", models.RoleAdmin)
	env.createUser("w1", models.RoleWorking)
	env.createUser("w2", models.RoleWorking)
	_, pmToken := env.createUser("pm", models.RolePM)

	var users []models.User
	rec, body := env.request(http.MethodGet, "/api/users?role=working", token, nil)
	env.mustOK(rec, body, http.StatusOK, &users)

	if len(users) != 2 {
		t.Fatalf("expected 2 working users, got %d", len(users))
	}

	rec, body = env.request(http.MethodGet, "/api/users", pmToken, nil)
	env.mustFail(rec, body, http.StatusForbidden)
}

func TestLoginRefreshAndReset(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser("alice", models.RoleWorking)

	rec, body := env.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	env.mustFail(rec, body, http.StatusUnauthorized)

	var login struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		User    models.User `json:"user"`
	}
	rec, body = env.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice@example.com", "password": "secret"})
	env.mustOK(rec, body, http.StatusOK, &login)

	if login.User.ID != user.ID || login.Access == "" || login.Refresh == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	var me models.User
	rec, body = env.request(http.MethodGet, "/api/auth/me", login.Access, nil)
	env.mustOK(rec, body, http.StatusOK, &me)
	if me.Username != "alice" {
		t.Fatalf("me returned %q", me.Username)
	}

	rec, body = env.request(http.MethodGet, "/api/auth/me", login.Refresh, nil)
	env.mustFail(rec, body, http.StatusUnauthorized)

	rec, body = env.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh": login.Refresh})
	env.mustOK(rec, body, http.StatusOK, nil)

	rec, body = env.request(http.MethodPost, fmt.Sprintf("/api/auth/users/%d/password", user.ID), "", map[string]string{"password": "newpw"})
	env.mustOK(rec, body, http.StatusOK, nil)

	rec, body = env.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "newpw"})
	env.mustOK(rec, body, http.StatusOK, nil)

	db.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false)

	rec, body = env.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "newpw"})
	env.mustFail(rec, body, http.StatusUnauthorized)
}
