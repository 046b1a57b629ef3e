package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/config"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/router"
	"github.com/projectdesk/projectdesk/internal/services"
)

type sentMail struct {
	To, Subject, HTML, Text string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, html, text})
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type memoryStorage struct {
	mu    sync.Mutex
	n     int
	files map[string][]byte
}

func (s *memoryStorage) Save(folder, filename string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	ref := fmt.Sprintf("%s/%d-%s", folder, s.n, filename)
	s.files[ref] = data
	return ref, int64(len(data)), nil
}

func (s *memoryStorage) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

type testEnv struct {
	t       *testing.T
	router  *gin.Engine
	mailer  *recordingMailer
	storage *memoryStorage
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Detail     string          `json:"detail"`
	Data       json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	if err := db.ConnectDatabase("sqlite", "file:"+name+"?mode=memory&cache=shared", false); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := auth.InitJWT("test-secret", time.Minute, time.Hour); err != nil {
		t.Fatalf("jwt: %v", err)
	}

	env := &testEnv{
		t:       t,
		mailer:  &recordingMailer{},
		storage: &memoryStorage{files: map[string][]byte{}},
	}

	prevMailer := services.SetMailer(env.mailer)
	prevStorage := services.SetStorage(env.storage)
	t.Cleanup(func() {
		services.SetMailer(prevMailer)
		services.SetStorage(prevStorage)
		if sqlDB, err := db.DB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env.router = router.NewRouter(config.Config{
		BaseURL:        "http://api.test",
		MaxUploadBytes: 1 << 20,
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	return env
}

// createUser inserts an account directly and returns it with an access token.
func (e *testEnv) createUser(username string, role models.Role) (models.User, string) {
	e.t.Helper()

	hash, err := auth.HashPassword("secret")
	if err != nil {
		e.t.Fatalf("hash: %v", err)
	}

	user := models.User{
		Username:     username,
		Name:         username,
		Email:        username + "@example.com",
		Role:         role,
		Active:       true,
		PasswordHash: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		e.t.Fatalf("create user: %v", err)
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		e.t.Fatalf("token: %v", err)
	}

	return user, pair.Access
}

func (e *testEnv) request(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return e.serve(req, token)
}

func (e *testEnv) serve(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		e.t.Fatalf("decode %s %s response %q: %v", req.Method, req.URL.Path, rec.Body.String(), err)
	}

	return rec, env
}

// mustOK fails the test unless the response carries the success code and
// the expected transport status, then decodes data into dest.
func (e *testEnv) mustOK(rec *httptest.ResponseRecorder, env envelope, status int, dest interface{}) {
	e.t.Helper()

	if rec.Code != status || env.StatusCode != 5000 {
		e.t.Fatalf("expected %d/5000, got %d/%d: %s", status, rec.Code, env.StatusCode, env.Detail)
	}
	if dest != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			e.t.Fatalf("decode data: %v", err)
		}
	}
}

func (e *testEnv) mustFail(rec *httptest.ResponseRecorder, env envelope, status int) {
	e.t.Helper()

	if rec.Code != status || env.StatusCode != 5001 {
		e.t.Fatalf("expected %d/5001, got %d/%d: %s", status, rec.Code, env.StatusCode, env.Detail)
	}
}

func count(t *testing.T, model interface{}, where ...interface{}) int64 {
	t.Helper()

	var n int64
	query := db.DB.Model(model)
	if len(where) > 0 {
		query = query.Where(where[0], where[1:]...)
	}
	if err := query.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

type idOnly struct {
	ID uint `json:"id"`
}

func (e *testEnv) createProject(token string, fields map[string]interface{}) uint {
	e.t.Helper()

	body := map[string]interface{}{"name": "Pump station", "received_date": "2024-05-01"}
	for k, v := range fields {
		body[k] = v
	}

	var created idOnly
	rec, env := e.request(http.MethodPost, "/api/projects", token, body)
	e.mustOK(rec, env, http.StatusCreated, &created)
	return created.ID
}

func (e *testEnv) createTask(token string, projectID uint, fields map[string]interface{}) uint {
	e.t.Helper()

	body := map[string]interface{}{"title": "Draw P&ID", "start_date": "2024-05-02"}
	for k, v := range fields {
		body[k] = v
	}

	var created idOnly
	rec, env := e.request(http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), token, body)
	e.mustOK(rec, env, http.StatusCreated, &created)
	return created.ID
}
