package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/profilio/user-hub/internal/application"
	"github.com/profilio/user-hub/internal/domain/entity"
	"github.com/profilio/user-hub/internal/infrastructure/avatar"
	"github.com/profilio/user-hub/internal/infrastructure/profile"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRepo struct {
	createErr error
	clearErr  error
	avatarKey map[string]string
}

func (s *stubRepo) Create(ctx context.Context, u *entity.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.ID = "42"
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, entity.ErrNotFound
}

func (s *stubRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, entity.ErrNotFound
}

func (s *stubRepo) SetAvatar(ctx context.Context, id, key string) error {
	s.avatarKey[id] = key
	return nil
}

func (s *stubRepo) ClearAvatar(ctx context.Context, id string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	delete(s.avatarKey, id)
	return nil
}

type stubPublisher struct{}

func (stubPublisher) PublishJSON(ctx context.Context, body any) error { return nil }

type stubProfiles struct {
	p   *profile.Profile
	err error
}

func (s *stubProfiles) Get(ctx context.Context, id string) (*profile.Profile, error) {
	return s.p, s.err
}

type testEnv struct {
	router    *gin.Engine
	repo      *stubRepo
	svc       *userapp.Service
	profiles  *stubProfiles
	avatarDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	avatarDir := t.TempDir()
	store, err := avatar.NewStore(avatarDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	repo := &stubRepo{avatarKey: map[string]string{}}
	profiles := &stubProfiles{}
	svc := userapp.NewService(repo, store, stubPublisher{}, stubPublisher{}, profiles, nil, nil, "", "user-hub", time.Minute, logger)
	h := NewUserHandler(svc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", h.Create)
	api.GET("/users/:userId", h.GetUser)
	api.GET("/users/:userId/avatar", h.GetAvatar)
	api.PUT("/users/:userId/avatar", h.PutAvatar)
	api.DELETE("/users/:userId/avatar", h.DeleteAvatar)

	return &testEnv{router: r, repo: repo, svc: svc, profiles: profiles, avatarDir: avatarDir}
}

func (e *testEnv) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCreateUser_OK(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/api/users", []byte(`{"name":"Ada","email":"ada@example.com"}`), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string      `json:"message"`
		User    entity.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.User.ID != "42" || resp.User.Email != "ada@example.com" {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestCreateUser_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Ada"}`},
		{"bad email", `{"name":"Ada","email":"not-an-email"}`},
		{"not json", `name=Ada`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/users", []byte(tt.body), "application/json")
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.repo.createErr = entity.ErrEmailTaken

	w := env.do(http.MethodPost, "/api/users", []byte(`{"name":"Ada","email":"ada@example.com"}`), "application/json")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body %s", w.Code, w.Body.String())
	}
}

func TestGetUser_ProxiesProfile(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.p = &profile.Profile{ID: 2, Email: "janet.weaver@reqres.in", FirstName: "Janet", LastName: "Weaver"}

	w := env.do(http.MethodGet, "/api/users/2", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var p profile.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.FirstName != "Janet" {
		t.Errorf("profile = %+v", p)
	}
}

func TestGetUser_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.err = profile.ErrUpstream

	w := env.do(http.MethodGet, "/api/users/2", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "User not found") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAvatarLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0, 'j', 'p', 'e', 'g'}

	// upload
	w := env.do(http.MethodPut, "/api/users/u1/avatar", img, "image/jpeg")
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d; body %s", w.Code, w.Body.String())
	}
	if env.repo.avatarKey["u1"] != avatar.Key("u1") {
		t.Errorf("avatar pointer = %q, want %q", env.repo.avatarKey["u1"], avatar.Key("u1"))
	}

	// fetch: base64 text under image/jpeg
	w = env.do(http.MethodGet, "/api/users/u1/avatar", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	decoded, err := base64.StdEncoding.DecodeString(w.Body.String())
	if err != nil {
		t.Fatalf("body is not base64: %v", err)
	}
	if !bytes.Equal(decoded, img) {
		t.Errorf("decoded body = %x, want %x", decoded, img)
	}

	// delete
	w = env.do(http.MethodDelete, "/api/users/u1/avatar", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Avatar deleted successfully") {
		t.Errorf("DELETE body = %s", w.Body.String())
	}
	if _, ok := env.repo.avatarKey["u1"]; ok {
		t.Error("avatar pointer not cleared")
	}

	// gone
	w = env.do(http.MethodGet, "/api/users/u1/avatar", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", w.Code)
	}
	if w.Body.String() != "Avatar not found" {
		t.Errorf("GET after delete body = %q", w.Body.String())
	}
}

func TestGetAvatar_Unknown(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/users/unknown-id/avatar", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w.Body.String() != "Avatar not found" {
		t.Errorf("body = %q, want Avatar not found", w.Body.String())
	}
}

func TestPutAvatar_EmptyBody(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPut, "/api/users/u1/avatar", nil, "image/jpeg")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetAvatar_ReadFailure(t *testing.T) {
	env := newTestEnv(t)
	// A directory at the avatar path makes the read fail with something
	// other than a missing file.
	if err := os.Mkdir(filepath.Join(env.avatarDir, avatar.Key("u1")+".jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w := env.do(http.MethodGet, "/api/users/u1/avatar", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if w.Body.String() != "Internal Server Error" {
		t.Errorf("body = %q, want Internal Server Error", w.Body.String())
	}
}

func TestDeleteAvatar_PointerClearFailure(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(http.MethodPut, "/api/users/u1/avatar", []byte("jpeg-bytes"), "image/jpeg"); w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", w.Code)
	}
	env.repo.clearErr = errors.New("db down")

	w := env.do(http.MethodDelete, "/api/users/u1/avatar", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500; body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Failed to delete user avatar") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDeleteAvatar_Missing(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodDelete, "/api/users/ghost/avatar", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}
