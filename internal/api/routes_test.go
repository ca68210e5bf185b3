package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"session-auth/internal/api/models"
	"session-auth/internal/database"
	"session-auth/pkg/config"
	"session-auth/pkg/logger"
	"session-auth/pkg/token"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret        = "test-secret-key-that-is-long-enough!"
	testAdminUser     = "root"
	testAdminPassword = "root-password"
)

type testServer struct {
	router   *gin.Engine
	services *Services
	manager  *token.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:     testSecret,
			JWTExpiration: time.Hour,
			BcryptCost:    bcrypt.MinCost,
		},
		API: config.APIConfig{CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         600,
		}},
		Bootstrap: config.BootstrapConfig{
			AdminUsername: testAdminUser,
			AdminPassword: testAdminPassword,
			AdminName:     "Root Admin",
		},
	}

	manager, err := token.New(token.Config{SecretKey: testSecret})
	require.NoError(t, err)

	services := NewServices(db, logger.Nop(), cfg, manager)
	require.NoError(t, services.Start(context.Background()))

	router := gin.New()
	SetupRoutes(router, services)

	return &testServer{router: router, services: services, manager: manager}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, models.BaseResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp models.BaseResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := resp.Data.(map[string]interface{})
	return data["token"].(string)
}

func (s *testServer) createUser(t *testing.T, adminToken, username string, role string) string {
	t.Helper()
	w, resp := s.do(t, http.MethodPost, "/api/v1/admin/users", adminToken, models.UserCreateRequest{
		Username:    username,
		Password:    "password-" + username,
		DisplayName: "User " + username,
		Role:        role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp.Data.(map[string]interface{})["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body models.HealthCheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"].Status)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	}
}

func TestHealthReportsDatabaseFailure(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.services.DB.Close())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: testAdminUser, Password: testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Bearer", data["token_type"])
	assert.EqualValues(t, 3600, data["expires_in"])

	claims, err := s.manager.Verify(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, token.RoleAdmin, claims.Role)
	assert.Equal(t, "Root Admin", claims.UserName)
	assert.Equal(t, uint64(3600), claims.ExpiresAt-claims.IssuedAt)

	user, err := s.services.UserRepository().GetByUsername(context.Background(), testAdminUser)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"wrong password", models.LoginRequest{Username: testAdminUser, Password: "nope"}, http.StatusUnauthorized, models.ErrCodeInvalidCredentials},
		{"unknown user", models.LoginRequest{Username: "ghost", Password: "nope"}, http.StatusUnauthorized, models.ErrCodeInvalidCredentials},
		{"missing fields", map[string]string{"username": testAdminUser}, http.StatusBadRequest, models.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestVerifyEndpoint(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t, testAdminUser, testAdminPassword)

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/verify", "", models.VerifyTokenRequest{Token: tok})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ADMIN", data["role"])
	assert.Contains(t, data, "userId")
	assert.Contains(t, data, "iap")

	w, resp = s.do(t, http.MethodPost, "/api/v1/auth/verify", "", models.VerifyTokenRequest{Token: tok + "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid or expired token", resp.Error.Message)
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t, testAdminUser, testAdminPassword)

	w, resp := s.do(t, http.MethodGet, "/api/v1/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Root Admin", resp.Data.(map[string]interface{})["userName"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Missing authorization token", resp.Error.Message)
}

func TestCheckRoleEndpoint(t *testing.T) {
	s := newTestServer(t)
	teacher, err := s.manager.Issue("t-1", "Teacher", token.RoleTeacher, nil, time.Hour)
	require.NoError(t, err)
	expired, err := s.manager.Issue("t-1", "Teacher", token.RoleTeacher, nil, 0)
	require.NoError(t, err)

	tests := []struct {
		name    string
		bearer  string
		roles   []string
		status  int
		allowed bool
	}{
		{"role held", teacher, []string{"TEACHER", "ADMIN"}, http.StatusOK, true},
		{"role not held", teacher, []string{"ADMIN"}, http.StatusOK, false},
		{"lowercase request role", teacher, []string{"teacher"}, http.StatusOK, true},
		{"expired token", expired, []string{"TEACHER"}, http.StatusOK, false},
		{"unknown role", teacher, []string{"JANITOR"}, http.StatusBadRequest, false},
		{"no roles", teacher, []string{}, http.StatusBadRequest, false},
		{"no bearer", "", []string{"TEACHER"}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := s.do(t, http.MethodPost, "/api/v1/auth/check", tt.bearer, models.CheckRoleRequest{Roles: tt.roles})
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.allowed, resp.Data.(map[string]interface{})["allowed"])
			}
		})
	}
}

func TestStaffRoute(t *testing.T) {
	s := newTestServer(t)

	for role, status := range map[token.Role]int{
		token.RoleAdmin:   http.StatusOK,
		token.RoleManager: http.StatusOK,
		token.RoleTeacher: http.StatusOK,
		token.RoleStudent: http.StatusForbidden,
	} {
		tok, err := s.manager.Issue("u", "U", role, nil, time.Hour)
		require.NoError(t, err)

		w, _ := s.do(t, http.MethodGet, "/api/v1/staff/ping", tok, nil)
		assert.Equal(t, status, w.Code, "role %s", role)
	}
}

func TestAdminUserManagement(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, testAdminUser, testAdminPassword)

	studentID := s.createUser(t, admin, "stu", "student")
	s.createUser(t, admin, "tea", "TEACHER")

	t.Run("created user can log in with its role", func(t *testing.T) {
		claims, err := s.manager.Verify(s.login(t, "stu", "password-stu"))
		require.NoError(t, err)
		assert.Equal(t, token.RoleStudent, claims.Role)
		assert.Equal(t, studentID, claims.UserID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/admin/users", admin, models.UserCreateRequest{
			Username: "stu", Password: "another-password", DisplayName: "Dup", Role: "STUDENT",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, models.ErrCodeConflict, resp.Error.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/admin/users", admin, models.UserCreateRequest{
			Username: "x", Password: "password-x", DisplayName: "X", Role: "JANITOR",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.ErrCodeInvalidRole, resp.Error.Code)
	})

	t.Run("list and filter", func(t *testing.T) {
		w, resp := s.do(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := resp.Data.(map[string]interface{})
		assert.Len(t, page["data"], 3)

		w, resp = s.do(t, http.MethodGet, "/api/v1/admin/users?role=teacher", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page = resp.Data.(map[string]interface{})
		assert.Len(t, page["data"], 1)

		w, resp = s.do(t, http.MethodGet, "/api/v1/admin/users?limit=2", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page = resp.Data.(map[string]interface{})
		assert.Len(t, page["data"], 2)
		assert.Equal(t, true, page["pagination"].(map[string]interface{})["has_next"])

		w, _ = s.do(t, http.MethodGet, "/api/v1/admin/users?limit=0", admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		w, resp := s.do(t, http.MethodGet, "/api/v1/admin/users/"+studentID, admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		user := resp.Data.(map[string]interface{})
		assert.Equal(t, "stu", user["username"])
		assert.NotContains(t, user, "password_hash")

		w, _ = s.do(t, http.MethodGet, "/api/v1/admin/users/missing", admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deactivate blocks login", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/admin/users/"+studentID+"/deactivate", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "stu", Password: "password-stu"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = s.do(t, http.MethodPost, "/api/v1/admin/users/"+studentID+"/activate", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		s.login(t, "stu", "password-stu")
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		claims, err := s.manager.Verify(admin)
		require.NoError(t, err)
		w, _ := s.do(t, http.MethodPost, "/api/v1/admin/users/"+claims.UserID+"/deactivate", admin, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/v1/admin/users/missing/deactivate", admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		teacher := s.login(t, "tea", "password-tea")
		w, resp := s.do(t, http.MethodGet, "/api/v1/admin/users", teacher, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Insufficient permissions", resp.Error.Message)
	})
}

func TestBootstrapIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.services.Start(context.Background()))

	users, err := s.services.UserRepository().List(context.Background(), token.RoleAdmin, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
