package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"golang.org/x/crypto/bcrypt"
)

func testEnv() *config.EnvironmentVariable {
	return &config.EnvironmentVariable{
		GO_ENV:          "test",
		JWT_SECRET:      "router-test-secret",
		JWT_ISSUER:      "practice-tracker-test",
		ALLOWED_ORIGINS: "*",
		BCRYPT_COST:     bcrypt.MinCost,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *database.GORMStore) {
	t.Helper()

	store, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	app := fiber.New()
	cleanup, err := SetupRoutes(app, store, testEnv())
	if err != nil {
		t.Fatalf("SetupRoutes() error = %v", err)
	}
	t.Cleanup(cleanup)
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out.Data
}

func login(t *testing.T, app *fiber.App, identifier string) string {
	t.Helper()

	status, data := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": identifier,
		"password":   "password123",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login(%s) = %d", identifier, status)
	}
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(data, &tokens)
	return tokens.AccessToken
}

func TestSetupRoutesRequiresSecret(t *testing.T) {
	env := testEnv()
	env.JWT_SECRET = ""

	if _, err := SetupRoutes(fiber.New(), nil, env); err != ErrMissingJWTSecret {
		t.Errorf("SetupRoutes() error = %v, want ErrMissingJWTSecret", err)
	}
}

func TestPing(t *testing.T) {
	app, _ := newTestApp(t)

	if status, _ := call(t, app, http.MethodGet, "/ping", "", nil); status != fiber.StatusOK {
		t.Errorf("GET /ping = %d, want 200", status)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/v1/groups", "/api/v1/assignments", "/api/v1/profile", "/api/v1/audit-logs"} {
		if status, _ := call(t, app, http.MethodGet, path, "", nil); status != fiber.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, status)
		}
	}
}

func TestStaffOnlyRoutes(t *testing.T) {
	app, store := newTestApp(t)

	access := services.NewAccessService(store.GetDB(), auth.NewBcryptHasher(bcrypt.MinCost), services.NewAuditService(store.GetDB()))
	if _, err := access.Provision(context.Background(), services.RegisterInput{
		Email: "staff@example.com", Password: "password123", Username: "staff", Role: model.RoleStaff,
	}); err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	status, _ := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "sam@example.com", "password": "password123", "username": "sam",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register = %d", status)
	}

	student := login(t, app, "sam")
	staff := login(t, app, "staff@example.com")

	if status, _ := call(t, app, http.MethodGet, "/api/v1/users", student, nil); status != fiber.StatusForbidden {
		t.Errorf("student GET /users = %d, want 403", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/users", staff, nil); status != fiber.StatusOK {
		t.Errorf("staff GET /users = %d, want 200", status)
	}

	group := map[string]interface{}{"name": "CS-24", "year": 2024}
	if status, _ := call(t, app, http.MethodPost, "/api/v1/groups", student, group); status != fiber.StatusForbidden {
		t.Errorf("student POST /groups = %d, want 403", status)
	}
	if status, _ := call(t, app, http.MethodPost, "/api/v1/groups", staff, group); status != fiber.StatusCreated {
		t.Errorf("staff POST /groups = %d, want 201", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/groups", student, nil); status != fiber.StatusOK {
		t.Errorf("student GET /groups = %d, want 200", status)
	}

	status, data := call(t, app, http.MethodGet, "/api/v1/audit-logs", staff, nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET /audit-logs = %d", status)
	}
	var logs []model.IntegrationLog
	json.Unmarshal(data, &logs)
	if len(logs) == 0 {
		t.Error("expected the group creation to be audited")
	}
}
