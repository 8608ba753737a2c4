package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"github.com/sahilchouksey/practice-tracker/utils/middleware"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	bases   *BaseHandler
	stages  *StageHandler
	staff   *model.User
	student *model.User
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	db := store.GetDB()
	audit := services.NewAuditService(db)
	access := services.NewAccessService(db, auth.NewBcryptHasher(bcrypt.MinCost), audit)
	e := &env{
		bases:  NewBaseHandler(services.NewBaseService(db, audit)),
		stages: NewStageHandler(services.NewStageService(db, audit)),
	}

	ctx := context.Background()
	for _, u := range []struct {
		name string
		role model.Role
		dst  **model.User
	}{
		{"staff", model.RoleStaff, &e.staff},
		{"zoe", model.RoleStudent, &e.student},
	} {
		user, err := access.Provision(ctx, services.RegisterInput{
			Email: u.name + "@example.com", Password: "password123", Username: u.name, FullName: u.name, Role: u.role,
		})
		if err != nil {
			t.Fatalf("Provision(%s) error = %v", u.name, err)
		}
		*u.dst = user
	}
	return e
}

func (e *env) app(actor *model.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetUser(c, actor)
		return c.Next()
	})
	app.Get("/bases", e.bases.ListBases)
	app.Post("/bases", e.bases.CreateBase)
	app.Get("/bases/:id", e.bases.GetBase)
	app.Delete("/bases/:id", e.bases.DeleteBase)
	app.Post("/stages", e.stages.CreateStage)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestCreateBaseRequiresStaff(t *testing.T) {
	e := newEnv(t)

	status, body := do(t, e.app(e.student), http.MethodPost, "/bases", BaseRequest{Name: "Acme"})
	if status != fiber.StatusForbidden || body.Error == nil || body.Error.Code != "FORBIDDEN" {
		t.Fatalf("student create: status = %d body = %+v, want 403 FORBIDDEN", status, body)
	}

	status, body = do(t, e.app(e.staff), http.MethodPost, "/bases", BaseRequest{Name: "Acme", Address: "Main st. 1"})
	if status != fiber.StatusCreated || !body.Success {
		t.Fatalf("staff create: status = %d body = %+v", status, body)
	}
	var base model.PracticeBase
	if err := json.Unmarshal(body.Data, &base); err != nil {
		t.Fatalf("decode base: %v", err)
	}
	if base.Name != "Acme" {
		t.Errorf("name = %q", base.Name)
	}
}

func TestCatalogErrorEnvelope(t *testing.T) {
	e := newEnv(t)
	app := e.app(e.staff)

	if status, body := do(t, app, http.MethodGet, "/bases/4242", nil); status != fiber.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Errorf("missing base: status = %d body = %+v, want 404 NOT_FOUND", status, body)
	}
	if status, body := do(t, app, http.MethodDelete, "/bases/4242", nil); status != fiber.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Errorf("delete missing base: status = %d body = %+v, want 404 NOT_FOUND", status, body)
	}
	if status, body := do(t, app, http.MethodPost, "/stages", StageRequest{Name: "   "}); status != fiber.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("blank stage: status = %d body = %+v, want 422 VALIDATION_ERROR", status, body)
	}
}

func TestCreateStageCyrillicName(t *testing.T) {
	e := newEnv(t)

	name := strings.Repeat("Е", 50)
	status, body := do(t, e.app(e.staff), http.MethodPost, "/stages", StageRequest{Name: name})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d body = %+v, want 201", status, body)
	}
	var stage model.PracticeStage
	if err := json.Unmarshal(body.Data, &stage); err != nil {
		t.Fatalf("decode stage: %v", err)
	}
	if stage.Name != name {
		t.Errorf("name = %q, want %q", stage.Name, name)
	}
}
