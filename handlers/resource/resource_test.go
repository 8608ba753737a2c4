package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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
	handler *ResourceHandler
	teacher *model.User
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
	access := services.NewAccessService(db, auth.NewBcryptHasher(bcrypt.MinCost), services.NewAuditService(db))
	e := &env{handler: NewResourceHandler(services.NewResourceService(db))}

	ctx := context.Background()
	for _, u := range []struct {
		name string
		role model.Role
		dst  **model.User
	}{
		{"mentor", model.RoleTeacher, &e.teacher},
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
	app.Get("/resources", e.handler.ListResources)
	app.Post("/resources", e.handler.CreateResource)
	app.Delete("/resources/:id", e.handler.DeleteResource)
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

func TestCreateResourceRequiresSupervisor(t *testing.T) {
	e := newEnv(t)
	req := ResourceRequest{Title: "Шаблон звіту", FilePath: "templates/report.docx", Type: "template"}

	status, body := do(t, e.app(e.student), http.MethodPost, "/resources", req)
	if status != fiber.StatusForbidden || body.Error == nil || body.Error.Code != "FORBIDDEN" {
		t.Fatalf("student upload: status = %d body = %+v, want 403 FORBIDDEN", status, body)
	}

	status, body = do(t, e.app(e.teacher), http.MethodPost, "/resources", req)
	if status != fiber.StatusCreated {
		t.Fatalf("teacher upload: status = %d body = %+v", status, body)
	}
	var created model.Resource
	if err := json.Unmarshal(body.Data, &created); err != nil {
		t.Fatalf("decode resource: %v", err)
	}

	status, body = do(t, e.app(e.student), http.MethodGet, "/resources?type=template", nil)
	var listed []model.Resource
	if err := json.Unmarshal(body.Data, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if status != fiber.StatusOK || len(listed) != 1 || listed[0].Title != "Шаблон звіту" {
		t.Errorf("list: status = %d resources = %+v", status, listed)
	}

	path := "/resources/" + strconv.Itoa(int(created.ID))
	if status, body := do(t, e.app(e.student), http.MethodDelete, path, nil); status != fiber.StatusForbidden || body.Error == nil || body.Error.Code != "FORBIDDEN" {
		t.Errorf("foreign delete: status = %d body = %+v, want 403", status, body)
	}
	if status, _ := do(t, e.app(e.teacher), http.MethodDelete, path, nil); status != fiber.StatusOK {
		t.Errorf("own delete: status = %d, want 200", status)
	}
	if status, body := do(t, e.app(e.teacher), http.MethodDelete, path, nil); status != fiber.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Errorf("repeat delete: status = %d body = %+v, want 404 NOT_FOUND", status, body)
	}
}

func TestCreateResourceRejectsUnknownType(t *testing.T) {
	e := newEnv(t)

	status, body := do(t, e.app(e.teacher), http.MethodPost, "/resources",
		ResourceRequest{Title: "Guide", FilePath: "guide.pdf", Type: "video"})
	if status != fiber.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("status = %d body = %+v, want 422 VALIDATION_ERROR", status, body)
	}
}
