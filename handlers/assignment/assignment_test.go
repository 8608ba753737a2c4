package assignment

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
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	handler *AssignmentHandler
	staff   *model.User
	teacher *model.User
	alice   *model.User
	bob     *model.User
	group   *model.Group
	stage   *model.PracticeStage
	base    *model.PracticeBase
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
	groups := services.NewGroupService(db, audit)
	e := &env{
		db:      db,
		handler: NewAssignmentHandler(services.NewAssignmentService(db, audit)),
		group:   &model.Group{Name: "CS-21", Year: 2021},
		stage:   &model.PracticeStage{Name: "Introductory"},
		base:    &model.PracticeBase{Name: "Acme Corp"},
	}
	for _, v := range []interface{}{e.group, e.stage, e.base} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	ctx := context.Background()
	users := []struct {
		name string
		role model.Role
		dst  **model.User
	}{
		{"staff", model.RoleStaff, &e.staff},
		{"teacher", model.RoleTeacher, &e.teacher},
		{"alice", model.RoleStudent, &e.alice},
		{"bob", model.RoleStudent, &e.bob},
	}
	for _, u := range users {
		user, err := access.Provision(ctx, services.RegisterInput{
			Email: u.name + "@example.com", Password: "password123", Username: u.name, FullName: u.name, Role: u.role,
		})
		if err != nil {
			t.Fatalf("Provision(%s) error = %v", u.name, err)
		}
		*u.dst = user
	}
	for _, s := range []*model.User{e.alice, e.bob} {
		if err := groups.AssignStudent(ctx, e.staff, e.group.ID, s.ID); err != nil {
			t.Fatalf("AssignStudent() error = %v", err)
		}
	}
	return e
}

func (e *env) app(actor *model.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetUser(c, actor)
		return c.Next()
	})
	app.Get("/assignments", e.handler.ListAssignments)
	app.Post("/assignments/batch", e.handler.CreateBatch)
	app.Get("/assignments/:id", e.handler.GetAssignment)
	app.Put("/assignments/:id", e.handler.UpdateAssignment)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
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

func (e *env) batch(bobSupervisor *uint) BatchRequest {
	return BatchRequest{
		GroupID:   e.group.ID,
		StageID:   e.stage.ID,
		StartDate: "2024-09-01",
		EndDate:   "2024-12-20",
		Placements: []PlacementRequest{
			{StudentID: e.alice.ID, BaseID: &e.base.ID, SupervisorID: &e.teacher.ID},
			{StudentID: e.bob.ID, BaseID: &e.base.ID, SupervisorID: bobSupervisor},
		},
	}
}

func (e *env) assignmentCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.PracticeAssignment{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCreateBatch(t *testing.T) {
	e := newEnv(t)

	status, body := do(t, e.app(e.staff), http.MethodPost, "/assignments/batch", e.batch(&e.teacher.ID))
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d body = %+v", status, body)
	}

	var created []model.PracticeAssignment
	json.Unmarshal(body.Data, &created)
	if len(created) != 2 {
		t.Errorf("created %d assignments, want 2", len(created))
	}
	if n := e.assignmentCount(t); n != 2 {
		t.Errorf("stored %d assignments, want 2", n)
	}
}

func TestCreateBatchIncompleteRoster(t *testing.T) {
	e := newEnv(t)

	status, body := do(t, e.app(e.staff), http.MethodPost, "/assignments/batch", e.batch(nil))
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if body.Error == nil || body.Error.Code != "INCOMPLETE_ROSTER" {
		t.Fatalf("error = %+v, want INCOMPLETE_ROSTER", body.Error)
	}

	var details struct {
		StudentIDs []uint `json:"student_ids"`
	}
	json.Unmarshal(body.Error.Details, &details)
	if len(details.StudentIDs) != 1 || details.StudentIDs[0] != e.bob.ID {
		t.Errorf("student_ids = %v, want [%d]", details.StudentIDs, e.bob.ID)
	}
	if n := e.assignmentCount(t); n != 0 {
		t.Errorf("stored %d assignments after rejected batch, want 0", n)
	}
}

func TestCreateBatchRejectsBadDates(t *testing.T) {
	e := newEnv(t)

	req := e.batch(&e.teacher.ID)
	req.StartDate, req.EndDate = "2024-12-20", "2024-09-01"

	status, body := do(t, e.app(e.staff), http.MethodPost, "/assignments/batch", req)
	if status != fiber.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != "INVALID_DATE_RANGE" {
		t.Errorf("status = %d error = %+v, want INVALID_DATE_RANGE", status, body.Error)
	}
}

func TestCreateBatchRequiresStaff(t *testing.T) {
	e := newEnv(t)

	status, _ := do(t, e.app(e.teacher), http.MethodPost, "/assignments/batch", e.batch(&e.teacher.ID))
	if status != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", status)
	}
	if n := e.assignmentCount(t); n != 0 {
		t.Errorf("stored %d assignments, want 0", n)
	}
}

func TestStudentSeesOnlyOwnAssignments(t *testing.T) {
	e := newEnv(t)
	_, body := do(t, e.app(e.staff), http.MethodPost, "/assignments/batch", e.batch(&e.teacher.ID))

	var created []model.PracticeAssignment
	json.Unmarshal(body.Data, &created)

	var bobs uint
	for _, a := range created {
		if a.StudentID == e.bob.ID {
			bobs = a.ID
		}
	}

	aliceApp := e.app(e.alice)
	status, _ := do(t, aliceApp, http.MethodGet, "/assignments/"+strconv.FormatUint(uint64(bobs), 10), nil)
	if status != fiber.StatusForbidden {
		t.Errorf("GET other student's assignment = %d, want 403", status)
	}

	_, body = do(t, aliceApp, http.MethodGet, "/assignments", nil)
	var listed []model.PracticeAssignment
	json.Unmarshal(body.Data, &listed)
	if len(listed) != 1 || listed[0].StudentID != e.alice.ID {
		t.Errorf("listed = %+v, want only alice's assignment", listed)
	}
}

func TestUpdateAssignmentStatus(t *testing.T) {
	e := newEnv(t)
	app := e.app(e.staff)
	status, body := do(t, app, http.MethodPost, "/assignments/batch", e.batch(&e.teacher.ID))
	if status != fiber.StatusCreated {
		t.Fatalf("batch: status = %d error = %+v", status, body.Error)
	}

	var created []model.PracticeAssignment
	if err := json.Unmarshal(body.Data, &created); err != nil || len(created) == 0 {
		t.Fatalf("batch returned %s: %v", body.Data, err)
	}
	path := "/assignments/" + strconv.FormatUint(uint64(created[0].ID), 10)

	skip := string(model.StatusCompleted)
	status, body = do(t, app, http.MethodPut, path, UpdateRequest{Status: &skip})
	if status != fiber.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != "INVALID_TRANSITION" {
		t.Errorf("assigned -> completed: status = %d error = %+v", status, body.Error)
	}

	next := string(model.StatusInProgress)
	status, _ = do(t, app, http.MethodPut, path, UpdateRequest{Status: &next})
	if status != fiber.StatusOK {
		t.Errorf("assigned -> in_progress: status = %d, want 200", status)
	}

	bogus := "archived"
	status, body = do(t, app, http.MethodPut, path, UpdateRequest{Status: &bogus})
	if status != fiber.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("unknown status: status = %d error = %+v", status, body.Error)
	}
}
