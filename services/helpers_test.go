package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	audit       *AuditService
	access      *AccessService
	groups      *GroupService
	bases       *BaseService
	stages      *StageService
	assignments *AssignmentService
	evaluations *EvaluationService
	messages    *MessageService
	orders      *OrderService
	resources   *ResourceService

	staff   *model.User
	teacher *model.User
	studA   *model.User
	studB   *model.User
	group   *model.Group
	stage   *model.PracticeStage
	base1   *model.PracticeBase
	base2   *model.PracticeBase
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return store.GetDB()
}

// newFixture builds a database with group CS-21 holding students A and B, one
// stage, two bases, a teacher and a staff member.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	audit := NewAuditService(db)
	f := &fixture{
		db:          db,
		audit:       audit,
		access:      NewAccessService(db, auth.NewBcryptHasher(bcrypt.MinCost), audit),
		groups:      NewGroupService(db, audit),
		bases:       NewBaseService(db, audit),
		stages:      NewStageService(db, audit),
		assignments: NewAssignmentService(db, audit),
		evaluations: NewEvaluationService(db),
		messages:    NewMessageService(db),
		orders:      NewOrderService(db, audit),
		resources:   NewResourceService(db),
	}

	f.staff = f.mustUser(t, "staff", model.RoleStaff, "Staff Member")
	f.teacher = f.mustUser(t, "teacher", model.RoleTeacher, "Teacher One")
	f.studA = f.mustUser(t, "alice", model.RoleStudent, "Alice A")
	f.studB = f.mustUser(t, "bob", model.RoleStudent, "Bob B")

	f.group = &model.Group{Name: "CS-21", Year: 2021}
	f.stage = &model.PracticeStage{Name: "Introductory"}
	f.base1 = &model.PracticeBase{Name: "Acme Corp"}
	f.base2 = &model.PracticeBase{Name: "Globex"}
	for _, v := range []interface{}{f.group, f.stage, f.base1, f.base2} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	ctx := context.Background()
	for _, s := range []*model.User{f.studA, f.studB} {
		if err := f.groups.AssignStudent(ctx, f.staff, f.group.ID, s.ID); err != nil {
			t.Fatalf("AssignStudent() error = %v", err)
		}
	}
	// Start every test from an empty log.
	db.Where("1 = 1").Delete(&model.IntegrationLog{})

	return f
}

func (f *fixture) mustUser(t *testing.T, username string, role model.Role, fullName string) *model.User {
	t.Helper()
	u, err := f.access.Provision(context.Background(), RegisterInput{
		Email:    username + "@example.com",
		Password: "password123",
		Username: username,
		FullName: fullName,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Provision(%s) error = %v", username, err)
	}
	return u
}

// batch returns a complete batch for the fixture group: A at base1 and B at
// base2, both supervised by the teacher.
func (f *fixture) batch() BatchInput {
	return BatchInput{
		GroupID:   f.group.ID,
		StageID:   f.stage.ID,
		StartDate: "2024-09-01",
		EndDate:   "2024-12-20",
		Placements: []Placement{
			{StudentID: f.studA.ID, BaseID: ptr(f.base1.ID), SupervisorID: ptr(f.teacher.ID)},
			{StudentID: f.studB.ID, BaseID: ptr(f.base2.ID), SupervisorID: ptr(f.teacher.ID)},
		},
	}
}

func (f *fixture) count(t *testing.T, m interface{}, cond string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(m)
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) reload(t *testing.T, id uint) *model.User {
	t.Helper()
	var u model.User
	if err := f.db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &u
}

func ptr[T any](v T) *T {
	return &v
}
