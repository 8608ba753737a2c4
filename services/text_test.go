package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sahilchouksey/practice-tracker/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 3, "abc"},
		{"Київ", 4, "Київ"},
		{"Київщина", 4, "Київ"},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLimitsCountCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, err := f.groups.Create(ctx, f.staff, GroupInput{Name: strings.Repeat("К", 50), Year: 2024})
	if err != nil {
		t.Fatalf("Create(50 cyrillic chars) error = %v", err)
	}
	if utf8.RuneCountInString(group.Name) != 50 {
		t.Errorf("group name has %d chars, want 50", utf8.RuneCountInString(group.Name))
	}
	if _, err := f.groups.Create(ctx, f.staff, GroupInput{Name: strings.Repeat("К", 51), Year: 2024}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Create(51 cyrillic chars) error = %v, want ErrInvalidInput", err)
	}
	if _, err := f.bases.Create(ctx, f.staff, BaseInput{Name: strings.Repeat("Б", 100)}); err != nil {
		t.Errorf("base with 100 cyrillic chars error = %v", err)
	}
	if _, err := f.stages.Create(ctx, f.staff, StageInput{Name: strings.Repeat("Е", 50)}); err != nil {
		t.Errorf("stage with 50 cyrillic chars error = %v", err)
	}

	u, err := f.access.Register(ctx, RegisterInput{
		Email:    "olena@example.com",
		Password: "secret-pass",
		Username: strings.Repeat("о", 50),
		FullName: strings.Repeat("Ш", 100),
	})
	if err != nil {
		t.Fatalf("Register(cyrillic) error = %v", err)
	}
	if _, err := f.access.UpdateProfile(ctx, u, strings.Repeat("Щ", 100)); err != nil {
		t.Errorf("UpdateProfile(100 cyrillic chars) error = %v", err)
	}
}

func TestRecordTruncatesOnRuneBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	action := "Created group " + strings.Repeat("Ж", 300)
	if err := f.audit.Record(ctx, action, model.LogSuccess); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, _, err := f.audit.List(ctx, AuditFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var stored string
	for _, e := range entries {
		if strings.HasPrefix(e.Action, "Created group ") {
			stored = e.Action
		}
	}
	if !utf8.ValidString(stored) {
		t.Fatalf("stored action is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(stored); n != maxActionLength {
		t.Errorf("stored action has %d chars, want %d", n, maxActionLength)
	}
}
