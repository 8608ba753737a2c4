package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"gorm.io/gorm"
)

// AccessService handles actor identity: registration, credential checks,
// profiles and roles
type AccessService struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
	audit  *AuditService
}

// NewAccessService creates a new access service
func NewAccessService(db *gorm.DB, hasher auth.PasswordHasher, audit *AuditService) *AccessService {
	return &AccessService{db: db, hasher: hasher, audit: audit}
}

// RegisterInput describes a new actor
type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
	Role     model.Role
}

// ActorFilter narrows ListActors
type ActorFilter struct {
	Role    model.Role
	GroupID *uint
}

// Register creates a student account. Teacher and staff accounts go through
// CreateActor or Provision.
func (s *AccessService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Role != "" && in.Role != model.RoleStudent {
		return nil, ErrUnauthorized
	}
	in.Role = model.RoleStudent
	return s.create(ctx, in)
}

// CreateActor lets staff create an account of any role.
func (s *AccessService) CreateActor(ctx context.Context, actor *model.User, in RegisterInput) (*model.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	user, err := s.create(ctx, in)
	s.audit.Outcome(ctx, fmt.Sprintf("user.create email=%s role=%s by=%d", normalize(in.Email), in.Role, actor.ID), err)
	return user, err
}

// Provision creates an account of any role without an acting user. It is
// meant for operator tooling such as seeding.
func (s *AccessService) Provision(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.create(ctx, in)
}

func (s *AccessService) create(ctx context.Context, in RegisterInput) (*model.User, error) {
	role, err := model.ParseRole(string(in.Role))
	if err != nil {
		return nil, invalidInput("role %q", in.Role)
	}

	email := normalize(in.Email)
	username := normalize(in.Username)
	fullName := strings.TrimSpace(in.FullName)

	switch {
	case email == "" || !strings.Contains(email, "@") || tooLong(email, 100):
		return nil, invalidInput("email must be a valid address of at most 100 characters")
	case username == "" || strings.Contains(username, "@") || tooLong(username, 50):
		return nil, invalidInput("username must be 1-50 characters without '@'")
	case tooLong(fullName, 100):
		return nil, invalidInput("full name must be at most 100 characters")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, invalidInput("password must be at least %d characters", auth.MinPasswordLength)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		FullName:     fullName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, email, username); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration.
		if dupErr := ensureUnique(s.db.WithContext(ctx), email, username); dupErr != nil {
			return nil, dupErr
		}
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Infof("Created %s account %d (%s)", user.Role, user.ID, user.Email)
	return user, nil
}

func ensureUnique(db *gorm.DB, email, username string) error {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUsername
	}
	return nil
}

// Authenticate checks credentials. An identifier containing '@' is treated as
// an email, anything else as a username.
func (s *AccessService) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = normalize(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	column := "username"
	if strings.Contains(identifier, "@") {
		column = "email"
	}

	var user model.User
	err := s.db.WithContext(ctx).Where(column+" = ?", identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetActor loads a user with its group
func (s *AccessService) GetActor(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Group").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListActors lists users ordered by full name
func (s *AccessService) ListActors(ctx context.Context, filter ActorFilter) ([]model.User, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}

	users := []model.User{}
	if err := query.Order("full_name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile changes the acting user's display name
func (s *AccessService) UpdateProfile(ctx context.Context, actor *model.User, fullName string) (*model.User, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	fullName = strings.TrimSpace(fullName)
	if tooLong(fullName, 100) {
		return nil, invalidInput("full name must be at most 100 characters")
	}

	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", actor.ID).Update("full_name", fullName)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, notFound("user", actor.ID)
	}

	return s.GetActor(ctx, actor.ID)
}

// ChangeRole lets staff change another user's role. The role is frozen once
// an assignment references the user as student or supervisor.
func (s *AccessService) ChangeRole(ctx context.Context, actor *model.User, userID uint, role model.Role) (*model.User, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !role.Valid() {
			return invalidInput("role %q", role)
		}

		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("user", userID)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.Role == role {
			return nil
		}

		var refs int64
		if err := tx.Model(&model.PracticeAssignment{}).
			Where("student_id = ? OR supervisor_id = ?", userID, userID).
			Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count assignments: %w", err)
		}
		if refs > 0 {
			return ErrRoleLocked
		}

		updates := map[string]interface{}{"role": role}
		// Only students belong to groups.
		if role != model.RoleStudent {
			updates["group_id"] = nil
		}
		return tx.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("user.role id=%d role=%s by=%d", userID, role, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return s.GetActor(ctx, userID)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
