package database

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
	env    *config.EnvironmentVariable
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher auth.PasswordHasher, env *config.EnvironmentVariable) *Seeder {
	return &Seeder{db: db, hasher: hasher, env: env}
}

// SeedAll runs all seed functions. Each seed is skipped when its table already
// has rows, so running it twice is harmless.
func (s *Seeder) SeedAll() error {
	log.Info("Starting database seeding...")

	if err := s.SeedStaffUser(); err != nil {
		return fmt.Errorf("failed to seed staff user: %w", err)
	}

	if err := s.SeedStages(); err != nil {
		return fmt.Errorf("failed to seed stages: %w", err)
	}

	if err := s.SeedBases(); err != nil {
		return fmt.Errorf("failed to seed bases: %w", err)
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

// SeedStaffUser creates the first staff account from STAFF_EMAIL and
// STAFF_PASSWORD
func (s *Seeder) SeedStaffUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleStaff).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("Staff user already exists, skipping...")
		return nil
	}

	if s.env.STAFF_EMAIL == "" || s.env.STAFF_PASSWORD == "" {
		log.Warn("STAFF_EMAIL and STAFF_PASSWORD environment variables not set, skipping staff user creation")
		return nil
	}

	passwordHash, err := s.hasher.Hash(s.env.STAFF_PASSWORD)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(s.env.STAFF_EMAIL)),
		Username:     strings.ToLower(strings.TrimSpace(s.env.STAFF_USERNAME)),
		PasswordHash: passwordHash,
		FullName:     "Practice Office",
		Role:         model.RoleStaff,
	}

	if err := s.db.Create(staff).Error; err != nil {
		return err
	}

	log.Infof("Created staff user: %s", staff.Email)
	return nil
}

// SeedStages creates the usual practice stages
func (s *Seeder) SeedStages() error {
	var count int64
	if err := s.db.Model(&model.PracticeStage{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Infof("Stages already exist (%d), skipping...", count)
		return nil
	}

	stages := []model.PracticeStage{
		{Name: "Introductory", Description: "First-year familiarization practice"},
		{Name: "Technological", Description: "Hands-on work in a production team"},
		{Name: "Pre-diploma", Description: "Final practice supporting the diploma project"},
	}

	if err := s.db.Create(&stages).Error; err != nil {
		return err
	}

	log.Infof("Created %d stages", len(stages))
	return nil
}

// SeedBases creates a sample practice base so a fresh install can run a batch
func (s *Seeder) SeedBases() error {
	var count int64
	if err := s.db.Model(&model.PracticeBase{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Infof("Bases already exist (%d), skipping...", count)
		return nil
	}

	base := &model.PracticeBase{
		Name:        "University IT Department",
		Address:     "Main campus, building 1",
		ContactInfo: "it-office@university.example",
	}

	if err := s.db.Create(base).Error; err != nil {
		return err
	}

	log.Infof("Created practice base: %s", base.Name)
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB, env *config.EnvironmentVariable) error {
	seeder := NewSeeder(db, auth.NewBcryptHasher(env.BCRYPT_COST), env)
	return seeder.SeedAll()
}
