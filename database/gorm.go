package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

var _ Storage = (*GORMStore)(nil)

// StartGORM opens the database selected by DB_DRIVER
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	switch env.DB_DRIVER {
	case "sqlite":
		return OpenSQLite(env.SQLITE_PATH, gormLogger)
	case "postgres", "":
		return openPostgres(env, gormLogger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DB_DRIVER)
	}
}

func openPostgres(env *config.EnvironmentVariable, gormLogger logger.Interface) (*GORMStore, error) {
	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		PrepareStmt:    true,
	})
	if err != nil {
		log.Errorf("Unable to connect to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced. path may be
// ":memory:" for a private in-memory database.
func OpenSQLite(path string, gormLogger logger.Interface) (*GORMStore, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Errorf("Unable to open SQLite database %s: %v", path, err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// One connection: sqlite has a single writer, and an in-memory database
	// only lives as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &GORMStore{db: db}, nil
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		// Organizational reference data
		&model.Group{},
		&model.PracticeBase{},
		&model.PracticeStage{},

		// Actors
		&model.User{},

		// Placement lifecycle
		&model.PracticeAssignment{},
		&model.PracticeEvaluation{},
		&model.PracticeReport{},

		// Group documents and shared materials
		&model.OrderOrContract{},
		&model.Resource{},

		// Messaging
		&model.Message{},

		// Audit & housekeeping
		&model.IntegrationLog{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate for all models...")

	if err := s.db.AutoMigrate(Models()...); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}

	log.Info("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
