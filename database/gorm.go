package database

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/learnhub-api/config"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db  *gorm.DB
	log *utils.Logger
}

// Models lists every table managed by AutoMigrate, in dependency order
func Models() []interface{} {
	return []interface{}{
		// User-related models
		&model.User{},
		&model.JWTTokenBlacklist{},

		// Course content
		&model.Course{},
		&model.Lesson{},
		&model.Quiz{},
		&model.QuizQuestion{},

		// Progress tracking
		&model.Enrollment{},
		&model.LessonCompletion{},
		&model.QuizResult{},

		// Audit & logging models
		&model.CronJobLog{},
		&model.AdminAuditLog{},
	}
}

// NewGORMConfig returns the GORM settings shared by every dialect
func NewGORMConfig(production bool) *gorm.Config {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if production {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // surface unique violations as gorm.ErrDuplicatedKey
	}
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnviornmentVariable, log *utils.Logger) (*GORMStore, error) {
	cfg := NewGORMConfig(env.IsProduction())
	cfg.PrepareStmt = true // Prepare statements for better performance

	db, err := gorm.Open(postgres.Open(env.PostgresDSN()), cfg)
	if err != nil {
		log.Error("Unable to connect to PostgreSQL with GORM", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Successfully connected to PostgreSQL Database with GORM", "host", env.DB_HOST)

	return NewGORMStore(db, log), nil
}

// NewGORMStore wraps an already opened connection
func NewGORMStore(db *gorm.DB, log *utils.Logger) *GORMStore {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &GORMStore{db: db, log: log}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	s.log.Info("Running GORM AutoMigrate for all models")

	if err := s.db.AutoMigrate(Models()...); err != nil {
		s.log.Error("Error running AutoMigrate", "error", err)
		return fmt.Errorf("failed to migrate: %w", err)
	}

	s.log.Info("GORM AutoMigrate completed successfully")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	s.log.Info("Closing GORM connection")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// Tables returns the table name of every managed model, in migration order
func (s *GORMStore) Tables() ([]string, error) {
	models := Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
