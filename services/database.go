package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/services/repositories"
	"github.com/interviewgenius/interview_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabaseService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string

	users      *repositories.UserRepository
	sessions   *repositories.SessionRepository
	profiles   *repositories.ProfileRepository
	tests      *repositories.TestRepository
	questions  *repositories.QuestionRepository
	chats      *repositories.ChatRepository
	resources  *repositories.ResourceRepository
	rateLimits *repositories.RateLimitRepository
}

const DATABASE_SVC = "database_svc"

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// NewDatabaseService wraps an already opened connection.
func NewDatabaseService(db *gorm.DB) *DatabaseService {
	ds := &DatabaseService{}
	ds.attach(db)
	return ds
}

// Models lists every table the API migrates.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.UserSession{},
		&model.UserProfile{},
		&model.QuestionBank{},
		&model.TestSession{},
		&model.TestResult{},
		&model.ChatMessage{},
		&model.Resource{},
		&model.RateLimit{},
	}
}

func (ds DatabaseService) Id() string {
	return DATABASE_SVC
}

func (ds DatabaseService) Db() *gorm.DB {
	return ds.db
}

func (ds *DatabaseService) Configure(ctx *context.Context) error {
	ds.driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if ds.driver == "" {
		ds.driver = DriverPostgres
	}

	switch ds.driver {
	case DriverSqlite:
		ds.database = os.Getenv("DB_DATABASE")
		if ds.database == "" {
			ds.database = "interview_genius.db"
		}
	case DriverPostgres:
		ds.database = PostgresDSNFromEnv()
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", ds.driver)
	}

	return ds.DefaultService.Configure(ctx)
}

// PostgresDSNFromEnv prefers DATABASE_URL and falls back to the DB_* variables.
func PostgresDSNFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		envOrDefault("DB_HOST", "localhost"),
		envOrDefault("DB_USER", "postgres"),
		envOrDefault("DB_PASSWORD", "postgres"),
		envOrDefault("DB_NAME", "interview_genius"),
		envOrDefault("DB_PORT", "5432"),
		envOrDefault("DB_SSLMODE", "disable"),
		envOrDefault("DB_TIMEZONE", "UTC"),
	)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (ds *DatabaseService) dialector() gorm.Dialector {
	if ds.driver == DriverSqlite {
		return sqlite.Open(ds.database)
	}
	return postgres.Open(ds.database)
}

func (ds *DatabaseService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	var db *gorm.DB
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to %s database (attempt %d/%d)...", ds.driver, attempt, maxRetries)

		db, err = gorm.Open(ds.dialector(), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = db.AutoMigrate(Models()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	ds.attach(db)

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *DatabaseService) attach(db *gorm.DB) {
	ds.db = db
	ds.users = repositories.NewUserRepository(db)
	ds.sessions = repositories.NewSessionRepository(db)
	ds.profiles = repositories.NewProfileRepository(db)
	ds.tests = repositories.NewTestRepository(db)
	ds.questions = repositories.NewQuestionRepository(db)
	ds.chats = repositories.NewChatRepository(db)
	ds.resources = repositories.NewResourceRepository(db)
	ds.rateLimits = repositories.NewRateLimitRepository(db)
}

func (ds *DatabaseService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (ds *DatabaseService) Users() *repositories.UserRepository { return ds.users }
func (ds *DatabaseService) Sessions() *repositories.SessionRepository { return ds.sessions }
func (ds *DatabaseService) Profiles() *repositories.ProfileRepository { return ds.profiles }
func (ds *DatabaseService) Tests() *repositories.TestRepository { return ds.tests }
func (ds *DatabaseService) Questions() *repositories.QuestionRepository { return ds.questions }
func (ds *DatabaseService) Chats() *repositories.ChatRepository { return ds.chats }
func (ds *DatabaseService) Resources() *repositories.ResourceRepository { return ds.resources }
func (ds *DatabaseService) RateLimits() *repositories.RateLimitRepository { return ds.rateLimits }

// IsUniqueViolation reports whether err came from a unique constraint on either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func (ds *DatabaseService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest // 400
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		msg := err.Error()
		switch {
		case IsUniqueViolation(err):
			statusCode = http.StatusConflict // 409
			errorType = "UNIQUE_CONSTRAINT"
		case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"),
			strings.Contains(msg, "no such table"):
			statusCode = http.StatusInternalServerError // 500
			errorType = "SCHEMA_ERROR"
		case strings.Contains(msg, "connection refused"):
			statusCode = http.StatusServiceUnavailable // 503
			errorType = "DATABASE_CONNECTION_ERROR"
		default:
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return &shared.AppError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Err:        fmt.Errorf("%s: %w", errorType, err),
	}
}
