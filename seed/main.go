package main

import (
	"flag"
	"log"
	"os"

	"github.com/interviewgenius/interview_api/seed/seeders"
	"github.com/interviewgenius/interview_api/services"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, questions, resources")
		dbPath   = flag.String("db", "", "SQLite database path (forces the sqlite driver)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	dialector, target := openDialector(*dbPath)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to database: %s", target)

	if err := db.AutoMigrate(services.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "questions":
		log.Println("Seeding question bank only...")
		if err := mainSeeder.SeedQuestionsOnly(); err != nil {
			log.Fatalf("Failed to seed questions: %v", err)
		}
	case "resources":
		log.Println("Seeding resources only...")
		if err := mainSeeder.SeedResourcesOnly(); err != nil {
			log.Fatalf("Failed to seed resources: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'questions', or 'resources'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

// openDialector mirrors the API's DB_DRIVER handling; -db always means sqlite.
func openDialector(dbPath string) (gorm.Dialector, string) {
	if dbPath != "" {
		return sqlite.Open(dbPath), dbPath
	}
	if os.Getenv("DB_DRIVER") == services.DriverSqlite {
		path := os.Getenv("DB_DATABASE")
		if path == "" {
			path = "interview_genius.db"
		}
		return sqlite.Open(path), path
	}
	return postgres.Open(services.PostgresDSNFromEnv()), "postgres"
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the Interview Genius API

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, questions, resources
  -db string
        SQLite database path (overrides DB_DRIVER and DB_DATABASE)
  -help
        Show this help message

Examples:
  # Seed everything into the configured database
  go run ./seed

  # Seed only the question bank
  go run ./seed -type=questions

  # Seed a local sqlite file
  go run ./seed -db=./dev.db

Environment Variables:
  DB_DRIVER    - postgres (default) or sqlite
  DB_DATABASE  - sqlite path when DB_DRIVER=sqlite
  DATABASE_URL - postgres DSN, otherwise built from DB_HOST, DB_USER, DB_PASSWORD, DB_NAME, DB_PORT
`)
}
