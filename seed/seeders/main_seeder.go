package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs every seeder. Both are independent of each other.
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedQuestionsOnly(); err != nil {
		log.Printf("Question seeding failed: %v", err)
		return err
	}

	if err := s.SeedResourcesOnly(); err != nil {
		log.Printf("Resource seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedQuestionsOnly() error {
	_, err := NewQuestionSeeder(s.db).SeedQuestions()
	return err
}

func (s *MainSeeder) SeedResourcesOnly() error {
	_, err := NewResourceSeeder(s.db).SeedResources()
	return err
}
