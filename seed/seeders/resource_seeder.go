package seeders

import (
	"encoding/json"
	"log"

	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/services/repositories"
	"gorm.io/gorm"
)

// ResourceSeeder fills the learning resource catalogue
type ResourceSeeder struct {
	repo *repositories.ResourceRepository
}

func NewResourceSeeder(db *gorm.DB) *ResourceSeeder {
	return &ResourceSeeder{repo: repositories.NewResourceRepository(db)}
}

// SeedResources inserts the catalogue once. A non-empty table is left untouched.
func (s *ResourceSeeder) SeedResources() (int, error) {
	count, err := s.repo.CountResources()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("Resources table already has %d rows, skipping", count)
		return 0, nil
	}

	created := 0
	for _, resource := range learningResources() {
		if err := s.repo.CreateResource(&resource); err != nil {
			log.Printf("Error creating resource %s: %v", resource.Title, err)
			return created, err
		}
		created++
	}

	log.Printf("Resource seeding completed successfully (%d resources)", created)
	return created, nil
}

func tags(values ...string) json.RawMessage {
	raw, _ := json.Marshal(values)
	return raw
}

func learningResources() []model.Resource {
	return []model.Resource{
		{
			Title:       "System Design Primer",
			Description: "Learn how to design large-scale systems.",
			Type:        "guide",
			URL:         "https://github.com/donnemartin/system-design-primer",
			Domain:      "tech",
			Difficulty:  "advanced",
			Tags:        tags("system-design", "scalability"),
			Rating:      4.9,
		},
		{
			Title:       "NeetCode Roadmap",
			Description: "Curated LeetCode problems grouped by pattern.",
			Type:        "guide",
			URL:         "https://neetcode.io/roadmap",
			Domain:      "tech",
			Difficulty:  "intermediate",
			Tags:        tags("algorithms", "leetcode"),
			Rating:      4.8,
		},
		{
			Title:       "Big-O Cheat Sheet",
			Description: "Time and space complexity of common data structures and algorithms.",
			Type:        "article",
			URL:         "https://www.bigocheatsheet.com/",
			Domain:      "tech",
			Difficulty:  "beginner",
			Tags:        tags("algorithms", "complexity"),
			Rating:      4.6,
		},
		{
			Title:       "The STAR Method for Behavioral Interviews",
			Description: "Structure answers as situation, task, action and result.",
			Type:        "article",
			URL:         "https://www.themuse.com/advice/star-interview-method",
			Domain:      "business",
			Difficulty:  "beginner",
			Tags:        tags("behavioral", "communication"),
			Rating:      4.5,
		},
		{
			Title:       "Case Interview Frameworks",
			Description: "Profitability, market entry and pricing frameworks for case interviews.",
			Type:        "video",
			URL:         "https://www.youtube.com/results?search_query=case+interview+frameworks",
			Domain:      "business",
			Difficulty:  "intermediate",
			Tags:        tags("case-study", "consulting"),
			Rating:      4.3,
		},
		{
			Title:       "Laws of UX",
			Description: "Psychology principles that shape interface design.",
			Type:        "guide",
			URL:         "https://lawsofux.com/",
			Domain:      "design",
			Difficulty:  "beginner",
			Tags:        tags("ux", "principles"),
			Rating:      4.7,
		},
		{
			Title:       "Design Portfolio Reviews",
			Description: "How hiring managers read a product design portfolio.",
			Type:        "video",
			URL:         "https://www.youtube.com/results?search_query=design+portfolio+review",
			Domain:      "design",
			Difficulty:  "intermediate",
			Tags:        tags("portfolio", "career"),
			Rating:      4.2,
		},
		{
			Title:       "Marketing Metrics Explained",
			Description: "CAC, LTV, CTR and conversion funnels in one place.",
			Type:        "article",
			URL:         "https://www.hubspot.com/marketing-statistics",
			Domain:      "marketing",
			Difficulty:  "beginner",
			Tags:        tags("metrics", "analytics"),
			Rating:      4.1,
		},
		{
			Title:       "Go-To-Market Strategy Guide",
			Description: "Planning channels, positioning and launch metrics.",
			Type:        "guide",
			URL:         "https://www.productmarketingalliance.com/go-to-market-strategy/",
			Domain:      "marketing",
			Difficulty:  "advanced",
			Tags:        tags("strategy", "launch"),
			Rating:      4.4,
		},
	}
}
