package seeders

import (
	"encoding/json"
	"log"

	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/services/repositories"
	"github.com/interviewgenius/interview_api/shared"
	"gorm.io/gorm"
)

// QuestionSeeder fills the question bank used when generation is unavailable
type QuestionSeeder struct {
	repo *repositories.QuestionRepository
}

func NewQuestionSeeder(db *gorm.DB) *QuestionSeeder {
	return &QuestionSeeder{repo: repositories.NewQuestionRepository(db)}
}

// SeedQuestions inserts the bank once. A non-empty table is left untouched.
func (s *QuestionSeeder) SeedQuestions() (int, error) {
	count, err := s.repo.CountQuestions()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("Question bank already has %d questions, skipping", count)
		return 0, nil
	}

	created := 0
	for _, question := range bankQuestions() {
		if err := s.repo.CreateQuestion(&question); err != nil {
			log.Printf("Error creating question %q: %v", question.Question, err)
			return created, err
		}
		created++
	}

	log.Printf("Question seeding completed successfully (%d questions)", created)
	return created, nil
}

type seedQuestion struct {
	domain      string
	level       string
	testType    string
	question    string
	options     []string
	answer      string
	explanation string
	link        string
}

func bankQuestions() []model.QuestionBank {
	seeds := []seedQuestion{
		{
			domain: "tech", level: shared.LevelBeginner, testType: shared.TestTypeMCQ,
			question:    "What is the time complexity of binary search on a sorted array?",
			options:     []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"},
			answer:      "O(log n)",
			explanation: "Each comparison halves the remaining search space.",
		},
		{
			domain: "tech", level: shared.LevelBeginner, testType: shared.TestTypeMCQ,
			question:    "Which data structure follows the Last In, First Out principle?",
			options:     []string{"Queue", "Stack", "Linked List", "Heap"},
			answer:      "Stack",
			explanation: "A stack removes the most recently pushed element first.",
		},
		{
			domain: "tech", level: shared.LevelIntermediate, testType: shared.TestTypeMCQ,
			question:    "Which HTTP method is idempotent but not safe?",
			options:     []string{"GET", "POST", "PUT", "PATCH"},
			answer:      "PUT",
			explanation: "Repeating a PUT leaves the resource in the same state, but it still modifies it.",
		},
		{
			domain: "tech", level: shared.LevelIntermediate, testType: shared.TestTypeMCQ,
			question:    "What does a database index primarily improve?",
			options:     []string{"Write throughput", "Read lookup speed", "Storage size", "Transaction isolation"},
			answer:      "Read lookup speed",
			explanation: "Indexes trade extra write work and storage for faster reads.",
		},
		{
			domain: "tech", level: shared.LevelAdvanced, testType: shared.TestTypeMCQ,
			question:    "In the CAP theorem, what must a distributed system give up during a network partition?",
			options:     []string{"Either consistency or availability", "Partition tolerance", "Durability", "Latency"},
			answer:      "Either consistency or availability",
			explanation: "Under a partition a system chooses between consistent and available responses.",
		},
		{
			domain: "tech", level: shared.LevelPro, testType: shared.TestTypeMCQ,
			question:    "Which technique prevents a thundering herd when a hot cache key expires?",
			options:     []string{"Request coalescing", "Larger TTL only", "Disabling the cache", "Round-robin DNS"},
			answer:      "Request coalescing",
			explanation: "Coalescing lets one request rebuild the value while others wait for it.",
		},
		{
			domain: "tech", level: shared.LevelBeginner, testType: shared.TestTypeCoding,
			question: "Two Sum: return the indices of the two numbers in an array that add up to a target.",
			link:     "https://leetcode.com/problems/two-sum/",
		},
		{
			domain: "tech", level: shared.LevelIntermediate, testType: shared.TestTypeCoding,
			question: "Merge Intervals: merge all overlapping intervals in a list.",
			link:     "https://leetcode.com/problems/merge-intervals/",
		},
		{
			domain: "tech", level: shared.LevelAdvanced, testType: shared.TestTypeCoding,
			question: "LRU Cache: design a cache with O(1) get and put that evicts the least recently used key.",
			link:     "https://www.geeksforgeeks.org/lru-cache-implementation/",
		},
		{
			domain: "business", level: shared.LevelBeginner, testType: shared.TestTypeMCQ,
			question:    "What does ROI stand for?",
			options:     []string{"Return on Investment", "Rate of Inflation", "Revenue over Income", "Risk of Insolvency"},
			answer:      "Return on Investment",
			explanation: "ROI compares the gain from an investment to its cost.",
		},
		{
			domain: "business", level: shared.LevelIntermediate, testType: shared.TestTypeMCQ,
			question:    "Which framework analyses strengths, weaknesses, opportunities and threats?",
			options:     []string{"PESTLE", "SWOT", "Porter's Five Forces", "BCG Matrix"},
			answer:      "SWOT",
			explanation: "SWOT covers internal and external factors in four quadrants.",
		},
		{
			domain: "business", level: shared.LevelAdvanced, testType: shared.TestTypeCaseStudy,
			question: "A subscription product's churn doubled after a price increase. How would you diagnose the cause and what would you recommend?",
		},
		{
			domain: "design", level: shared.LevelBeginner, testType: shared.TestTypeMCQ,
			question:    "What is the main purpose of a wireframe?",
			options:     []string{"Final visual polish", "Layout and structure", "Brand guidelines", "Performance testing"},
			answer:      "Layout and structure",
			explanation: "Wireframes fix layout and hierarchy before visual design.",
		},
		{
			domain: "design", level: shared.LevelIntermediate, testType: shared.TestTypeMCQ,
			question:    "What minimum contrast ratio does WCAG AA require for normal body text?",
			options:     []string{"3:1", "4.5:1", "7:1", "2:1"},
			answer:      "4.5:1",
			explanation: "AA requires 4.5:1 for normal text and 3:1 for large text.",
		},
		{
			domain: "design", level: shared.LevelAdvanced, testType: shared.TestTypeCaseStudy,
			question: "Checkout completion dropped 15% after a redesign. Walk through how you would investigate and fix it.",
		},
		{
			domain: "marketing", level: shared.LevelBeginner, testType: shared.TestTypeMCQ,
			question:    "What does CTR measure?",
			options:     []string{"Cost per sale", "Clicks divided by impressions", "Customer lifetime value", "Bounce rate"},
			answer:      "Clicks divided by impressions",
			explanation: "Click-through rate is the share of impressions that led to a click.",
		},
		{
			domain: "marketing", level: shared.LevelIntermediate, testType: shared.TestTypeMCQ,
			question:    "Which attribution model gives all credit to the final touchpoint?",
			options:     []string{"First-touch", "Linear", "Last-touch", "Time-decay"},
			answer:      "Last-touch",
			explanation: "Last-touch attribution credits the interaction right before conversion.",
		},
		{
			domain: "marketing", level: shared.LevelAdvanced, testType: shared.TestTypeCaseStudy,
			question: "You have a fixed budget to launch a B2B product in a new region. How would you split channels and measure success?",
		},
	}

	questions := make([]model.QuestionBank, 0, len(seeds))
	for _, seed := range seeds {
		var options json.RawMessage
		if len(seed.options) > 0 {
			options, _ = json.Marshal(seed.options)
		}
		questions = append(questions, model.QuestionBank{
			Question:      seed.question,
			Type:          seed.testType,
			Domain:        seed.domain,
			Level:         seed.level,
			Options:       options,
			CorrectAnswer: seed.answer,
			Explanation:   seed.explanation,
			Link:          seed.link,
			IsActive:      true,
		})
	}
	return questions
}
