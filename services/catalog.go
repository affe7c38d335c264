package services

import (
	"fmt"
	"strings"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
)

const (
	BadgeTestVeteran   = "test-veteran"
	BadgePerfectionist = "perfectionist"
	BadgeCodingMaster  = "coding-master"

	specialistSuffix = "-specialist"
)

var badgeCatalog = map[string]dto.BadgeResponse{
	BadgeTestVeteran: {
		ID:          BadgeTestVeteran,
		Name:        "Test Veteran",
		Description: "Completed 10 practice tests",
		Icon:        "trophy",
		Color:       "from-purple-500 to-purple-700",
	},
	BadgePerfectionist: {
		ID:          BadgePerfectionist,
		Name:        "Perfectionist",
		Description: "Scored 90% or higher on a test",
		Icon:        "star",
		Color:       "from-yellow-500 to-orange-500",
	},
	BadgeCodingMaster: {
		ID:          BadgeCodingMaster,
		Name:        "Coding Master",
		Description: "Finished a coding challenge after 5 tests",
		Icon:        "zap",
		Color:       "from-blue-500 to-blue-700",
	},
}

var catalogDomains = []dto.CatalogOption{
	{ID: "tech", Name: "Technology"},
	{ID: "business", Name: "Business"},
	{ID: "design", Name: "Design"},
	{ID: "marketing", Name: "Marketing"},
}

var catalogLevels = []dto.CatalogOption{
	{ID: shared.LevelBeginner, Name: "Beginner", Description: "Basic concepts and fundamentals"},
	{ID: shared.LevelIntermediate, Name: "Intermediate", Description: "Moderate complexity questions"},
	{ID: shared.LevelAdvanced, Name: "Advanced", Description: "Complex problem-solving"},
	{ID: shared.LevelPro, Name: "Professional", Description: "Expert-level challenges"},
}

var catalogTestTypes = []dto.CatalogOption{
	{ID: shared.TestTypeMCQ, Name: "Multiple Choice", Description: "AI-generated MCQ questions", Duration: 30},
	{ID: shared.TestTypeCoding, Name: "Coding Challenge", Description: "LeetCode and GFG problems", Duration: 60},
	{ID: shared.TestTypeCaseStudy, Name: "Case Study", Description: "Real-world scenario analysis", Duration: 45},
}

// SpecialistBadgeID names the badge for five tests in one domain.
func SpecialistBadgeID(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain)) + specialistSuffix
}

// BadgeInfo resolves display data for a badge id, including per-domain specialist badges.
func BadgeInfo(id string) dto.BadgeResponse {
	if badge, ok := badgeCatalog[id]; ok {
		return badge
	}

	if strings.HasSuffix(id, specialistSuffix) {
		domain := strings.TrimSuffix(id, specialistSuffix)
		title := domain
		if title != "" {
			title = strings.ToUpper(title[:1]) + title[1:]
		}
		return dto.BadgeResponse{
			ID:          id,
			Name:        title + " Specialist",
			Description: fmt.Sprintf("Completed 5 %s tests", domain),
			Icon:        "target",
			Color:       "from-red-500 to-pink-500",
		}
	}

	return dto.BadgeResponse{ID: id, Name: id, Icon: "award", Color: "from-gray-500 to-gray-700"}
}

// TestDurationMinutes is the time box shown for a test type.
func TestDurationMinutes(testType string) int {
	for _, t := range catalogTestTypes {
		if t.ID == testType {
			return t.Duration
		}
	}
	return 30
}

func GetCatalog() *dto.CatalogResponse {
	badges := make([]dto.BadgeResponse, 0, len(badgeCatalog)+len(catalogDomains))
	for _, id := range []string{BadgeTestVeteran, BadgePerfectionist, BadgeCodingMaster} {
		badges = append(badges, badgeCatalog[id])
	}
	for _, d := range catalogDomains {
		badges = append(badges, BadgeInfo(SpecialistBadgeID(d.ID)))
	}

	return &dto.CatalogResponse{
		Domains:   catalogDomains,
		Levels:    catalogLevels,
		TestTypes: catalogTestTypes,
		Badges:    badges,
	}
}
