package services

import (
	"math"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
)

const (
	statsResultLimit = 50
	strongThreshold  = 75
	weakThreshold    = 60
)

var improvementTips = map[string]string{
	"Technical":       "Practice more coding problems and review fundamental concepts",
	"Behavioral":      "Work on STAR method for behavioral questions",
	"System Design":   "Study scalable system architectures and design patterns",
	"Communication":   "Practice explaining complex topics in simple terms",
	"Problem Solving": "Break down problems into smaller, manageable parts",
	"Leadership":      "Develop examples of leadership experiences and impact",
}

func (svc *UserService) CalculatePerformanceStats(userID string) (*dto.PerformanceStats, error) {
	profile, err := svc.getProfile(userID)
	if err != nil {
		return nil, err
	}

	results, err := svc.dbSvc.Tests().GetUserResults(userID, statsResultLimit)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	return calculatePerformanceStats(results, profile.Streak), nil
}

// calculatePerformanceStats expects results newest first.
func calculatePerformanceStats(results []model.TestResult, streak int) *dto.PerformanceStats {
	if len(results) == 0 {
		return &dto.PerformanceStats{
			StrongAreas:     []string{},
			WeakAreas:       []string{},
			ImprovementTips: []string{},
			WeeklyProgress:  []dto.WeeklyScore{},
			SkillRadar:      []dto.SkillAverage{},
		}
	}

	total := 0
	for _, r := range results {
		total += r.Score
	}
	average := roundDiv(total, len(results))

	radar, strong, weak := skillAnalysis(results)

	return &dto.PerformanceStats{
		TotalTests:         len(results),
		AverageScore:       average,
		StrongAreas:        strong,
		WeakAreas:          weak,
		ImprovementTips:    generateImprovementTips(weak),
		WeeklyProgress:     weeklyProgress(results),
		SkillRadar:         radar,
		ProgressPercentage: progressPercentage(average, streak),
	}
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func progressPercentage(average, streak int) int {
	p := int(math.Round(float64(average+streak*2) / 1.2))
	if p > 100 {
		return 100
	}
	return p
}

// weeklyProgress buckets consecutive results in groups of five.
func weeklyProgress(results []model.TestResult) []dto.WeeklyScore {
	weeks := []string{"Week 1", "Week 2", "Week 3", "Week 4"}
	progress := make([]dto.WeeklyScore, 0, len(weeks))

	for i, week := range weeks {
		start := i * 5
		end := start + 5
		if start > len(results) {
			start = len(results)
		}
		if end > len(results) {
			end = len(results)
		}

		sum := 0
		for _, r := range results[start:end] {
			sum += r.Score
		}
		progress = append(progress, dto.WeeklyScore{Week: week, Score: roundDiv(sum, end-start)})
	}
	return progress
}

// skillAnalysis averages scores per domain in first-seen order.
func skillAnalysis(results []model.TestResult) (radar []dto.SkillAverage, strong, weak []string) {
	sums := map[string][]int{}
	var order []string

	for _, r := range results {
		skill := r.Domain
		if skill == "" {
			skill = "General"
		}
		if _, seen := sums[skill]; !seen {
			order = append(order, skill)
		}
		sums[skill] = append(sums[skill], r.Score)
	}

	radar = make([]dto.SkillAverage, 0, len(order))
	strong = []string{}
	weak = []string{}

	for _, skill := range order {
		total := 0
		for _, s := range sums[skill] {
			total += s
		}
		avg := roundDiv(total, len(sums[skill]))
		radar = append(radar, dto.SkillAverage{Skill: skill, Score: avg})

		if avg >= strongThreshold {
			strong = append(strong, skill)
		}
		if avg < weakThreshold {
			weak = append(weak, skill)
		}
	}
	return radar, strong, weak
}

func generateImprovementTips(weakAreas []string) []string {
	tips := make([]string, 0, len(weakAreas))
	for _, area := range weakAreas {
		if tip, ok := improvementTips[area]; ok {
			tips = append(tips, tip)
			continue
		}
		tips = append(tips, "Focus on improving "+area+" skills")
	}
	return tips
}

// percentileRank is the share of peer results that scored strictly lower.
func percentileRank(total, below int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(below) / float64(total) * 100))
}
