package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_ListResources(t *testing.T) {
	db := newTestDatabase(t)
	tags, _ := json.Marshal([]string{"system-design"})
	for _, r := range []model.Resource{
		{Title: "System Design Primer", Type: "guide", Domain: "tech", Difficulty: "advanced", Tags: tags, Rating: 4.9},
		{Title: "Big-O Cheat Sheet", Type: "article", Domain: "tech", Difficulty: "beginner", Rating: 4.6},
		{Title: "Laws of UX", Type: "guide", Domain: "design", Difficulty: "beginner", Rating: 4.7},
	} {
		r := r
		require.NoError(t, db.Resources().CreateResource(&r))
	}
	svc := NewResourceService(db, nil, nil)

	tests := []struct {
		name   string
		filter dto.ResourceFilter
		titles []string
	}{
		{name: "no filter sorts by rating", titles: []string{"System Design Primer", "Laws of UX", "Big-O Cheat Sheet"}},
		{name: "domain", filter: dto.ResourceFilter{Domain: "tech"}, titles: []string{"System Design Primer", "Big-O Cheat Sheet"}},
		{name: "difficulty and type", filter: dto.ResourceFilter{Difficulty: "beginner", Type: "guide"}, titles: []string{"Laws of UX"}},
		{name: "no match", filter: dto.ResourceFilter{Domain: "marketing"}, titles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources, err := svc.ListResources(tt.filter)
			require.NoError(t, err)

			titles := []string{}
			for _, r := range resources {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}

	resources, err := svc.ListResources(dto.ResourceFilter{Difficulty: "advanced"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, []string{"system-design"}, resources[0].Tags)
}

func TestResourceService_GetCuratedResources(t *testing.T) {
	ctx := context.Background()

	t.Run("generated lists", func(t *testing.T) {
		gen := &stubGenerator{reply: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "LeetCode"):
				return "1. Two Sum (Easy) - Hash map lookup", nil
			case strings.Contains(prompt, "GeeksForGeeks"):
				return "1. N-Queens (Hard) - Backtracking", nil
			default:
				return "1. Interview Guide - Prep tips (URL: https://example.org/guide)", nil
			}
		}}
		svc := NewResourceService(newTestDatabase(t), nil, gen)

		resp, err := svc.GetCuratedResources(ctx)
		require.NoError(t, err)
		assert.False(t, resp.Fallback)
		assert.Empty(t, resp.Notice)
		assert.Equal(t, []dto.CuratedItem{{Text: "1. Two Sum (Easy) - Hash map lookup"}}, resp.LeetCode)
		assert.Equal(t, []dto.CuratedItem{{Text: "1. N-Queens (Hard) - Backtracking"}}, resp.GFG)
		require.Len(t, resp.Articles, 1)
		assert.Equal(t, "https://example.org/guide", resp.Articles[0].URL)
	})

	t.Run("one failing list falls back entirely", func(t *testing.T) {
		gen := &stubGenerator{reply: func(prompt string) (string, error) {
			if strings.Contains(prompt, "GeeksForGeeks") {
				return "", ErrQuotaExceeded
			}
			return "1. Something", nil
		}}
		svc := NewResourceService(newTestDatabase(t), nil, gen)

		resp, err := svc.GetCuratedResources(ctx)
		require.NoError(t, err)
		assert.True(t, resp.Fallback)
		assert.Equal(t, "API quota exceeded. Showing fallback resources.", resp.Notice)
		assert.Len(t, resp.LeetCode, 5)
		assert.Equal(t, "1. Two Sum (Easy) - Find two numbers that add up to target", resp.LeetCode[0].Text)
	})

	t.Run("generic failure notice", func(t *testing.T) {
		svc := NewResourceService(newTestDatabase(t), nil, failingGenerator(errors.New("timeout")))

		resp, err := svc.GetCuratedResources(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Failed to fetch resources. Showing fallback content.", resp.Notice)
	})
}
