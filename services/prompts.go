package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	"github.com/interviewgenius/interview_api/shared"
)

const (
	ResourceKindLeetCode = "leetcode"
	ResourceKindGFG      = "gfg"
	ResourceKindArticles = "articles"

	GenerationKindQuestions = "questions"
	GenerationKindFeedback  = "feedback"
	GenerationKindComment   = "comment"
	GenerationKindChat      = "chat"
)

var (
	ErrUnparsableQuestions = errors.New("generated questions could not be parsed")

	codeFencePattern  = regexp.MustCompile("```json|```")
	articleURLPattern = regexp.MustCompile(`\(URL: (https?://[^)]+)\)`)
)

func questionPrompt(domain, level, testType string, count int) string {
	prompt := fmt.Sprintf("Generate %d %s level multiple choice questions about %s. Return a valid JSON array with question_text, options, correct_answer, and explanation.", count, level, domain)
	switch testType {
	case shared.TestTypeCoding:
		prompt += " Each question should test practical coding knowledge."
	case shared.TestTypeCaseStudy:
		prompt += " Each question should be framed as a short real-world case study."
	}
	return prompt
}

func feedbackPrompt(questions []model.Question, answers []string, domain string) string {
	questionsJSON, _ := shared.JSONAPI.MarshalToString(questions)
	answersJSON, _ := shared.JSONAPI.MarshalToString(answers)
	return fmt.Sprintf("Analyze these interview answers for %s domain: Questions: %s User Answers: %s Provide detailed feedback including: 1. Overall performance analysis 2. Strengths identified 3. Areas for improvement 4. Specific recommendations 5. Study resources suggestions", domain, questionsJSON, answersJSON)
}

func commentPrompt(domain string, score int) string {
	return fmt.Sprintf("Write one short encouraging sentence for a candidate who scored %d%% on a %s interview practice test.", score, domain)
}

func chatPrompt(message, chatContext string) string {
	prompt := "You are an expert AI interview coach specializing in technical and behavioral interviews. Provide concise, actionable advice (under 100 words) for this question: " + message +
		"\n\nFormat your response clearly with:\n- Key points first\n- Specific examples if relevant\n- Avoid generic advice"
	if chatContext != "" {
		prompt += "\n\nContext: " + chatContext
	}
	return prompt
}

func resourcePrompt(kind string) string {
	switch kind {
	case ResourceKindLeetCode:
		return "Provide 5 important LeetCode questions for technical interviews with their difficulty levels.\nFormat as: \"1. [Question Name] (Difficulty) - [Brief Description]\"\nKeep it concise and focus on commonly asked questions."
	case ResourceKindGFG:
		return "Provide 5 important GeeksForGeeks problems for technical interviews with their difficulty levels.\nFormat as: \"1. [Problem Name] (Difficulty) - [Brief Description]\"\nFocus on data structures and algorithms."
	default:
		return "Suggest 3 high-quality articles about technical interview preparation with their URLs. Format as: \"1. [Article Title] - [Brief Summary] (URL: [link])\" Focus on practical advice and recent content."
	}
}

type generatedQuestion struct {
	QuestionText       string   `json:"question_text"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswer      string   `json:"correct_answer"`
	CorrectAnswerCamel string   `json:"correctAnswer"`
	Explanation        string   `json:"explanation"`
}

// ParseGeneratedQuestions reads the model's JSON array, tolerating code fences and prose around it.
func ParseGeneratedQuestions(raw, domain, level, testType string) ([]model.Question, error) {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))

	var items []generatedQuestion
	if err := shared.JSONAPI.UnmarshalFromString(cleaned, &items); err != nil {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, ErrUnparsableQuestions
		}
		if err := shared.JSONAPI.UnmarshalFromString(cleaned[start:end+1], &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparsableQuestions, err)
		}
	}

	questions := make([]model.Question, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.QuestionText)
		if text == "" {
			text = strings.TrimSpace(item.Question)
		}
		if text == "" {
			continue
		}

		answer := item.CorrectAnswer
		if answer == "" {
			answer = item.CorrectAnswerCamel
		}

		id, _ := uuid.NewV7()
		questions = append(questions, model.Question{
			ID:            id.String(),
			Question:      text,
			Type:          testType,
			Options:       item.Options,
			CorrectAnswer: strings.TrimSpace(answer),
			Explanation:   item.Explanation,
			Level:         level,
			Domain:        domain,
		})
	}
	return questions, nil
}

// FallbackQuestions is the static set served when nothing else is available.
func FallbackQuestions(domain, level, testType string) []model.Question {
	return []model.Question{
		{
			ID:            "fallback-1",
			Question:      fmt.Sprintf("Sample %s question (%s level)", domain, level),
			Type:          testType,
			Options:       []string{"Option 1", "Option 2", "Option 3", "Option 4"},
			CorrectAnswer: "Option 1",
			Explanation:   "This is a sample explanation for the fallback question.",
			Level:         level,
			Domain:        domain,
		},
		{
			ID:            "fallback-2",
			Question:      fmt.Sprintf("Another %s question", domain),
			Type:          testType,
			Options:       []string{"Choice A", "Choice B", "Choice C", "Choice D"},
			CorrectAnswer: "Choice B",
			Explanation:   "This is another sample explanation.",
			Level:         level,
			Domain:        domain,
		},
	}
}

func GenerateInterviewQuestions(ctx context.Context, gen Generator, domain, level, testType string, count int) ([]model.Question, error) {
	raw, err := gen.GenerateText(ctx, questionPrompt(domain, level, testType, count))
	if err != nil {
		return nil, err
	}

	questions, err := ParseGeneratedQuestions(raw, domain, level, testType)
	if err != nil {
		return nil, err
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func GenerateFeedback(ctx context.Context, gen Generator, questions []model.Question, answers []string, domain string) (string, error) {
	return gen.GenerateText(ctx, feedbackPrompt(questions, answers, domain))
}

func GenerateComment(ctx context.Context, gen Generator, domain string, score int) (string, error) {
	return gen.GenerateText(ctx, commentPrompt(domain, score))
}

func GenerateChatResponse(ctx context.Context, gen Generator, message, chatContext string) (string, error) {
	return gen.GenerateText(ctx, chatPrompt(message, chatContext))
}

// GenerateResourceList returns the non-empty lines of a numbered list.
func GenerateResourceList(ctx context.Context, gen Generator, kind string) ([]string, error) {
	raw, err := gen.GenerateText(ctx, resourcePrompt(kind))
	if err != nil {
		return nil, err
	}

	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil, ErrEmptyGeneration
	}
	return lines, nil
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func toCuratedItems(lines []string) []dto.CuratedItem {
	items := make([]dto.CuratedItem, 0, len(lines))
	for _, line := range lines {
		item := dto.CuratedItem{Text: line}
		if m := articleURLPattern.FindStringSubmatch(line); m != nil {
			item.URL = m[1]
		}
		items = append(items, item)
	}
	return items
}

var (
	fallbackLeetCode = []string{
		"1. Two Sum (Easy) - Find two numbers that add up to target",
		"2. Reverse Linked List (Easy) - Classic linked list problem",
		"3. Merge Intervals (Medium) - Important for array manipulation",
		"4. Valid Parentheses (Easy) - Stack implementation",
		"5. Maximum Subarray (Medium) - Kadane's algorithm",
	}

	fallbackGFG = []string{
		"1. Detect Cycle in a Graph (Medium) - Graph traversal",
		"2. N-Queens Problem (Hard) - Backtracking classic",
		"3. Dijkstra's Algorithm (Hard) - Shortest path in graphs",
		"4. LRU Cache (Medium) - Design + data structures",
		"5. Rotate Matrix (Medium) - 2D array manipulation",
	}

	fallbackArticles = []string{
		"1. The Ultimate Guide to Technical Interviews - Covers all aspects (URL: https://example.com/tech-interview-guide)",
		"2. System Design Primer - GitHub repo with resources (URL: https://github.com/donnemartin/system-design-primer)",
		"3. Behavioral Interview Questions - How to answer (URL: https://example.com/behavioral-questions)",
	}
)

func fallbackCuratedResources(cause error) *dto.CuratedResourcesResponse {
	notice := "Failed to fetch resources. Showing fallback content."
	if errors.Is(cause, ErrQuotaExceeded) || (cause != nil && strings.Contains(strings.ToLower(cause.Error()), "quota")) {
		notice = "API quota exceeded. Showing fallback resources."
	}

	return &dto.CuratedResourcesResponse{
		LeetCode: toCuratedItems(fallbackLeetCode),
		GFG:      toCuratedItems(fallbackGFG),
		Articles: toCuratedItems(fallbackArticles),
		Notice:   notice,
		Fallback: true,
	}
}
