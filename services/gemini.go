package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	GEMINI_SVC = "gemini_svc"

	defaultGeminiModel   = "gemini-1.5-flash"
	defaultGeminiTimeout = 30 * time.Second
)

var (
	ErrGenerationDisabled = errors.New("generation disabled: GEMINI_API_KEY not set")
	ErrQuotaExceeded      = errors.New("generation quota exceeded")
	ErrEmptyGeneration    = errors.New("generation returned no content")
)

// Generator produces free text for a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type GeminiService struct {
	appContext.DefaultService

	client  *genai.Client
	apiKey  string
	model   string
	timeout time.Duration
}

func (svc GeminiService) Id() string {
	return GEMINI_SVC
}

func (svc *GeminiService) Configure(ctx *appContext.Context) error {
	svc.apiKey = os.Getenv("GEMINI_API_KEY")

	svc.model = os.Getenv("GEMINI_MODEL")
	if svc.model == "" {
		svc.model = defaultGeminiModel
	}

	svc.timeout = defaultGeminiTimeout
	if raw := os.Getenv("GEMINI_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
		}
		svc.timeout = timeout
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *GeminiService) Start() error {
	if svc.apiKey == "" {
		log.Warn("GEMINI_API_KEY not set, serving fallback content only")
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  svc.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	svc.client = client

	log.Printf("Gemini client ready (model %s)", svc.model)
	return nil
}

func (svc *GeminiService) Shutdown() {}

func (svc *GeminiService) Enabled() bool {
	return svc != nil && svc.client != nil
}

func (svc *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !svc.Enabled() {
		return "", ErrGenerationDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	resp, err := svc.client.Models.GenerateContent(ctx, svc.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyGenerationError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}

func classifyGenerationError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return err
}
