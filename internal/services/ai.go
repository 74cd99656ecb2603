package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrAnnotationUnavailable wraps every failure mode of the annotation service:
// transport errors, timeouts, and malformed responses. Callers treat it as
// terminal for the request; nothing is retried.
var ErrAnnotationUnavailable = errors.New("annotation service unavailable")

// TimeEstimate is the upstream estimate for completing a task manually and
// with AI assistance. AIMinutes is nil when the task cannot benefit from AI.
// Values arrive rounded to 5-minute increments by the upstream service.
type TimeEstimate struct {
	ManualMinutes int  `json:"manual_minutes"`
	AIMinutes     *int `json:"ai_minutes"`
}

// PotentialAnalysis is the upstream judgment of a task's automation potential.
type PotentialAnalysis struct {
	Potential         models.AIPotential `json:"potential"`
	CoachingTips      string             `json:"coaching_tips"`
	MotivationalScore int                `json:"motivational_score"`
}

// Annotator is the capability interface for the external annotation service.
// Each call is a single best-effort round trip with its own timeout.
type Annotator interface {
	EstimateTime(ctx context.Context, description string) (TimeEstimate, error)
	AnalyzePotential(ctx context.Context, description string) (PotentialAnalysis, error)
	ExplainImplementation(ctx context.Context, description string) (string, error)
}

// AIService implements Annotator against the OpenAI chat completion API.
type AIService struct {
	client  *openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewAIService creates a new AIService
func NewAIService(apiKey string, timeout time.Duration, logger *zap.Logger) *AIService {
	return &AIService{
		client:  openai.NewClient(apiKey),
		timeout: timeout,
		logger:  logger,
	}
}

// EstimateTime asks the model how long a task takes manually and with AI help.
func (s *AIService) EstimateTime(ctx context.Context, description string) (TimeEstimate, error) {
	prompt := fmt.Sprintf(`You are a task time estimator. Estimate how long the following task takes.

Task:
%s

Respond with JSON only, no surrounding text:
{
  "manual_minutes": <estimated minutes to do the task by hand, rounded to the nearest 5>,
  "ai_minutes": <estimated minutes with AI assistance, rounded to the nearest 5, or null if AI cannot help>
}`, description)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return TimeEstimate{}, err
	}

	var parsed struct {
		ManualMinutes *int `json:"manual_minutes"`
		AIMinutes     *int `json:"ai_minutes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("unparseable time estimate response", zap.Error(err))
		return TimeEstimate{}, fmt.Errorf("%w: invalid time estimate response", ErrAnnotationUnavailable)
	}
	if parsed.ManualMinutes == nil || *parsed.ManualMinutes < 0 {
		return TimeEstimate{}, fmt.Errorf("%w: missing manual minutes", ErrAnnotationUnavailable)
	}
	if parsed.AIMinutes != nil && *parsed.AIMinutes < 0 {
		return TimeEstimate{}, fmt.Errorf("%w: negative AI minutes", ErrAnnotationUnavailable)
	}

	return TimeEstimate{
		ManualMinutes: *parsed.ManualMinutes,
		AIMinutes:     parsed.AIMinutes,
	}, nil
}

// AnalyzePotential asks the model to classify a task's automation potential
// and produce coaching text.
func (s *AIService) AnalyzePotential(ctx context.Context, description string) (PotentialAnalysis, error) {
	prompt := fmt.Sprintf(`You are an automation coach. Judge how automatable the following task is.

Task:
%s

Respond with JSON only, no surrounding text:
{
  "potential": "none" | "some" | "advanced",
  "coaching_tips": "<2-3 sentences of practical advice on automating or speeding up this task>",
  "motivational_score": <integer 1-100, how much automating this task is worth pursuing>
}`, description)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return PotentialAnalysis{}, err
	}

	var parsed PotentialAnalysis
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Warn("unparseable potential analysis response", zap.Error(err))
		return PotentialAnalysis{}, fmt.Errorf("%w: invalid analysis response", ErrAnnotationUnavailable)
	}
	if !parsed.Potential.Valid() {
		return PotentialAnalysis{}, fmt.Errorf("%w: invalid potential %q", ErrAnnotationUnavailable, parsed.Potential)
	}
	if parsed.MotivationalScore < 1 || parsed.MotivationalScore > 100 {
		return PotentialAnalysis{}, fmt.Errorf("%w: motivational score out of range", ErrAnnotationUnavailable)
	}

	return parsed, nil
}

// ExplainImplementation asks the model for free-text guidance on automating a task.
func (s *AIService) ExplainImplementation(ctx context.Context, description string) (string, error) {
	prompt := fmt.Sprintf(`You are an automation coach. Explain concretely how the following task could be automated or assisted with AI tooling. Keep it under 300 words.

Task:
%s`, description)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	details := strings.TrimSpace(content)
	if details == "" {
		return "", fmt.Errorf("%w: empty explanation", ErrAnnotationUnavailable)
	}

	return details, nil
}

// complete performs one chat completion round trip under the service timeout.
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		s.logger.Warn("annotation call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAnnotationUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrAnnotationUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}
