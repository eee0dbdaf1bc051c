// Package anthropic implements the word generator on top of the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
)

// Config holds generator settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// Generator produces vocabulary candidates for a learner via the LLM.
type Generator struct {
	client    sdk.Client
	model     string
	maxTokens int
}

// New creates a Generator from config.
func New(cfg Config) *Generator {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Generator{
		client:    sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

const maxExcludeSample = 200

// Generate asks the model for Count word pairs at the requested level.
// A response that cannot be parsed into the expected shape results in an
// error wrapping domain.ErrGenerationMalformed.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.WordPair, error) {
	prompt := buildPrompt(req)

	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate words (%s %s): %w", req.Language, req.Level, err)
	}

	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("generate words (%s %s): empty response: %w",
			req.Language, req.Level, domain.ErrGenerationMalformed)
	}

	pairs, err := parseResponse(msg.Content[0].Text)
	if err != nil {
		return nil, fmt.Errorf("generate words (%s %s): %w", req.Language, req.Level, err)
	}

	return pairs, nil
}

// levelHints describes each tier for the prompt.
var levelHints = map[domain.Level]string{
	domain.LevelA1: "absolute beginner: everyday objects, basic verbs, numbers, family",
	domain.LevelA2: "elementary: daily routines, shopping, travel basics, simple descriptions",
	domain.LevelB1: "intermediate: work, opinions, experiences, abstract everyday topics",
	domain.LevelB2: "upper intermediate: nuanced opinions, news topics, idiomatic usage",
	domain.LevelC1: "advanced: academic and professional registers, low-frequency vocabulary",
	domain.LevelC2: "mastery: rare, literary and highly idiomatic vocabulary",
}

// buildPrompt creates the generation prompt for one request.
func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a vocabulary curriculum designer for language learners.

Generate exactly %d %s vocabulary words at CEFR level %s (%s), translated into %s.

Output ONLY a valid JSON array matching this exact schema:
[
  {"original": "<word in %s>", "translation": "<translation in %s>"}
]

Rules:
- Every word must be appropriate for level %s, not easier and not harder
- No proper nouns, no multi-sentence phrases
- No two entries may share a dictionary root
- Output ONLY the JSON array, no markdown, no explanations`,
		req.Count, req.Language, req.Level, levelHints[req.Level], req.NativeLanguage,
		req.Language, req.NativeLanguage, req.Level)

	if len(req.Exclude) > 0 {
		sample := req.Exclude
		if len(sample) > maxExcludeSample {
			sample = sample[:maxExcludeSample]
		}
		fmt.Fprintf(&b, "\n\nDo NOT include any of these words the learner already has:\n%s",
			strings.Join(sample, ", "))
	}

	return b.String()
}

// parseResponse extracts and validates the JSON array from the model output.
func parseResponse(text string) ([]domain.WordPair, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrGenerationMalformed)
	}

	if !json.Valid([]byte(jsonStr)) {
		return nil, fmt.Errorf("response is not valid JSON: %w", domain.ErrGenerationMalformed)
	}

	var pairs []domain.WordPair
	if err := json.Unmarshal([]byte(jsonStr), &pairs); err != nil {
		return nil, fmt.Errorf("unmarshal response: %v: %w", err, domain.ErrGenerationMalformed)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("response contains no words: %w", domain.ErrGenerationMalformed)
	}
	for i, p := range pairs {
		if strings.TrimSpace(p.Original) == "" || strings.TrimSpace(p.Translation) == "" {
			return nil, fmt.Errorf("entry %d has an empty field: %w", i, domain.ErrGenerationMalformed)
		}
	}

	return pairs, nil
}

// extractJSON finds the first complete JSON array in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}
