package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/Arthurlmr/weleev-sub000/ai"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed extract_prompt.md
var extractPromptTemplate string

const defaultMaxLogLength = 200

// Extractor implements ai.Extractor on top of a Gemini content
// generator.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, logger *zap.Logger) *Extractor {
	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

// ExtractCriteria sends the user message plus the already-known
// criteria to the model and parses the structured extraction out of
// its reply.
func (e *Extractor) ExtractCriteria(ctx context.Context, message string, known map[string]any, nextQuestion string) (*ai.Extraction, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	if known == nil {
		known = map[string]any{}
	}
	knownJSON, err := json.MarshalIndent(known, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal known criteria: %w", err)
	}

	prompt := buildExtractPrompt(string(knownJSON), nextQuestion, message)

	e.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("message_preview", truncateForLog(message, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, e.maxLogLen)),
	)

	extraction, err := parseExtraction(raw)
	if err != nil {
		return nil, err
	}

	extraction.Raw = raw
	return extraction, nil
}

func buildExtractPrompt(knownJSON, nextQuestion, message string) string {
	template := extractPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Known:\n{{KNOWN_JSON}}\n\nQuestion:\n{{NEXT_QUESTION}}\n\nMessage:\n{{USER_MESSAGE}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{KNOWN_JSON}}", knownJSON)
	prompt = strings.ReplaceAll(prompt, "{{NEXT_QUESTION}}", nextQuestion)
	prompt = strings.ReplaceAll(prompt, "{{USER_MESSAGE}}", message)
	return prompt
}

func parseExtraction(raw string) (*ai.Extraction, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Criteria map[string]any `json:"criteria"`
		Reply    string         `json:"reply"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if data.Criteria == nil {
		data.Criteria = map[string]any{}
	}

	return &ai.Extraction{
		Criteria: data.Criteria,
		Reply:    strings.TrimSpace(data.Reply),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func truncateForLog(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
