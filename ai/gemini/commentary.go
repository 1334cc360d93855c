package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/Arthurlmr/weleev-sub000/ai"
	"github.com/Arthurlmr/weleev-sub000/models"
	"go.uber.org/zap"
)

//go:embed commentary_prompt.md
var commentaryPromptTemplate string

// CommentaryProvider implements ai.CommentaryProvider on top of a
// Gemini content generator.
type CommentaryProvider struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewCommentaryProvider(generator contentGenerator, logger *zap.Logger) *CommentaryProvider {
	return &CommentaryProvider{
		generator: generator,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

// ListingCommentary asks the model for a three-part commentary on the
// listing, personalized to the user's profile.
func (c *CommentaryProvider) ListingCommentary(ctx context.Context, listing *models.Listing, profile *models.ConversationalProfile) (*ai.Commentary, error) {
	if listing == nil {
		return nil, fmt.Errorf("listing is required")
	}

	listingJSON, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal listing payload: %w", err)
	}

	profileJSON := []byte("{}")
	if profile != nil {
		profileJSON, err = json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal profile payload: %w", err)
		}
	}

	prompt := buildCommentaryPrompt(string(listingJSON), string(profileJSON))

	c.logger.Debug("gemini commentary request",
		zap.String("listing_id", listing.ID.String()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini commentary response",
		zap.String("listing_id", listing.ID.String()),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, c.maxLogLen)),
	)

	commentary, err := parseCommentary(raw)
	if err != nil {
		return nil, err
	}

	commentary.Raw = raw
	return commentary, nil
}

func buildCommentaryPrompt(listingJSON, profileJSON string) string {
	template := commentaryPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Listing:\n{{LISTING_JSON}}\n\nProfile:\n{{PROFILE_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{LISTING_JSON}}", listingJSON)
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", profileJSON)
	return prompt
}

func parseCommentary(raw string) (*ai.Commentary, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Condition string `json:"condition"`
		Financial string `json:"financial"`
		Market    string `json:"market"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return &ai.Commentary{
		Condition: strings.TrimSpace(data.Condition),
		Financial: strings.TrimSpace(data.Financial),
		Market:    strings.TrimSpace(data.Market),
	}, nil
}
