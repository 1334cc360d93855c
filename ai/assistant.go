// Package ai defines the contracts for the LLM collaborators. The
// interview engine and the enrichment service only ever see these
// interfaces; the concrete Gemini implementation lives in ai/gemini.
package ai

import (
	"context"

	"github.com/Arthurlmr/weleev-sub000/models"
)

// Extraction is the structured result of one extraction call. Criteria
// maps catalog keys to values already normalized to the declared type
// of each key (ints for numbers, lowercase snake-case tokens for
// choices, string slices for multi-selects, bools for booleans).
type Extraction struct {
	Criteria map[string]any
	Reply    string
	Raw      string
}

// Extractor turns a free-text user message into normalized criteria
// values plus a conversational reply.
type Extractor interface {
	ExtractCriteria(ctx context.Context, message string, known map[string]any, nextQuestion string) (*Extraction, error)
}

// Commentary is the AI-generated listing commentary: condition
// assessment, financial simulation and market comparison.
type Commentary struct {
	Condition string
	Financial string
	Market    string
	Raw       string
}

// CommentaryProvider generates personalized commentary for a listing.
type CommentaryProvider interface {
	ListingCommentary(ctx context.Context, listing *models.Listing, profile *models.ConversationalProfile) (*Commentary, error)
}
