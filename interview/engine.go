// Package interview implements the conversational profile interview:
// a fixed catalog of 19 criteria questions and the engine that walks a
// user through them, delegating criteria extraction to an AI
// collaborator.
package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/ai"
	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
	"github.com/Arthurlmr/weleev-sub000/storage"
)

type Engine struct {
	store     storage.Store
	extractor ai.Extractor
	logger    *zap.Logger
}

func NewEngine(store storage.Store, extractor ai.Extractor, logger *zap.Logger) *Engine {
	return &Engine{store: store, extractor: extractor, logger: logger}
}

// AdvanceConversation processes one user message: it extracts criteria
// values from the message, merges them into the stored profile
// (all-or-nothing) and returns the next unanswered question.
//
// A message that yields no usable criteria still advances the turn:
// the profile is left untouched and the same question comes back with
// a steering reply. Once all 19 criteria are filled the engine keeps
// accepting messages so the user can revise earlier answers.
func (e *Engine) AdvanceConversation(ctx context.Context, userID uuid.UUID, message string) (*models.ChatTurnResult, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", apperr.ErrValidation)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperr.ErrValidation)
	}

	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		profile = models.NewConversationalProfile(userID)
	}

	current := NextQuestion(profile)
	currentPrompt := ""
	if current != nil {
		currentPrompt = current.Prompt
	}

	extraction, err := e.extractor.ExtractCriteria(ctx, message, KnownValues(profile), currentPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: extract criteria: %v", apperr.ErrUpstream, err)
	}

	applied, err := e.merge(profile, extraction.Criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	if applied > 0 {
		Recompute(profile)
		profile.UpdatedAt = time.Now().UTC()
		if err := e.store.UpsertProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
	}

	next := NextQuestion(profile)

	result := &models.ChatTurnResult{
		ExtractedCriteria: extraction.Criteria,
		AllCriteriaFilled: CountFilled(profile) == Total,
		CriteriaFilled:    CountFilled(profile),
		Completeness:      Completeness(CountFilled(profile)),
		AssistantMessage:  extraction.Reply,
	}
	if next != nil {
		result.NextQuestion = &models.NextQuestion{
			ID:           next.ID,
			Key:          next.Key,
			Prompt:       next.Prompt,
			QuickReplies: next.QuickReplies,
			ValueType:    string(next.Type),
		}
		if result.AssistantMessage == "" {
			result.AssistantMessage = next.Prompt
		}
	}

	e.logger.Info("conversation turn",
		zap.String("user_id", userID.String()),
		zap.Int("criteria_applied", applied),
		zap.Int("criteria_filled", result.CriteriaFilled),
		zap.Int("completeness", result.Completeness),
	)

	return result, nil
}

// merge applies extracted values onto the profile all-or-nothing: the
// batch is first validated against a scratch copy and only assigned
// back when every value coerces cleanly. A batch with a malformed
// value is rejected whole, leaving the profile untouched.
//
// Apply always replaces pointer and slice fields wholesale, so a
// shallow copy is a safe scratch area.
func (e *Engine) merge(profile *models.ConversationalProfile, criteria map[string]any) (int, error) {
	if len(criteria) == 0 {
		return 0, nil
	}

	scratch := *profile
	applied := 0
	for key, value := range criteria {
		if value == nil {
			continue
		}
		if err := Apply(&scratch, key, value); err != nil {
			e.logger.Warn("rejected extracted criteria batch",
				zap.String("user_id", profile.UserID.String()),
				zap.String("key", key),
				zap.Error(err),
			)
			return 0, fmt.Errorf("malformed extraction: %v", err)
		}
		applied++
	}
	if applied > 0 {
		*profile = scratch
	}
	return applied, nil
}
