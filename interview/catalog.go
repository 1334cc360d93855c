package interview

import (
	"fmt"
	"math"
	"strings"

	"github.com/Arthurlmr/weleev-sub000/models"
)

type ValueType string

const (
	ValueText         ValueType = "text"
	ValueSingleChoice ValueType = "single_choice"
	ValueMultiChoice  ValueType = "multiple_choice"
	ValueNumber       ValueType = "number"
	ValueBoolean      ValueType = "boolean"
)

// Total is the number of interview criteria.
const Total = 19

// Condition gates a question behind a prerequisite answer. The
// question becomes eligible once the prerequisite field is filled and
// contains (set field) or equals (scalar field) RequiredValue.
type Condition struct {
	DependsOnKey  string
	RequiredValue string
}

// Question is one entry of the fixed interview catalog.
type Question struct {
	ID             int
	Key            string
	Prompt         string
	QuickReplies   []string
	EvasiveReplies []string
	Type           ValueType
	Condition      *Condition
}

// catalog is the fixed, ordered interview. Evasive replies are valid
// answers: the extractor normalizes them to an explicit
// "no preference" value (models.NoPreference, 0 or false) so the
// field still counts as filled.
var catalog = []Question{
	{
		ID: 1, Key: "search_type", Type: ValueSingleChoice,
		Prompt:       "Vous cherchez à acheter ou à louer ?",
		QuickReplies: []string{"Acheter", "Louer"},
	},
	{
		ID: 2, Key: "property_types", Type: ValueMultiChoice,
		Prompt:         "Quel type de bien recherchez-vous ?",
		QuickReplies:   []string{"Appartement", "Maison", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 3, Key: "city", Type: ValueText,
		Prompt: "Dans quelle ville cherchez-vous ?",
	},
	{
		ID: 4, Key: "neighborhoods", Type: ValueMultiChoice,
		Prompt:         "Avez-vous des quartiers en tête ?",
		QuickReplies:   []string{"Pas de préférence"},
		EvasiveReplies: []string{"Pas de préférence"},
	},
	{
		ID: 5, Key: "budget_max", Type: ValueNumber,
		Prompt: "Quel est votre budget maximum ?",
	},
	{
		ID: 6, Key: "surface_min", Type: ValueNumber,
		Prompt: "Quelle surface minimum souhaitez-vous (en m²) ?",
	},
	{
		ID: 7, Key: "bedrooms_min", Type: ValueNumber,
		Prompt: "Combien de chambres au minimum ?",
	},
	{
		ID: 8, Key: "floor_preference", Type: ValueSingleChoice,
		Prompt:         "Avez-vous une préférence d'étage ?",
		QuickReplies:   []string{"Rez-de-chaussée", "Étage élevé", "Dernier étage", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
		Condition:      &Condition{DependsOnKey: "property_types", RequiredValue: "appartement"},
	},
	{
		ID: 9, Key: "outdoor_space", Type: ValueSingleChoice,
		Prompt:         "Souhaitez-vous un espace extérieur ?",
		QuickReplies:   []string{"Balcon", "Terrasse", "Jardin", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 10, Key: "parking", Type: ValueSingleChoice,
		Prompt:         "Un parking est-il important pour vous ?",
		QuickReplies:   []string{"Indispensable", "Apprécié", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 11, Key: "property_states", Type: ValueMultiChoice,
		Prompt:         "Quel état de bien accepteriez-vous ?",
		QuickReplies:   []string{"Neuf", "Récent", "Ancien", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 12, Key: "detached_only", Type: ValueBoolean,
		Prompt:       "Uniquement des maisons individuelles ?",
		QuickReplies: []string{"Oui", "Non"},
		Condition:    &Condition{DependsOnKey: "property_types", RequiredValue: "maison"},
	},
	{
		ID: 13, Key: "vis_a_vis", Type: ValueSingleChoice,
		Prompt:         "L'absence de vis-à-vis est-elle importante ?",
		QuickReplies:   []string{"Sans vis-à-vis", "Peu important", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 14, Key: "orientation", Type: ValueSingleChoice,
		Prompt:         "Avez-vous une orientation préférée ?",
		QuickReplies:   []string{"Sud", "Est", "Ouest", "Nord", "Peu importe"},
		EvasiveReplies: []string{"Peu importe"},
	},
	{
		ID: 15, Key: "proximity_priorities", Type: ValueMultiChoice,
		Prompt: "Qu'est-ce qui compte le plus autour de chez vous ?",
		QuickReplies: []string{
			"Proche transports", "Proche commerces", "Quartier calme",
			"Quartier animé", "Jardin / espaces verts", "Proche écoles",
		},
	},
	{
		ID: 16, Key: "renovation_acceptance", Type: ValueSingleChoice,
		Prompt:       "Accepteriez-vous des travaux ?",
		QuickReplies: []string{"Aucun travaux", "Rafraîchissement", "Gros travaux"},
	},
	{
		ID: 17, Key: "charges_max", Type: ValueNumber,
		Prompt:    "Quel montant maximum de charges de copropriété ?",
		Condition: &Condition{DependsOnKey: "property_types", RequiredValue: "appartement"},
	},
	{
		ID: 18, Key: "current_owner", Type: ValueBoolean,
		Prompt:       "Êtes-vous actuellement propriétaire ?",
		QuickReplies: []string{"Oui", "Non"},
	},
	{
		ID: 19, Key: "property_usage", Type: ValueSingleChoice,
		Prompt:       "Quel usage pour ce bien ?",
		QuickReplies: []string{"Résidence principale", "Résidence secondaire", "Investissement"},
	},
}

// Catalog returns the fixed interview, in order.
func Catalog() []Question {
	return catalog
}

// QuestionByKey looks up a catalog entry.
func QuestionByKey(key string) (*Question, bool) {
	for i := range catalog {
		if catalog[i].Key == key {
			return &catalog[i], true
		}
	}
	return nil, false
}

// FieldValue returns the stored value for a catalog key and whether it
// satisfies the is-filled predicate: non-empty slice, non-blank
// string, any number, any boolean.
func FieldValue(p *models.ConversationalProfile, key string) (any, bool) {
	switch key {
	case "search_type":
		return strVal(p.SearchType)
	case "property_types":
		return sliceVal(p.PropertyTypes)
	case "city":
		return strVal(p.City)
	case "neighborhoods":
		return sliceVal(p.Neighborhoods)
	case "budget_max":
		return intVal(p.BudgetMax)
	case "surface_min":
		return intVal(p.SurfaceMin)
	case "bedrooms_min":
		return intVal(p.BedroomsMin)
	case "floor_preference":
		return strVal(p.FloorPreference)
	case "outdoor_space":
		return strVal(p.OutdoorSpace)
	case "parking":
		return strVal(p.Parking)
	case "property_states":
		return sliceVal(p.PropertyStates)
	case "detached_only":
		return boolVal(p.DetachedOnly)
	case "vis_a_vis":
		return strVal(p.VisAVis)
	case "orientation":
		return strVal(p.Orientation)
	case "proximity_priorities":
		return sliceVal(p.ProximityPriorities)
	case "renovation_acceptance":
		return strVal(p.RenovationAcceptance)
	case "charges_max":
		return intVal(p.ChargesMax)
	case "current_owner":
		return boolVal(p.CurrentOwner)
	case "property_usage":
		return strVal(p.PropertyUsage)
	}
	return nil, false
}

// IsFilled reports whether the question's field holds a value.
func IsFilled(p *models.ConversationalProfile, key string) bool {
	_, ok := FieldValue(p, key)
	return ok
}

// CountFilled returns how many of the 19 catalog fields are filled.
func CountFilled(p *models.ConversationalProfile) int {
	n := 0
	for i := range catalog {
		if IsFilled(p, catalog[i].Key) {
			n++
		}
	}
	return n
}

// Completeness converts a filled count into the 0-100 percentage.
func Completeness(filled int) int {
	return int(math.Round(float64(filled) / float64(Total) * 100))
}

// Recompute refreshes the derived counters on the profile.
func Recompute(p *models.ConversationalProfile) {
	p.CriteriaFilled = CountFilled(p)
	p.Completeness = Completeness(p.CriteriaFilled)
}

// NextQuestion returns the first unanswered question whose condition
// is currently satisfied, or nil when the interview is complete.
func NextQuestion(p *models.ConversationalProfile) *Question {
	for i := range catalog {
		q := &catalog[i]
		if IsFilled(p, q.Key) {
			continue
		}
		if q.Condition != nil && !conditionMet(p, q.Condition) {
			continue
		}
		return q
	}
	return nil
}

// KnownValues returns the filled key→value pairs, the shape the
// extraction collaborator receives as prior context.
func KnownValues(p *models.ConversationalProfile) map[string]any {
	known := make(map[string]any)
	for i := range catalog {
		if v, ok := FieldValue(p, catalog[i].Key); ok {
			known[catalog[i].Key] = v
		}
	}
	return known
}

// Apply writes one normalized value into the profile, coercing the
// generic JSON decoding into the declared type for the key. Unknown
// keys and type mismatches are errors; the caller decides whether to
// reject the whole merge.
func Apply(p *models.ConversationalProfile, key string, v any) error {
	q, ok := QuestionByKey(key)
	if !ok {
		return fmt.Errorf("unknown criteria key %q", key)
	}

	switch q.Type {
	case ValueText:
		s, err := asText(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		setString(p, key, s)
	case ValueSingleChoice:
		s, err := asToken(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		setString(p, key, s)
	case ValueMultiChoice:
		tokens, err := asTokens(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		setSlice(p, key, tokens)
	case ValueNumber:
		n, err := asInt(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		setInt(p, key, n)
	case ValueBoolean:
		b, err := asBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		setBool(p, key, b)
	}
	return nil
}

func conditionMet(p *models.ConversationalProfile, c *Condition) bool {
	v, ok := FieldValue(p, c.DependsOnKey)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case []string:
		for _, t := range val {
			if t == c.RequiredValue {
				return true
			}
		}
		return false
	case string:
		return val == c.RequiredValue
	case int:
		return fmt.Sprintf("%d", val) == c.RequiredValue
	case bool:
		return fmt.Sprintf("%t", val) == c.RequiredValue
	}
	return false
}

// ---- field plumbing ----

func strVal(s *string) (any, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, false
	}
	return *s, true
}

func sliceVal(ss []string) (any, bool) {
	if len(ss) == 0 {
		return nil, false
	}
	return ss, true
}

func intVal(i *int) (any, bool) {
	if i == nil {
		return nil, false
	}
	return *i, true
}

func boolVal(b *bool) (any, bool) {
	if b == nil {
		return nil, false
	}
	return *b, true
}

func setString(p *models.ConversationalProfile, key, v string) {
	switch key {
	case "search_type":
		p.SearchType = &v
	case "city":
		p.City = &v
	case "floor_preference":
		p.FloorPreference = &v
	case "outdoor_space":
		p.OutdoorSpace = &v
	case "parking":
		p.Parking = &v
	case "vis_a_vis":
		p.VisAVis = &v
	case "orientation":
		p.Orientation = &v
	case "renovation_acceptance":
		p.RenovationAcceptance = &v
	case "property_usage":
		p.PropertyUsage = &v
	}
}

func setSlice(p *models.ConversationalProfile, key string, v []string) {
	switch key {
	case "property_types":
		p.PropertyTypes = v
	case "neighborhoods":
		p.Neighborhoods = v
	case "property_states":
		p.PropertyStates = v
	case "proximity_priorities":
		p.ProximityPriorities = v
	}
}

func setInt(p *models.ConversationalProfile, key string, v int) {
	switch key {
	case "budget_max":
		p.BudgetMax = &v
	case "surface_min":
		p.SurfaceMin = &v
	case "bedrooms_min":
		p.BedroomsMin = &v
	case "charges_max":
		p.ChargesMax = &v
	}
}

func setBool(p *models.ConversationalProfile, key string, v bool) {
	switch key {
	case "detached_only":
		p.DetachedOnly = &v
	case "current_owner":
		p.CurrentOwner = &v
	}
}

// ---- value coercion (normalized JSON decodings) ----

func asText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected text, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("blank text value")
	}
	return s, nil
}

func asToken(v any) (string, error) {
	s, err := asText(v)
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return s, nil
}

func asTokens(v any) ([]string, error) {
	var raw []any
	switch val := v.(type) {
	case []string:
		for _, s := range val {
			raw = append(raw, s)
		}
	case []any:
		raw = val
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}

	tokens := make([]string, 0, len(raw))
	for _, item := range raw {
		t, err := asToken(item)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty list value")
	}
	return tokens, nil
}

func asInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(math.Round(val)), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
	return b, nil
}
