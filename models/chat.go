package models

// NextQuestion is the client-facing view of a catalog entry.
type NextQuestion struct {
	ID           int      `json:"id"`
	Key          string   `json:"key"`
	Prompt       string   `json:"prompt"`
	QuickReplies []string `json:"quick_replies,omitempty"`
	ValueType    string   `json:"value_type"`
}

// ChatTurnResult is the outcome of one interview turn.
type ChatTurnResult struct {
	NextQuestion      *NextQuestion  `json:"next_question"`
	ExtractedCriteria map[string]any `json:"extracted_criteria"`
	AllCriteriaFilled bool           `json:"all_criteria_filled"`
	CriteriaFilled    int            `json:"criteria_filled"`
	Completeness      int            `json:"profile_completeness_score"`
	AssistantMessage  string         `json:"assistant_message"`
}
