package model

// QuestionType defines how a question is answered and validated
type QuestionType string

const (
	QuestionTypeLikert         QuestionType = "likert"         // 1-5 agreement scale
	QuestionTypeScenario       QuestionType = "scenario"       // Pick one declared option
	QuestionTypeWouldYouRather QuestionType = "wouldYouRather" // Pick one of two options
	QuestionTypeSpectrum       QuestionType = "spectrum"       // Slider, 0-100
	QuestionTypeRanking        QuestionType = "ranking"
	QuestionTypeWordChoice     QuestionType = "wordChoice" // Pick up to MaxSelections words
	QuestionTypeRankOrder      QuestionType = "rankOrder"  // Permutation of Items
	QuestionTypeLateral        QuestionType = "lateral"    // Free text, lateral thinking prompt

	// Gamified task subtypes. The answer is a TaskResult.
	QuestionTypeBalloonTask     QuestionType = "balloonTask"
	QuestionTypePatternTask     QuestionType = "patternTask"
	QuestionTypeAttentionTask   QuestionType = "attentionTask"
	QuestionTypeWordAssociation QuestionType = "wordAssociation"
)

// IsTask reports whether the question is a gamified task
func (t QuestionType) IsTask() bool {
	switch t {
	case QuestionTypeBalloonTask, QuestionTypePatternTask, QuestionTypeAttentionTask, QuestionTypeWordAssociation:
		return true
	}
	return false
}

// Option is a label/value pair offered by choice questions
type Option struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// Question is an immutable question descriptor served by the question bank
type Question struct {
	ID             string       `json:"id" bson:"_id"`
	AssessmentType string       `json:"assessmentType" bson:"assessmentType"` // e.g. "personality"
	Tiers          []string     `json:"tiers,omitempty" bson:"tiers,omitempty"`
	Order          int          `json:"order" bson:"order"`
	Type           QuestionType `json:"type" bson:"type"`
	Text           string       `json:"text" bson:"text"`
	Category       string       `json:"category" bson:"category"` // Trait name
	Facet          string       `json:"facet,omitempty" bson:"facet,omitempty"`
	Instrument     string       `json:"instrument,omitempty" bson:"instrument,omitempty"` // e.g. "BFI-2"
	Options        []Option     `json:"options,omitempty" bson:"options,omitempty"`
	Items          []string     `json:"items,omitempty" bson:"items,omitempty"` // rankOrder only
	MaxSelections  int          `json:"maxSelections,omitempty" bson:"maxSelections,omitempty"`
	ReverseScored  bool         `json:"reverseScored,omitempty" bson:"reverseScored,omitempty"`
	TimeLimitMS    int          `json:"timeLimitMs,omitempty" bson:"timeLimitMs,omitempty"`
}

// HasTimeLimit reports whether the question carries a countdown
func (q *Question) HasTimeLimit() bool {
	return q.TimeLimitMS > 0
}
