package model

import "time"

// Trait is one of the five scored personality traits
type Trait string

const (
	TraitExtraversion       Trait = "Extraversion"
	TraitConscientiousness  Trait = "Conscientiousness"
	TraitAgreeableness      Trait = "Agreeableness"
	TraitOpenness           Trait = "Openness"
	TraitEmotionalStability Trait = "EmotionalStability"
)

// Traits lists the scored traits in report order
var Traits = []Trait{
	TraitExtraversion,
	TraitConscientiousness,
	TraitAgreeableness,
	TraitOpenness,
	TraitEmotionalStability,
}

// Level is the coarse bucket a trait falls into
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// TraitScore is the final score for one trait
type TraitScore struct {
	Score      int     `json:"score" bson:"score"`           // 0-100
	Raw        float64 `json:"raw" bson:"raw"`               // 1-5 mean
	Percentile int     `json:"percentile" bson:"percentile"` // linear re-expression of Raw
	Samples    int     `json:"samples" bson:"samples"`       // Likert items behind Raw
	Blended    bool    `json:"blended,omitempty" bson:"blended,omitempty"`
}

// TraitScoreSet maps trait to score
type TraitScoreSet map[Trait]TraitScore

// BehavioralMetrics are optional interaction signals, each 0-1
type BehavioralMetrics struct {
	EngagementScore float64 `json:"engagementScore" bson:"engagementScore"`
	PrecisionScore  float64 `json:"precisionScore" bson:"precisionScore"`
	AnxietyScore    float64 `json:"anxietyScore" bson:"anxietyScore"`
	DurationMS      int64   `json:"durationMs,omitempty" bson:"durationMs,omitempty"`
}

// ReliabilityTier signals statistical confidence in a report
type ReliabilityTier string

const (
	ReliabilityBasic     ReliabilityTier = "Basic"
	ReliabilityModerate  ReliabilityTier = "Moderate"
	ReliabilityGood      ReliabilityTier = "Good"
	ReliabilityExcellent ReliabilityTier = "Excellent"
)

// ReportMetadata describes the session a report was built from
type ReportMetadata struct {
	SessionID     string          `json:"sessionId" bson:"sessionId"`
	GeneratedAt   time.Time       `json:"generatedAt" bson:"generatedAt"`
	DurationMS    int64           `json:"durationMs" bson:"durationMs"`
	QuestionCount int             `json:"questionCount" bson:"questionCount"`
	AnsweredCount int             `json:"answeredCount" bson:"answeredCount"`
	Reliability   ReliabilityTier `json:"reliability" bson:"reliability"`
	Confidence    float64         `json:"confidence" bson:"confidence"`
	Tier          Tier            `json:"tier" bson:"tier"`
	Mode          Mode            `json:"mode" bson:"mode"`
}

// TraitInsight is the descriptive text for one trait at its level
type TraitInsight struct {
	Trait       Trait    `json:"trait" bson:"trait"`
	Level       Level    `json:"level" bson:"level"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Strengths   []string `json:"strengths" bson:"strengths"`
	GrowthAreas []string `json:"growthAreas" bson:"growthAreas"`
	Careers     []string `json:"careers" bson:"careers"`
}

// ArchetypeMatch is the winning archetype for a profile
type ArchetypeMatch struct {
	Name         string   `json:"name" bson:"name"`
	Description  string   `json:"description" bson:"description"`
	MatchedCount int      `json:"matchedCount" bson:"matchedCount"`
	MatchScore   int      `json:"matchScore" bson:"matchScore"` // 0-100
	Requirements []string `json:"requirements" bson:"requirements"`
}

// TaskSummary carries the gamified-task metrics a report was built with
type TaskSummary struct {
	Balloon   *BalloonMetrics   `json:"balloon,omitempty" bson:"balloon,omitempty"`
	Pattern   *PatternMetrics   `json:"pattern,omitempty" bson:"pattern,omitempty"`
	Attention *AttentionMetrics `json:"attention,omitempty" bson:"attention,omitempty"`
}

// Report is the immutable outcome of a completed assessment
type Report struct {
	Metadata        ReportMetadata     `json:"metadata" bson:"metadata"`
	Traits          TraitScoreSet      `json:"traits" bson:"traits"`
	Summary         string             `json:"summary" bson:"summary"`
	Archetype       ArchetypeMatch     `json:"archetype" bson:"archetype"`
	Rarity          float64            `json:"rarity" bson:"rarity"` // percent of people sharing the profile shape
	Insights        []TraitInsight     `json:"insights" bson:"insights"`
	Strengths       []string           `json:"strengths" bson:"strengths"`
	GrowthAreas     []string           `json:"growthAreas" bson:"growthAreas"`
	Recommendations []string           `json:"recommendations" bson:"recommendations"`
	Tasks           TaskSummary        `json:"tasks" bson:"tasks"`
	Behavioral      *BehavioralMetrics `json:"behavioral,omitempty" bson:"behavioral,omitempty"`
}

// BalloonMetrics are the risk-task scores
type BalloonMetrics struct {
	Balloons      int     `json:"balloons" bson:"balloons"`
	AveragePumps  float64 `json:"averagePumps" bson:"averagePumps"`
	RiskTolerance float64 `json:"riskTolerance" bson:"riskTolerance"` // 0-1
	LearningCurve float64 `json:"learningCurve" bson:"learningCurve"` // pumps, second half minus first half
	Consistency   float64 `json:"consistency" bson:"consistency"`     // 0-1
	PopRate       float64 `json:"popRate" bson:"popRate"`             // 0-1
	TotalEarned   float64 `json:"totalEarned" bson:"totalEarned"`
}

// PatternMetrics are the pattern-recognition task scores
type PatternMetrics struct {
	Trials             int     `json:"trials" bson:"trials"`
	Accuracy           float64 `json:"accuracy" bson:"accuracy"`
	DetailFocus        int     `json:"detailFocus" bson:"detailFocus"`
	HolisticProcessing int     `json:"holisticProcessing" bson:"holisticProcessing"`
	LearningCurve      float64 `json:"learningCurve" bson:"learningCurve"`
	FinalDifficulty    int     `json:"finalDifficulty" bson:"finalDifficulty"`
	AvgResponseTimeMS  float64 `json:"avgResponseTimeMs" bson:"avgResponseTimeMs"`
}

// AttentionMetrics are the visual-attention task scores
type AttentionMetrics struct {
	Accuracy          float64 `json:"accuracy" bson:"accuracy"`
	TotalScore        int     `json:"totalScore" bson:"totalScore"`
	AvgReactionTimeMS float64 `json:"avgReactionTimeMs" bson:"avgReactionTimeMs"`
	Quadrants         [4]int  `json:"quadrants" bson:"quadrants"` // TL, TR, BL, BR
	Dispersion        float64 `json:"dispersion" bson:"dispersion"`
}
