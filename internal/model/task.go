package model

// TaskType identifies the gamified task that produced a result
type TaskType string

const (
	TaskBalloon         TaskType = "balloon"
	TaskPattern         TaskType = "pattern"
	TaskAttention       TaskType = "attention"
	TaskWordAssociation TaskType = "wordAssociation"
)

// EventType is the kind of a recorded task event
type EventType string

const (
	EventPump         EventType = "pump"
	EventCollect      EventType = "collect"
	EventPop          EventType = "pop"
	EventPatternTrial EventType = "pattern-trial"
	EventClick        EventType = "click"
)

// TaskEvent is one entry of a task's event log. AtMS is relative to task start
// and monotonic. Only the fields relevant to Type are populated.
type TaskEvent struct {
	Type EventType `json:"type" bson:"type"`
	AtMS int64     `json:"atMs" bson:"atMs"`

	// pump / collect / pop
	Balloon int     `json:"balloon,omitempty" bson:"balloon,omitempty"`
	Color   string  `json:"color,omitempty" bson:"color,omitempty"`
	Amount  float64 `json:"amount,omitempty" bson:"amount,omitempty"`

	// pattern-trial
	PatternType    string `json:"patternType,omitempty" bson:"patternType,omitempty"`
	Difficulty     int    `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Correct        bool   `json:"correct,omitempty" bson:"correct,omitempty"`
	ResponseTimeMS int64  `json:"responseTimeMs,omitempty" bson:"responseTimeMs,omitempty"`

	// click
	X   float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y   float64 `json:"y,omitempty" bson:"y,omitempty"`
	Hit bool    `json:"hit,omitempty" bson:"hit,omitempty"`
}

// BalloonRecord summarizes one balloon of the risk task
type BalloonRecord struct {
	BalloonIndex int     `json:"balloonIndex" bson:"balloonIndex"`
	PumpCount    int     `json:"pumpCount" bson:"pumpCount"`
	Earned       float64 `json:"earnedAmount" bson:"earnedAmount"`
	Popped       bool    `json:"popped" bson:"popped"`
	Color        string  `json:"color,omitempty" bson:"color,omitempty"`
}

// PatternTrial is one trial of the pattern-recognition task
type PatternTrial struct {
	PatternType    string `json:"patternType" bson:"patternType"` // "sequence" or "matrix"
	Difficulty     int    `json:"difficultyLevel" bson:"difficultyLevel"`
	Correct        bool   `json:"correct" bson:"correct"`
	ResponseTimeMS int64  `json:"responseTimeMs" bson:"responseTimeMs"`
}

// Click is a raw click position on the attention task canvas
type Click struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// AttentionResult is the raw outcome of the visual-attention task
type AttentionResult struct {
	ReactionTimesMS []int64 `json:"reactionTimes" bson:"reactionTimes"`
	TargetsFound    int     `json:"targetsFound" bson:"targetsFound"`
	TargetsMissed   int     `json:"targetsMissed" bson:"targetsMissed"`
	FalsePositives  int     `json:"falsePositives" bson:"falsePositives"`
	Clicks          []Click `json:"clicks,omitempty" bson:"clicks,omitempty"`
	CanvasWidth     float64 `json:"canvasWidth" bson:"canvasWidth"`
	CanvasHeight    float64 `json:"canvasHeight" bson:"canvasHeight"`
}

// TaskResult is the final object a gamified task emits. The structured
// records are preferred; Events is the raw log they can be rebuilt from.
type TaskResult struct {
	Task       TaskType         `json:"task" bson:"task"`
	Events     []TaskEvent      `json:"events,omitempty" bson:"events,omitempty"`
	Balloons   []BalloonRecord  `json:"balloons,omitempty" bson:"balloons,omitempty"`
	Trials     []PatternTrial   `json:"trials,omitempty" bson:"trials,omitempty"`
	Attention  *AttentionResult `json:"attention,omitempty" bson:"attention,omitempty"`
	Words      []string         `json:"words,omitempty" bson:"words,omitempty"`
	DurationMS int64            `json:"durationMs,omitempty" bson:"durationMs,omitempty"`
}
