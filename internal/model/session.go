package model

import "time"

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Tier selects question-set depth
type Tier string

const (
	TierFree          Tier = "free"
	TierCore          Tier = "core"
	TierComprehensive Tier = "comprehensive"
)

// Mode is a named assessment length preset
type Mode string

const (
	ModeQuick    Mode = "quick"
	ModeStandard Mode = "standard"
	ModeDeep     Mode = "deep"
)

// QuestionCount returns how many questions a mode requests from the bank
func (m Mode) QuestionCount() int {
	switch m {
	case ModeQuick:
		return 20
	case ModeDeep:
		return 120
	default:
		return 60
	}
}

// DeviceInfo is client metadata that survives a session reset
type DeviceInfo struct {
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	Platform  string `json:"platform,omitempty" bson:"platform,omitempty"`
	Language  string `json:"language,omitempty" bson:"language,omitempty"`
	Timezone  string `json:"timezone,omitempty" bson:"timezone,omitempty"`
}

// SessionSnapshot is the serialized form of an assessment session
type SessionSnapshot struct {
	SessionID      string        `json:"sessionId"`
	AssessmentType string        `json:"assessmentType"`
	Status         SessionStatus `json:"status"`
	Tier           Tier          `json:"tier"`
	Mode           Mode          `json:"mode"`
	Questions      []Question    `json:"questions"`
	CurrentIndex   int           `json:"currentQuestionIndex"`
	Responses      []Response    `json:"responses"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	QuestionEntry  time.Time     `json:"questionEntryTime"`
	Device         DeviceInfo    `json:"device"`
	Report         *Report       `json:"report,omitempty"`
	SavedAt        time.Time     `json:"savedAt"`
}

// Progress is a read-only view of where a session stands
type Progress struct {
	CurrentQuestion      int   `json:"currentQuestion"` // 1-based
	TotalQuestions       int   `json:"totalQuestions"`
	Answered             int   `json:"answered"`
	PercentComplete      int   `json:"percentComplete"`
	ElapsedMS            int64 `json:"elapsedMs"`
	EstimatedRemainingMS int64 `json:"estimatedRemainingMs"`
}
