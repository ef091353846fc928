package assessment

import (
	"time"

	"neuroassess/internal/model"
)

// NotificationKind is the closed set of session notifications
type NotificationKind string

const (
	ResponseRecorded NotificationKind = "response_recorded"
	QuestionChanged  NotificationKind = "question_changed"
	SessionCompleted NotificationKind = "session_completed"
)

// Notification is emitted synchronously after a state change
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	SessionID     string           `json:"sessionId"`
	QuestionIndex int              `json:"questionIndex"`
	QuestionID    string           `json:"questionId,omitempty"`
	Response      *model.Response  `json:"response,omitempty"`
	Progress      *model.Progress  `json:"progress,omitempty"`
	Report        *model.Report    `json:"report,omitempty"`
	At            time.Time        `json:"at"`
}

// Observer receives session notifications
type Observer interface {
	Notify(n Notification)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(n Notification)

func (f ObserverFunc) Notify(n Notification) { f(n) }
