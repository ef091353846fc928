package assessment

import (
	"errors"
	"fmt"

	"neuroassess/internal/model"
)

var (
	// ErrInvalidState is matched by every *InvalidStateError
	ErrInvalidState = errors.New("operation not allowed in current session state")
	// ErrStaleSnapshot marks a snapshot older than the restore window
	ErrStaleSnapshot = errors.New("session snapshot is stale")
	// ErrIndexOutOfRange is returned by GoTo for indexes outside the question list
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrNoQuestions is returned when the question source yields an empty set
	ErrNoQuestions = errors.New("question source returned no questions")
	// ErrCorruptSnapshot marks a started snapshot that carries no questions
	ErrCorruptSnapshot = errors.New("session snapshot has no questions")
	// ErrSessionNotFound is returned when no live or stored session has the id
	ErrSessionNotFound = errors.New("session not found")
)

// InvalidStateError reports an operation invoked in a state that forbids it
type InvalidStateError struct {
	Op     string
	Status model.SessionStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: not allowed while session is %s", e.Op, e.Status)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ValidationError reports a candidate answer that fails its question's constraints
type ValidationError struct {
	QuestionID string
	Type       model.QuestionType
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response for question %s (type %s)", e.QuestionID, e.Type)
}

// LowCompletionWarning is returned by Complete when too few questions were
// answered. It is a signal, not an error: the caller may force completion.
type LowCompletionWarning struct {
	Answered  int     `json:"answered"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
	Threshold float64 `json:"threshold"`
}

func (w LowCompletionWarning) String() string {
	return fmt.Sprintf("only %d of %d questions answered (%.0f%% < %.0f%%)",
		w.Answered, w.Total, w.Ratio*100, w.Threshold*100)
}
