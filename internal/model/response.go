package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the shape of an answer value
type ValueKind string

const (
	ValueNone   ValueKind = ""       // null / absent
	ValueNumber ValueKind = "number" // likert, spectrum, numeric option
	ValueText   ValueKind = "text"   // option value, free text
	ValueList   ValueKind = "list"   // wordChoice, rankOrder
	ValueTask   ValueKind = "task"   // gamified task result
)

// Value is the answer given to a question. Exactly one payload field is set,
// selected by Kind.
type Value struct {
	Kind   ValueKind   `json:"kind" bson:"kind"`
	Number float64     `json:"number,omitempty" bson:"number,omitempty"`
	Text   string      `json:"text,omitempty" bson:"text,omitempty"`
	List   []string    `json:"list" bson:"list"` // kept when empty: [] is a valid answer
	Task   *TaskResult `json:"task,omitempty" bson:"task,omitempty"`
}

// NumberValue builds a numeric value
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// TextValue builds a string value
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// ListValue builds an ordered list value
func ListValue(items ...string) Value {
	return Value{Kind: ValueList, List: append([]string{}, items...)}
}

// TaskValue builds a task-result value
func TaskValue(r *TaskResult) Value {
	return Value{Kind: ValueTask, Task: r}
}

// IsNull reports whether the value carries nothing at all
func (v Value) IsNull() bool {
	switch v.Kind {
	case ValueNone:
		return true
	case ValueList:
		return v.List == nil
	case ValueTask:
		return v.Task == nil
	}
	return false
}

// Float returns the numeric reading of the value. Text values are parsed.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String renders scalar values the way option values are declared
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	case ValueList:
		return strings.Join(v.List, ",")
	case ValueTask:
		if v.Task != nil {
			return string(v.Task.Task)
		}
	}
	return ""
}

// ParseRawValue decodes an untyped JSON answer (number, string, array or
// object) into a tagged Value. Objects are decoded as task results.
func ParseRawValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Value{}, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return TextValue(s), nil
	case '[':
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return Value{}, fmt.Errorf("list answers must contain strings: %w", err)
		}
		if items == nil {
			items = []string{}
		}
		return Value{Kind: ValueList, List: items}, nil
	case '{':
		var task TaskResult
		if err := json.Unmarshal(raw, &task); err != nil {
			return Value{}, err
		}
		return TaskValue(&task), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return TextValue(strconv.FormatBool(b)), nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return Value{}, err
	}
	return NumberValue(n), nil
}

// Response is one answered (or explicitly skipped) question
type Response struct {
	QuestionID     string       `json:"questionId" bson:"questionId"`
	QuestionIndex  int          `json:"questionIndex" bson:"questionIndex"`
	QuestionType   QuestionType `json:"questionType" bson:"questionType"`
	Value          Value        `json:"value" bson:"value"`
	ResponseTimeMS int64        `json:"responseTimeMs" bson:"responseTimeMs"`
	Timestamp      time.Time    `json:"timestamp" bson:"timestamp"`
	Category       string       `json:"category" bson:"category"`
	Facet          string       `json:"facet,omitempty" bson:"facet,omitempty"`
	Instrument     string       `json:"instrument,omitempty" bson:"instrument,omitempty"`
	ReverseScored  bool         `json:"reverseScored,omitempty" bson:"reverseScored,omitempty"`
	Skipped        bool         `json:"skipped,omitempty" bson:"skipped,omitempty"`
	TimedOut       bool         `json:"timedOut,omitempty" bson:"timedOut,omitempty"`
}

// IsAnswered reports whether the response carries an actual answer
func (r *Response) IsAnswered() bool {
	return !r.Skipped
}
