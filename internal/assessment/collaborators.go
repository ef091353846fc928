package assessment

import (
	"context"

	"neuroassess/internal/model"
)

// QuestionSource supplies the ordered question set for a new session
type QuestionSource interface {
	FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error)
}

// ResultSubmitter receives completed sessions. Failures never block completion.
type ResultSubmitter interface {
	Submit(ctx context.Context, sessionID string, responses []model.Response, report *model.Report) error
}

// BehavioralMetricsSource supplies interaction metrics at completion time.
// Returning nil is valid and selects pure-Likert scoring.
type BehavioralMetricsSource interface {
	BehavioralMetrics(ctx context.Context, sessionID string) (*model.BehavioralMetrics, error)
}

// StaticMetrics is a BehavioralMetricsSource returning fixed metrics
type StaticMetrics struct {
	Metrics *model.BehavioralMetrics
}

func (s StaticMetrics) BehavioralMetrics(ctx context.Context, sessionID string) (*model.BehavioralMetrics, error) {
	return s.Metrics, nil
}
