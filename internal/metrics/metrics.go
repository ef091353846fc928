// Package metrics exposes Prometheus instruments for assessment sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts started sessions by tier and mode
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_sessions_started_total",
		Help: "Assessment sessions started by tier and mode",
	}, []string{"tier", "mode"})

	// SessionsResumed counts resume attempts by outcome
	SessionsResumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_sessions_resumed_total",
		Help: "Session resume attempts by result",
	}, []string{"result"})

	// SessionsCompleted counts completed sessions by archetype
	SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_sessions_completed_total",
		Help: "Completed assessment sessions by archetype",
	}, []string{"archetype"})

	// CompletionWarnings counts low-completion warnings returned to callers
	CompletionWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_completion_warnings_total",
		Help: "Completion requests deferred by a low-completion warning",
	})

	// Responses counts recorded responses by question type and outcome
	Responses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_responses_total",
		Help: "Responses by question type and result",
	}, []string{"type", "result"})

	// ResponseTime tracks time spent per answered question
	ResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assessment_response_time_seconds",
		Help:    "Time from question entry to answer",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
	}, []string{"type"})

	// LiveSessions is the number of sessions held in memory
	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assessment_live_sessions",
		Help: "Sessions currently held in memory",
	})

	// SubmitFailures counts result submissions that failed
	SubmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_submit_failures_total",
		Help: "Result submissions that failed",
	})
)
