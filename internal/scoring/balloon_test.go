package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neuroassess/internal/model"
)

func balloons(pumps ...int) []model.BalloonRecord {
	out := make([]model.BalloonRecord, len(pumps))
	for i, p := range pumps {
		out[i] = model.BalloonRecord{BalloonIndex: i, PumpCount: p}
	}
	return out
}

func TestScoreBalloonsLearningCurve(t *testing.T) {
	m := ScoreBalloons(balloons(10, 20, 30, 40))

	assert.Equal(t, 4, m.Balloons)
	assert.InDelta(t, 20.0, m.LearningCurve, 1e-9)
	assert.InDelta(t, 25.0, m.AveragePumps, 1e-9)
	assert.InDelta(t, 25.0/64, m.RiskTolerance, 1e-9)
}

func TestScoreBalloonsSingleBalloonHasNoCurve(t *testing.T) {
	m := ScoreBalloons(balloons(30))
	assert.Zero(t, m.LearningCurve)
	assert.Equal(t, 1.0, m.Consistency)
}

func TestScoreBalloonsRiskToleranceCapped(t *testing.T) {
	m := ScoreBalloons(balloons(100, 120))
	assert.Equal(t, 1.0, m.RiskTolerance)
}

func TestScoreBalloonsZeroPumps(t *testing.T) {
	m := ScoreBalloons(balloons(0, 0, 0))
	assert.Zero(t, m.RiskTolerance)
	assert.Equal(t, 1.0, m.Consistency)
}

func TestScoreBalloonsPopRateAndEarnings(t *testing.T) {
	recs := []model.BalloonRecord{
		{PumpCount: 5, Earned: 0.25},
		{PumpCount: 12, Popped: true},
		{PumpCount: 8, Earned: 0.4},
		{PumpCount: 20, Popped: true},
	}
	m := ScoreBalloons(recs)
	assert.Equal(t, 0.5, m.PopRate)
	assert.InDelta(t, 0.65, m.TotalEarned, 1e-9)
	assert.True(t, m.Consistency >= 0 && m.Consistency <= 1)
}

func TestScoreBalloonsEmpty(t *testing.T) {
	assert.Equal(t, model.BalloonMetrics{}, ScoreBalloons(nil))
}

func TestBalloonRecordsFromEvents(t *testing.T) {
	events := []model.TaskEvent{
		{Type: model.EventPump, Balloon: 0, AtMS: 10},
		{Type: model.EventPump, Balloon: 0, AtMS: 20},
		{Type: model.EventCollect, Balloon: 0, AtMS: 30, Amount: 0.1, Color: "red"},
		{Type: model.EventPump, Balloon: 1, AtMS: 40},
		{Type: model.EventPop, Balloon: 1, AtMS: 50, Amount: 0.05},
		{Type: model.EventPump, Balloon: 2, AtMS: 60},
	}

	recs := BalloonRecordsFromEvents(events)

	assert.Equal(t, []model.BalloonRecord{
		{BalloonIndex: 0, PumpCount: 2, Earned: 0.1, Color: "red"},
		{BalloonIndex: 1, PumpCount: 1, Popped: true},
	}, recs)
}
