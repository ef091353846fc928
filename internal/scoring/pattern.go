package scoring

import "neuroassess/internal/model"

const (
	MinDifficulty = 1
	MaxDifficulty = 3

	difficultyWindow  = 3
	raiseAccuracy     = 0.8
	raiseMaxAvgTimeMS = 5000
	lowerAccuracy     = 0.4
	lowerMinAvgTimeMS = 15000
	patternSequence   = "sequence"
	patternMatrix     = "matrix"
	minTrialsForCurve = 4
)

// DifficultyController adapts pattern difficulty from the trailing trials
type DifficultyController struct {
	level  int
	trials []model.PatternTrial
}

// NewDifficultyController starts at the given level, clamped to [1, 3]
func NewDifficultyController(start int) *DifficultyController {
	return &DifficultyController{level: clampLevel(start)}
}

// Level is the difficulty for the next trial
func (c *DifficultyController) Level() int {
	return c.level
}

// Record appends a finished trial and returns the adjusted difficulty.
// Only the last three trials are considered; fewer than three leave the
// level unchanged.
func (c *DifficultyController) Record(t model.PatternTrial) int {
	c.trials = append(c.trials, t)
	if len(c.trials) < difficultyWindow {
		return c.level
	}
	window := c.trials[len(c.trials)-difficultyWindow:]

	correct := 0
	var totalMS int64
	for _, w := range window {
		if w.Correct {
			correct++
		}
		totalMS += w.ResponseTimeMS
	}
	accuracy := float64(correct) / float64(len(window))
	avgMS := float64(totalMS) / float64(len(window))

	switch {
	case accuracy > raiseAccuracy && avgMS < raiseMaxAvgTimeMS:
		c.level = clampLevel(c.level + 1)
	case accuracy < lowerAccuracy || avgMS > lowerMinAvgTimeMS:
		c.level = clampLevel(c.level - 1)
	}
	return c.level
}

func clampLevel(l int) int {
	if l < MinDifficulty {
		return MinDifficulty
	}
	if l > MaxDifficulty {
		return MaxDifficulty
	}
	return l
}

// ScorePatterns scores a pattern-recognition run. startLevel is the
// difficulty the task began at; FinalDifficulty replays the controller.
func ScorePatterns(trials []model.PatternTrial, startLevel int) model.PatternMetrics {
	ctrl := NewDifficultyController(startLevel)
	m := model.PatternMetrics{Trials: len(trials), FinalDifficulty: ctrl.Level()}
	if len(trials) == 0 {
		return m
	}

	var totalMS int64
	for _, t := range trials {
		m.FinalDifficulty = ctrl.Record(t)
		totalMS += t.ResponseTimeMS
		if !t.Correct {
			continue
		}
		switch t.PatternType {
		case patternSequence:
			m.DetailFocus++
		case patternMatrix:
			m.HolisticProcessing++
		}
	}

	m.Accuracy = patternAccuracy(trials)
	m.AvgResponseTimeMS = float64(totalMS) / float64(len(trials))
	if len(trials) >= minTrialsForCurve {
		first, second := halves(trials)
		m.LearningCurve = patternAccuracy(second) - patternAccuracy(first)
	}
	return m
}

func patternAccuracy(trials []model.PatternTrial) float64 {
	if len(trials) == 0 {
		return 0
	}
	correct := 0
	for _, t := range trials {
		if t.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(trials))
}

// PatternTrialsFromEvents extracts trials from a task event log
func PatternTrialsFromEvents(events []model.TaskEvent) []model.PatternTrial {
	var trials []model.PatternTrial
	for _, ev := range events {
		if ev.Type != model.EventPatternTrial {
			continue
		}
		trials = append(trials, model.PatternTrial{
			PatternType:    ev.PatternType,
			Difficulty:     ev.Difficulty,
			Correct:        ev.Correct,
			ResponseTimeMS: ev.ResponseTimeMS,
		})
	}
	return trials
}
