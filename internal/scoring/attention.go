package scoring

import (
	"math"

	"neuroassess/internal/model"
)

const (
	maxHitScore = 100
	minHitScore = 10
	msPerPoint  = 20
)

// HitScore rewards speed: 100 minus a point per 20ms, never below 10
func HitScore(reactionTimeMS int64) int {
	score := maxHitScore - int(math.Floor(float64(reactionTimeMS)/msPerPoint))
	if score < minHitScore {
		return minHitScore
	}
	return score
}

// ScoreAttention scores the visual-attention task
func ScoreAttention(r model.AttentionResult) model.AttentionMetrics {
	var m model.AttentionMetrics

	if attempts := r.TargetsFound + r.TargetsMissed + r.FalsePositives; attempts > 0 {
		m.Accuracy = float64(r.TargetsFound) / float64(attempts)
	}

	if len(r.ReactionTimesMS) > 0 {
		var total int64
		for _, rt := range r.ReactionTimesMS {
			m.TotalScore += HitScore(rt)
			total += rt
		}
		m.AvgReactionTimeMS = float64(total) / float64(len(r.ReactionTimesMS))
	}

	m.Quadrants, m.Dispersion = clickDistribution(r.Clicks, r.CanvasWidth, r.CanvasHeight)
	return m
}

// clickDistribution counts clicks per quadrant (TL, TR, BL, BR) split at the
// canvas midpoint and returns their mean distance from the center
func clickDistribution(clicks []model.Click, width, height float64) ([4]int, float64) {
	var quadrants [4]int
	if len(clicks) == 0 {
		return quadrants, 0
	}
	cx, cy := width/2, height/2
	dist := 0.0
	for _, c := range clicks {
		q := 0
		if c.X >= cx {
			q++
		}
		if c.Y >= cy {
			q += 2
		}
		quadrants[q]++
		dist += math.Hypot(c.X-cx, c.Y-cy)
	}
	return quadrants, dist / float64(len(clicks))
}

// AttentionFromEvents fills clicks, hits and false positives of base from a
// click log. Misses are not observable as clicks and are kept from base.
func AttentionFromEvents(events []model.TaskEvent, base model.AttentionResult) model.AttentionResult {
	out := base
	out.Clicks = nil
	out.ReactionTimesMS = nil
	out.TargetsFound = 0
	out.FalsePositives = 0
	for _, ev := range events {
		if ev.Type != model.EventClick {
			continue
		}
		out.Clicks = append(out.Clicks, model.Click{X: ev.X, Y: ev.Y})
		if ev.Hit {
			out.TargetsFound++
			out.ReactionTimesMS = append(out.ReactionTimesMS, ev.ResponseTimeMS)
		} else {
			out.FalsePositives++
		}
	}
	return out
}
