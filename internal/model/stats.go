package model

// ArchetypeCount is one row of the archetype distribution
type ArchetypeCount struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Share float64 `json:"share"` // 0-1 of all completed reports
}

// QuestionStats aggregates responses to one question across sessions
type QuestionStats struct {
	QuestionID      string `json:"questionId"`
	Answered        int64  `json:"answered"`
	Skipped         int64  `json:"skipped"`
	TimedOut        int64  `json:"timedOut"`
	TotalResponseMS int64  `json:"totalResponseMs"`
}

// AvgResponseMS is the mean response time of answered visits
func (q QuestionStats) AvgResponseMS() float64 {
	if q.Answered == 0 {
		return 0
	}
	return float64(q.TotalResponseMS) / float64(q.Answered)
}
