package scoring

import (
	"math"

	"neuroassess/internal/model"
)

// MaxPumps is the pump count treated as maximal observed risk-taking
const MaxPumps = 64

// ScoreBalloons computes risk metrics from one record per balloon played
func ScoreBalloons(records []model.BalloonRecord) model.BalloonMetrics {
	m := model.BalloonMetrics{Balloons: len(records)}
	if len(records) == 0 {
		return m
	}

	pumps := make([]float64, len(records))
	popped := 0
	for i, r := range records {
		pumps[i] = float64(r.PumpCount)
		m.TotalEarned += r.Earned
		if r.Popped {
			popped++
		}
	}

	m.AveragePumps = mean(pumps)
	m.RiskTolerance = math.Min(1, m.AveragePumps/MaxPumps)
	m.PopRate = float64(popped) / float64(len(records))

	if len(records) >= 2 {
		first, second := halves(pumps)
		m.LearningCurve = mean(second) - mean(first)
	}

	// All-zero pumping has no spread: treat it as perfectly consistent
	cv := 0.0
	if m.AveragePumps > 0 {
		cv = stddev(pumps) / m.AveragePumps
	}
	m.Consistency = math.Max(0, 1-cv)

	return m
}

// BalloonRecordsFromEvents rebuilds per-balloon records from a pump/collect/pop
// log. A balloon still being pumped when the log ends is not counted.
func BalloonRecordsFromEvents(events []model.TaskEvent) []model.BalloonRecord {
	pumps := make(map[int]int)
	var records []model.BalloonRecord
	for _, ev := range events {
		switch ev.Type {
		case model.EventPump:
			pumps[ev.Balloon]++
		case model.EventCollect, model.EventPop:
			rec := model.BalloonRecord{
				BalloonIndex: ev.Balloon,
				PumpCount:    pumps[ev.Balloon],
				Popped:       ev.Type == model.EventPop,
				Color:        ev.Color,
			}
			if !rec.Popped {
				rec.Earned = ev.Amount
			}
			records = append(records, rec)
			delete(pumps, ev.Balloon)
		}
	}
	return records
}
