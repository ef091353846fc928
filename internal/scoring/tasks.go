package scoring

import "neuroassess/internal/model"

// ScoreTasks scores every gamified task found in the responses. Results of
// the same task type are pooled before scoring.
func ScoreTasks(responses []model.Response) model.TaskSummary {
	var (
		balloons  []model.BalloonRecord
		trials    []model.PatternTrial
		attention *model.AttentionResult
	)

	for _, r := range responses {
		if r.Skipped || r.Value.Kind != model.ValueTask || r.Value.Task == nil {
			continue
		}
		task := r.Value.Task
		switch taskType(r.QuestionType, task) {
		case model.TaskBalloon:
			recs := task.Balloons
			if len(recs) == 0 {
				recs = BalloonRecordsFromEvents(task.Events)
			}
			balloons = append(balloons, recs...)
		case model.TaskPattern:
			ts := task.Trials
			if len(ts) == 0 {
				ts = PatternTrialsFromEvents(task.Events)
			}
			trials = append(trials, ts...)
		case model.TaskAttention:
			var res model.AttentionResult
			if task.Attention != nil {
				res = *task.Attention
			}
			if len(res.ReactionTimesMS) == 0 && len(res.Clicks) == 0 && len(task.Events) > 0 {
				res = AttentionFromEvents(task.Events, res)
			}
			attention = mergeAttention(attention, res)
		}
	}

	var summary model.TaskSummary
	if len(balloons) > 0 {
		m := ScoreBalloons(balloons)
		summary.Balloon = &m
	}
	if len(trials) > 0 {
		start := trials[0].Difficulty
		if start == 0 {
			start = MinDifficulty
		}
		m := ScorePatterns(trials, start)
		summary.Pattern = &m
	}
	if attention != nil {
		m := ScoreAttention(*attention)
		summary.Attention = &m
	}
	return summary
}

func taskType(qt model.QuestionType, task *model.TaskResult) model.TaskType {
	if task.Task != "" {
		return task.Task
	}
	if !qt.IsTask() {
		return ""
	}
	switch qt {
	case model.QuestionTypeBalloonTask:
		return model.TaskBalloon
	case model.QuestionTypePatternTask:
		return model.TaskPattern
	case model.QuestionTypeAttentionTask:
		return model.TaskAttention
	case model.QuestionTypeWordAssociation:
		return model.TaskWordAssociation
	}
	return ""
}

func mergeAttention(acc *model.AttentionResult, r model.AttentionResult) *model.AttentionResult {
	if acc == nil {
		out := r
		return &out
	}
	acc.ReactionTimesMS = append(acc.ReactionTimesMS, r.ReactionTimesMS...)
	acc.TargetsFound += r.TargetsFound
	acc.TargetsMissed += r.TargetsMissed
	acc.FalsePositives += r.FalsePositives
	acc.Clicks = append(acc.Clicks, r.Clicks...)
	if acc.CanvasWidth == 0 {
		acc.CanvasWidth, acc.CanvasHeight = r.CanvasWidth, r.CanvasHeight
	}
	return acc
}
