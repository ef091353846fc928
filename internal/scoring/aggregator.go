package scoring

import (
	"math"
	"strings"

	"neuroassess/internal/model"
)

// Blend weights for traits that carry a gamified or behavioral proxy
const (
	WeightTraditional = 0.40
	WeightGamified    = 0.35
	WeightBehavioral  = 0.25
)

// neutralRaw is used for traits with no evidence at all
const neutralRaw = 3.0

// AggregateInput is everything the aggregator reads
type AggregateInput struct {
	Responses      []model.Response
	TotalQuestions int
	Tasks          model.TaskSummary
	Behavioral     *model.BehavioralMetrics
}

// AggregateResult is the trait score set plus its confidence
type AggregateResult struct {
	Traits     model.TraitScoreSet
	Confidence float64
}

// ParseTrait maps a question category to a trait. Neuroticism maps onto
// EmotionalStability with reversed=true.
func ParseTrait(category string) (trait model.Trait, reversed bool, ok bool) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(category)))
	switch key {
	case "extraversion", "extroversion":
		return model.TraitExtraversion, false, true
	case "conscientiousness":
		return model.TraitConscientiousness, false, true
	case "agreeableness":
		return model.TraitAgreeableness, false, true
	case "openness", "opennesstoexperience":
		return model.TraitOpenness, false, true
	case "emotionalstability":
		return model.TraitEmotionalStability, false, true
	case "neuroticism", "negativeemotionality":
		return model.TraitEmotionalStability, true, true
	}
	return "", false, false
}

// likertValue extracts a 1-5 rating with reverse keying applied
func likertValue(r model.Response, reversed bool) (float64, bool) {
	if r.Skipped || r.QuestionType != model.QuestionTypeLikert {
		return 0, false
	}
	v, ok := r.Value.Float()
	if !ok || v < 1 || v > 5 {
		return 0, false
	}
	if r.ReverseScored != reversed {
		v = 6 - v
	}
	return v, true
}

// AggregateTraits combines Likert means with task and behavioral proxies
func AggregateTraits(in AggregateInput) AggregateResult {
	values := make(map[model.Trait][]float64, len(model.Traits))
	answered := 0
	nonLikert := false

	for _, r := range in.Responses {
		if !r.IsAnswered() {
			continue
		}
		answered++
		if r.QuestionType != model.QuestionTypeLikert {
			nonLikert = true
			continue
		}
		trait, reversed, ok := ParseTrait(r.Category)
		if !ok {
			continue
		}
		if v, ok := likertValue(r, reversed); ok {
			values[trait] = append(values[trait], v)
		}
	}

	gamified := gamifiedProxies(in.Tasks)
	behavioral := behavioralProxies(in.Behavioral)

	set := make(model.TraitScoreSet, len(model.Traits))
	for _, trait := range model.Traits {
		set[trait] = scoreTrait(values[trait], gamified, behavioral, trait)
	}

	return AggregateResult{
		Traits:     set,
		Confidence: confidence(answered, in.TotalQuestions, nonLikert, in.Behavioral),
	}
}

func scoreTrait(vals []float64, gamified, behavioral map[model.Trait]float64, trait model.Trait) model.TraitScore {
	g, hasG := gamified[trait]
	b, hasB := behavioral[trait]

	if len(vals) == 0 && !hasG && !hasB {
		return model.TraitScore{
			Score:      int(math.Round(neutralRaw * 20)),
			Raw:        neutralRaw,
			Percentile: percentile(neutralRaw),
		}
	}

	var (
		weighted float64
		weights  float64
		raw      float64
	)
	if len(vals) > 0 {
		raw = mean(vals)
		weighted += raw * 20 * WeightTraditional
		weights += WeightTraditional
	}
	if hasG {
		weighted += g * 100 * WeightGamified
		weights += WeightGamified
	}
	if hasB {
		weighted += b * 100 * WeightBehavioral
		weights += WeightBehavioral
	}

	// Weights are renormalized over the components present.
	score := weighted / weights
	if len(vals) == 0 {
		raw = 1 + 4*score/100
	}
	return model.TraitScore{
		Score:      int(math.Round(math.Max(0, math.Min(100, score)))),
		Raw:        round2(raw),
		Percentile: percentile(raw),
		Samples:    len(vals),
		Blended:    hasG || hasB,
	}
}

// gamifiedProxies maps task metrics onto traits, each 0-1
func gamifiedProxies(t model.TaskSummary) map[model.Trait]float64 {
	out := map[model.Trait]float64{}
	if t.Pattern != nil && t.Pattern.Trials > 0 {
		out[model.TraitOpenness] = clamp01(t.Pattern.Accuracy)
	}
	if t.Balloon != nil && t.Balloon.Balloons > 0 {
		out[model.TraitConscientiousness] = clamp01(t.Balloon.Consistency)
	}
	return out
}

func behavioralProxies(m *model.BehavioralMetrics) map[model.Trait]float64 {
	out := map[model.Trait]float64{}
	if m == nil {
		return out
	}
	out[model.TraitEmotionalStability] = clamp01(1 - m.AnxietyScore)
	return out
}

func percentile(raw float64) int {
	return int(math.Round((raw - 1) / 4 * 100))
}

func confidence(answered, total int, nonLikert bool, m *model.BehavioralMetrics) float64 {
	c := 0.0
	if total > 0 {
		c += 0.5 * math.Min(1, float64(answered)/float64(total))
	}
	if nonLikert {
		c += 0.25
	}
	if m != nil && m.DurationMS > 0 {
		c += 0.25
	}
	return round2(math.Min(1, c))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
