package assessment

import "neuroassess/internal/model"

// Validate checks a candidate answer against the question's declared type
// constraints. It never fails loudly: an unacceptable value yields false.
func Validate(q *model.Question, v model.Value) bool {
	if q == nil {
		return false
	}
	switch q.Type {
	case model.QuestionTypeSpectrum:
		n, ok := v.Float()
		return ok && v.Kind == model.ValueNumber && n >= 0 && n <= 100
	case model.QuestionTypeScenario, model.QuestionTypeWouldYouRather:
		return matchesOption(q.Options, v)
	case model.QuestionTypeWordChoice:
		if v.Kind != model.ValueList || v.List == nil {
			return false
		}
		return len(v.List) <= q.MaxSelections
	case model.QuestionTypeRankOrder:
		return v.Kind == model.ValueList && isPermutation(v.List, q.Items)
	default:
		return isPresent(v)
	}
}

func matchesOption(options []model.Option, v model.Value) bool {
	if v.Kind != model.ValueNumber && v.Kind != model.ValueText {
		return false
	}
	want := v.String()
	for _, opt := range options {
		if opt.Value == want {
			return true
		}
	}
	return false
}

func isPermutation(got, items []string) bool {
	if got == nil || len(got) != len(items) {
		return false
	}
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it]++
	}
	for _, g := range got {
		if counts[g] == 0 {
			return false
		}
		counts[g]--
	}
	return true
}

// isPresent is the default rule: non-null and not an empty string
func isPresent(v model.Value) bool {
	if v.IsNull() {
		return false
	}
	if v.Kind == model.ValueText && v.Text == "" {
		return false
	}
	return true
}
