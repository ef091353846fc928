package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neuroassess/internal/model"
)

func TestValidateSpectrum(t *testing.T) {
	q := &model.Question{ID: "s1", Type: model.QuestionTypeSpectrum}

	assert.False(t, Validate(q, model.NumberValue(-1)))
	assert.True(t, Validate(q, model.NumberValue(0)))
	assert.True(t, Validate(q, model.NumberValue(100)))
	assert.False(t, Validate(q, model.NumberValue(100.5)))
	assert.False(t, Validate(q, model.TextValue("50")))
}

func TestValidateScenarioOptions(t *testing.T) {
	q := &model.Question{
		ID:   "sc1",
		Type: model.QuestionTypeScenario,
		Options: []model.Option{
			{Label: "Lead", Value: "lead"},
			{Label: "Two", Value: "2"},
		},
	}

	assert.True(t, Validate(q, model.TextValue("lead")))
	assert.True(t, Validate(q, model.NumberValue(2)))
	assert.False(t, Validate(q, model.TextValue("Lead")))
	assert.False(t, Validate(q, model.ListValue("lead")))

	wyr := &model.Question{ID: "w1", Type: model.QuestionTypeWouldYouRather, Options: q.Options}
	assert.True(t, Validate(wyr, model.TextValue("lead")))
}

func TestValidateWordChoice(t *testing.T) {
	q := &model.Question{ID: "wc", Type: model.QuestionTypeWordChoice, MaxSelections: 2}

	assert.True(t, Validate(q, model.ListValue("calm", "bold")))
	assert.True(t, Validate(q, model.ListValue()))
	assert.False(t, Validate(q, model.ListValue("a", "b", "c")))
	assert.False(t, Validate(q, model.TextValue("calm")))

	unlimited := &model.Question{ID: "wc0", Type: model.QuestionTypeWordChoice}
	assert.True(t, Validate(unlimited, model.ListValue()))
	assert.False(t, Validate(unlimited, model.ListValue("calm")))
}

func TestValidateRankOrder(t *testing.T) {
	q := &model.Question{ID: "ro", Type: model.QuestionTypeRankOrder, Items: []string{"a", "b", "c"}}

	assert.True(t, Validate(q, model.ListValue("c", "a", "b")))
	assert.False(t, Validate(q, model.ListValue("a", "b")))
	assert.False(t, Validate(q, model.ListValue("a", "a", "b")))
	assert.False(t, Validate(q, model.ListValue("a", "b", "d")))
}

func TestValidateDefaultRule(t *testing.T) {
	q := &model.Question{ID: "l1", Type: model.QuestionTypeLikert}

	assert.True(t, Validate(q, model.NumberValue(3)))
	assert.True(t, Validate(q, model.NumberValue(0)))
	assert.True(t, Validate(q, model.TextValue("anything")))
	assert.False(t, Validate(q, model.TextValue("")))
	assert.False(t, Validate(q, model.Value{}))

	unknown := &model.Question{ID: "x", Type: "mystery"}
	assert.True(t, Validate(unknown, model.ListValue("x")))
	assert.False(t, Validate(nil, model.NumberValue(1)))
}
