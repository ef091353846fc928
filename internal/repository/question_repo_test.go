package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"neuroassess/internal/model"
)

func TestQuestionFilterByTier(t *testing.T) {
	f := questionFilter("personality", model.TierCore)

	assert.Equal(t, "personality", f["assessmentType"])
	or, ok := f["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 3)
	assert.Equal(t, bson.M{"tiers": "core"}, or[0])
}

func TestQuestionFilterWithoutTier(t *testing.T) {
	f := questionFilter("", "")
	assert.Empty(t, f)
}

func TestFetchOptionsSortAndLimit(t *testing.T) {
	opts := fetchOptions(20)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)

	assert.Nil(t, fetchOptions(0).Limit)
}
