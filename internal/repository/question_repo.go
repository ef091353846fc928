package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuroassess/internal/model"
)

// QuestionRepo is the MongoDB question bank
type QuestionRepo interface {
	Upsert(ctx context.Context, question *model.Question) error

	// FetchQuestions returns the ordered question set for an assessment.
	// It satisfies assessment.QuestionSource.
	FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error)
	Count(ctx context.Context, assessmentType string) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Upsert(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question, opts)
	return err
}

func (r *questionRepo) FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error) {
	cursor, err := r.collection.Find(ctx, questionFilter(assessmentType, tier), fetchOptions(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Count(ctx context.Context, assessmentType string) (int64, error) {
	return r.collection.CountDocuments(ctx, questionFilter(assessmentType, ""))
}

// questionFilter matches an assessment type and, when given, questions
// offered in the tier. Untagged questions belong to every tier.
func questionFilter(assessmentType string, tier model.Tier) bson.M {
	filter := bson.M{}
	if assessmentType != "" {
		filter["assessmentType"] = assessmentType
	}
	if tier != "" {
		filter["$or"] = bson.A{
			bson.M{"tiers": string(tier)},
			bson.M{"tiers": bson.M{"$exists": false}},
			bson.M{"tiers": bson.M{"$size": 0}},
		}
	}
	return filter
}

func fetchOptions(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
