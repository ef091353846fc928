package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neuroassess/internal/model"
)

// ResultRepo stores completed assessments. It satisfies
// assessment.ResultSubmitter.
type ResultRepo interface {
	Submit(ctx context.Context, sessionID string, responses []model.Response, report *model.Report) error
	GetReport(ctx context.Context, sessionID string) (*model.Report, error)
}

type resultRepo struct {
	results *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		results: db.Collection("assessment_results"),
	}
}

// Submit upserts by session id, so a retried submission replaces the first
func (r *resultRepo) Submit(ctx context.Context, sessionID string, responses []model.Response, report *model.Report) error {
	result := model.AssessmentResult{
		SessionID:   sessionID,
		Responses:   responses,
		Report:      report,
		SubmittedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.results.ReplaceOne(ctx, bson.M{"sessionId": sessionID}, result, opts)
	return err
}

func (r *resultRepo) GetReport(ctx context.Context, sessionID string) (*model.Report, error) {
	opts := options.FindOne().SetProjection(bson.M{"report": 1})
	var result model.AssessmentResult
	err := r.results.FindOne(ctx, bson.M{"sessionId": sessionID}, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}
