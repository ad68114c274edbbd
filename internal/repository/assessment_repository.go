package repository

import (
	"context"

	"assessment-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssessmentRepository is the append-only store for evaluated answers.
// Records are never updated or deleted.
type AssessmentRepository struct {
	Col *mongo.Collection
}

func NewAssessmentRepository(db *mongo.Database) *AssessmentRepository {
	return &AssessmentRepository{Col: db.Collection("assessments")}
}

func (r *AssessmentRepository) Insert(ctx context.Context, record *models.AssessmentRecord) error {
	_, err := r.Col.InsertOne(ctx, record)
	return err
}

// InsertBatch writes every record of one evaluated batch as a single ordered
// InsertMany, the store's batch-write primitive. On failure the returned
// error covers the batch as a unit; Mongo stops at the first failing insert.
func (r *AssessmentRepository) InsertBatch(ctx context.Context, records []models.AssessmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	_, err := r.Col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// FindByUser returns the user's records newest first. limit <= 0 means no cap.
func (r *AssessmentRepository) FindByUser(ctx context.Context, userID string, limit int64) ([]models.AssessmentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []models.AssessmentRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AverageScoreForUser computes the mean score across every record the user
// owns, 0 when the user has none.
func (r *AssessmentRepository) AverageScoreForUser(ctx context.Context, userID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$score"},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Avg, nil
}
