package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"socialimpact/internal/model"
)

// AssessmentRepo archives anonymised scoring outcomes
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	CountByBand(ctx context.Context, band string) (int64, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

func NewAssessmentRepo(client *mongo.Client, database string) AssessmentRepo {
	db := client.Database(database)
	return newAssessmentRepo(db.Collection("assessments"))
}

func newAssessmentRepo(collection *mongo.Collection) *assessmentRepo {
	return &assessmentRepo{collection: collection}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) CountByBand(ctx context.Context, band string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"band": band})
}

// nopAssessmentRepo is used when no Mongo deployment is configured
type nopAssessmentRepo struct{}

func NewNopAssessmentRepo() AssessmentRepo { return nopAssessmentRepo{} }

func (nopAssessmentRepo) Create(context.Context, *model.Assessment) error { return nil }

func (nopAssessmentRepo) GetByID(context.Context, string) (*model.Assessment, error) {
	return nil, nil
}

func (nopAssessmentRepo) CountByBand(context.Context, string) (int64, error) { return 0, nil }
