package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rpupo63/portfolio-api/models"
)

type MongoFeedbackRepo struct {
	coll *mongo.Collection
}

func NewMongoFeedbackRepo(coll *mongo.Collection) *MongoFeedbackRepo {
	return &MongoFeedbackRepo{coll}
}

func (r *MongoFeedbackRepo) FindAll(ctx context.Context) ([]*models.Feedback, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	feedback := []*models.Feedback{}
	if err := cur.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *MongoFeedbackRepo) Add(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = newDocumentID()
	}
	_, err := r.coll.InsertOne(ctx, feedback)
	return err
}

// Approve sets approved to true. Approving an approved entry is a no-op.
func (r *MongoFeedbackRepo) Approve(ctx context.Context, id string) (*models.Feedback, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var feedback models.Feedback
	err := r.coll.FindOneAndUpdate(ctx, idFilter(id), bson.M{"$set": bson.M{"approved": true}}, opts).Decode(&feedback)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *MongoFeedbackRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
