package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/portfolio-api/models"
)

type MongoHireRequestRepo struct {
	coll *mongo.Collection
}

func NewMongoHireRequestRepo(coll *mongo.Collection) *MongoHireRequestRepo {
	return &MongoHireRequestRepo{coll}
}

func (r *MongoHireRequestRepo) FindAll(ctx context.Context) ([]*models.HireRequest, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	requests := []*models.HireRequest{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *MongoHireRequestRepo) Add(ctx context.Context, request *models.HireRequest) error {
	if request.ID == "" {
		request.ID = newDocumentID()
	}
	_, err := r.coll.InsertOne(ctx, request)
	return err
}
