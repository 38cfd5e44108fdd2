package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

type MongoProjectRepo struct {
	coll *mongo.Collection
}

func NewMongoProjectRepo(coll *mongo.Collection) *MongoProjectRepo {
	return &MongoProjectRepo{coll}
}

// FindAll returns all projects, newest first
func (r *MongoProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	projects := []*models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindBySeq returns the project with the given public id
func (r *MongoProjectRepo) FindBySeq(ctx context.Context, seq int) (*models.Project, error) {
	var project models.Project
	err := r.coll.FindOne(ctx, bson.M{"id": seq}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *MongoProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return addWithNextSeq(ctx, r, project)
}

// MaxSeq returns the highest public id in use, or 0 when there are no projects
func (r *MongoProjectRepo) MaxSeq(ctx context.Context) (int, error) {
	var last struct {
		Seq int `bson:"id"`
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}).SetProjection(bson.M{"id": 1})
	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Seq, nil
}

func (r *MongoProjectRepo) insert(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = newDocumentID()
	}
	_, err := r.coll.InsertOne(ctx, project)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", errs.ErrUniqueConstraintViolation, err)
	}
	return err
}

// Update replaces the mutable fields of a project and returns the stored result
func (r *MongoProjectRepo) Update(ctx context.Context, seq int, input models.ProjectInput, updatedAt time.Time) (*models.Project, error) {
	var fields models.Project
	input.Apply(&fields)

	update := bson.M{"$set": bson.M{
		"title":        fields.Title,
		"category":     fields.Category,
		"img":          fields.Img,
		"client":       fields.Client,
		"description":  fields.Description,
		"technologies": fields.Technologies,
		"updatedAt":    updatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": seq}, update, opts).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteBySeq removes a project and reports whether it existed
func (r *MongoProjectRepo) DeleteBySeq(ctx context.Context, seq int) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": seq})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
