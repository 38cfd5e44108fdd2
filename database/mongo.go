package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	ProjectsCollection     = "projects"
	FeedbackCollection     = "feedbacks"
	HireRequestsCollection = "hirerequests"
)

// ConnectMongo opens a client and verifies the connection with a ping.
// Embedded documents decode as maps so free-form fields render as JSON objects.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongo wires the repositories to collections of db on the shared client.
func NewMongo(client *mongo.Client, dbName string) Database {
	db := client.Database(dbName)
	return Database{
		projectRepo:     NewMongoProjectRepo(db.Collection(ProjectsCollection)),
		feedbackRepo:    NewMongoFeedbackRepo(db.Collection(FeedbackCollection)),
		hireRequestRepo: NewMongoHireRequestRepo(db.Collection(HireRequestsCollection)),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}
}

// EnsureMongoIndexes creates the unique project id index and the createdAt
// sort indexes. It is safe to call on every start.
func EnsureMongoIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	_, err := db.Collection(ProjectsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("id_unique")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	})
	if err != nil {
		return fmt.Errorf("create %s indexes: %w", ProjectsCollection, err)
	}

	for _, name := range []string{FeedbackCollection, HireRequestsCollection} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		})
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

// idFilter matches a native id stored either as a string or as an ObjectID.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func newDocumentID() string {
	return primitive.NewObjectID().Hex()
}
