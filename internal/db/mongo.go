package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"reup-todo-backend/internal/tasks"
)

const (
	DefaultMongoDatabase = "todo"
	tasksCollection      = "tasks"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Done      bool               `bson:"done"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d taskDocument) toTask() tasks.Task {
	return tasks.Task{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Done:      d.Done,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func OpenMongo(ctx context.Context, uri string) (*MongoStore, error) {
	dbName, err := MongoDatabaseName(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(tasksCollection),
	}, nil
}

// MongoDatabaseName returns the database named in the URI path, or
// DefaultMongoDatabase when the path is empty.
func MongoDatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", err
	}
	if cs.Database == "" {
		return DefaultMongoDatabase, nil
	}
	return cs.Database, nil
}

// objectID maps a malformed id to ErrNotFound: such a task cannot exist.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, tasks.ErrNotFound
	}
	return oid, nil
}

func (s *MongoStore) List(ctx context.Context) ([]tasks.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	list := make([]tasks.Task, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toTask())
	}
	return list, nil
}

func (s *MongoStore) Insert(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	doc := taskDocument{
		ID:        primitive.NewObjectID(),
		Title:     t.Title,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return tasks.Task{}, err
	}
	return doc.toTask(), nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (tasks.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return tasks.Task{}, err
	}

	var doc taskDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, err
	}
	return doc.toTask(), nil
}

func (s *MongoStore) SetDone(ctx context.Context, id string, done bool) (tasks.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return tasks.Task{}, err
	}

	var doc taskDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"done": done}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, err
	}
	return doc.toTask(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
