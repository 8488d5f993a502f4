package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default collection for MongoStore.
const DefaultCollection = "artifacts"

// MongoStore keeps one document per artifact in a MongoDB collection.
// Documents are unique on (kind, name).
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and ensures the (kind, name) index exists.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := &MongoStore{client: client, coll: client.Database(database).Collection(collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create artifact index: %w", err)
	}
	return nil
}

func (s *MongoStore) Put(ctx context.Context, kind Kind, filename string, data []byte) (Ref, error) {
	ref, err := NewRef(kind, filename)
	if err != nil {
		return Ref{}, err
	}
	ref.Size = int64(len(data))

	doc := Artifact{Ref: ref, Data: data, CreatedAt: time.Now().UTC()}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Ref{}, fmt.Errorf("insert artifact: %w", err)
	}
	return ref, nil
}

func (s *MongoStore) Get(ctx context.Context, kind Kind, name string) (*Artifact, error) {
	if err := validate(kind, name); err != nil {
		return nil, err
	}
	var a Artifact
	err := s.coll.FindOne(ctx, filter(kind, name)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find artifact: %w", err)
	}
	return &a, nil
}

func (s *MongoStore) Delete(ctx context.Context, kind Kind, name string) error {
	if err := validate(kind, name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, filter(kind, name)); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func filter(kind Kind, name string) bson.D {
	return bson.D{{Key: "kind", Value: string(kind)}, {Key: "name", Value: name}}
}

var _ Store = (*MongoStore)(nil)
