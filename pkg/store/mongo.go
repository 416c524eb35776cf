package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/transcript"
)

// Collection names.
const (
	roadmapCollection    = "roadmaps"
	transcriptCollection = "transcripts"
)

// MongoStore is a MongoDB-backed store for server deployments.
// Documents are keyed by the application-level "id" field, not _id, so the
// wire format matches the JSON API exactly.
type MongoStore struct {
	client      *mongo.Client
	roadmaps    *mongo.Collection
	transcripts *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:      client,
		roadmaps:    db.Collection(roadmapCollection),
		transcripts: db.Collection(transcriptCollection),
	}, nil
}

func (s *MongoStore) SaveRoadmap(ctx context.Context, r *roadmap.Roadmap) error {
	r.ID = ensureID(r.ID)
	return s.upsert(ctx, s.roadmaps, r.ID, r)
}

func (s *MongoStore) GetRoadmap(ctx context.Context, id string) (*roadmap.Roadmap, error) {
	var r roadmap.Roadmap
	if err := s.findByID(ctx, s.roadmaps, id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoStore) DeleteRoadmap(ctx context.Context, id string) error {
	res, err := s.roadmaps.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete roadmap %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SaveTranscript(ctx context.Context, t *transcript.Transcript) error {
	t.ID = ensureID(t.ID)
	return s.upsert(ctx, s.transcripts, t.ID, t)
}

func (s *MongoStore) GetTranscript(ctx context.Context, id string) (*transcript.Transcript, error) {
	var t transcript.Transcript
	if err := s.findByID(ctx, s.transcripts, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) upsert(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"id": id}, doc, opts); err != nil {
		return fmt.Errorf("save %s/%s: %w", coll.Name(), id, err)
	}
	return nil
}

func (s *MongoStore) findByID(ctx context.Context, coll *mongo.Collection, id string, out any) error {
	err := coll.FindOne(ctx, bson.M{"id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s/%s: %w", coll.Name(), id, err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
