package archive

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string // default "mongodb://localhost:27017"
	Database   string // default "labyrinth"
	Collection string // default "mazes"
	Timeout    time.Duration
}

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// recordDoc is the stored form of a Record. BSON has no unsigned 64-bit
// integer, so the seed is kept as its int64 bit pattern.
type recordDoc struct {
	ID         string        `bson:"_id"`
	Width      int           `bson:"width"`
	Height     int           `bson:"height"`
	Seed       int64         `bson:"seed"`
	Deepest    maze.Position `bson:"deepest"`
	DeepestLen int           `bson:"deepest_len"`
	Stats      maze.Stats    `bson:"stats"`
	Formats    []string      `bson:"formats,omitempty"`
	Origin     string        `bson:"origin,omitempty"`
	CacheHit   bool          `bson:"cache_hit"`
	DurationMS int64         `bson:"duration_ms"`
	CreatedAt  time.Time     `bson:"created_at"`
}

func toDoc(r Record) recordDoc {
	return recordDoc{
		ID:         r.ID,
		Width:      r.Width,
		Height:     r.Height,
		Seed:       int64(r.Seed),
		Deepest:    r.Deepest,
		DeepestLen: r.DeepestLen,
		Stats:      r.Stats,
		Formats:    r.Formats,
		Origin:     r.Origin,
		CacheHit:   r.CacheHit,
		DurationMS: r.Duration.Milliseconds(),
		CreatedAt:  r.CreatedAt,
	}
}

func (d recordDoc) record() Record {
	return Record{
		ID:         d.ID,
		Width:      d.Width,
		Height:     d.Height,
		Seed:       uint64(d.Seed),
		Deepest:    d.Deepest,
		DeepestLen: d.DeepestLen,
		Stats:      d.Stats,
		Formats:    d.Formats,
		Origin:     d.Origin,
		CacheHit:   d.CacheHit,
		Duration:   time.Duration(d.DurationMS) * time.Millisecond,
		CreatedAt:  d.CreatedAt,
	}
}

// Defaults applied by NewMongoStore.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "labyrinth"
	DefaultMongoCollection = "mazes"
	DefaultMongoTimeout    = 10 * time.Second
)

// NewMongoStore connects to MongoDB and ensures the created_at index.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		opts.URI = DefaultMongoURI
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultMongoTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI).SetTimeout(opts.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, toDoc(rec), options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save record %s", rec.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Record{}, errors.New(errors.ErrCodeNotFound, "record %s not found", id)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeNetwork, err, "get record %s", id)
	}
	return doc.record(), nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		find.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, find)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list records")
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode records")
	}
	out := make([]Record, len(docs))
	for i, d := range docs {
		out[i] = d.record()
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
