package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hotelverse/internal/adapters/observability"
	"hotelverse/internal/domain"
)

const (
	driverName = "mongo"
	// seedLocks holds one marker document per seeded collection; its _id uniqueness is the seed guard.
	seedLocks = "seed_locks"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, pings the primary and returns a store bound to dbName.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	if dbName == "" {
		return nil, errors.New("mongodb: database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func (s *Store) Driver() string { return driverName }

func (s *Store) Ready() error { return nil }

func (s *Store) Insert(ctx context.Context, collection string, doc any) (id string, err error) {
	defer observe("insert", time.Now(), &err)
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (s *Store) InsertManyIfEmpty(ctx context.Context, collection string, docs []any) (n int, err error) {
	defer observe("insert_many_if_empty", time.Now(), &err)

	existing, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	if existing > 0 || len(docs) == 0 {
		return 0, nil
	}

	// Claim the collection; a concurrent seeder loses on the duplicate _id.
	_, err = s.db.Collection(seedLocks).InsertOne(ctx, bson.D{
		{Key: "_id", Value: collection},
		{Key: "seeded_at", Value: time.Now().UTC()},
	})
	if mongo.IsDuplicateKeyError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	res, err := s.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		// release the claim so a later seed can retry
		_, _ = s.db.Collection(seedLocks).DeleteOne(context.Background(), bson.D{{Key: "_id", Value: collection}})
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (s *Store) Count(ctx context.Context, collection string) (n int64, err error) {
	defer observe("count", time.Now(), &err)
	return s.db.Collection(collection).CountDocuments(ctx, bson.D{})
}

func (s *Store) Find(ctx context.Context, collection string, f domain.Filter, out any) (err error) {
	defer observe("find", time.Now(), &err)
	q, err := toBSON(f)
	if err != nil {
		return err
	}
	// ObjectIDs grow with insertion time, so _id order is stored order.
	cur, err := s.db.Collection(collection).Find(ctx, q, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *Store) Collections(ctx context.Context) (names []string, err error) {
	defer observe("collections", time.Now(), &err)
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func observe(op string, start time.Time, err *error) {
	observability.ObserveStore(driverName, op, *err, time.Since(start))
}
