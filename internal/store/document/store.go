// Package document stores albums in a bound MongoDB deployment.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/seed"
)

const (
	// DefaultDatabase is used when the connection URI names no database.
	DefaultDatabase = "tracklist"

	albumsCollection  = "albums"
	markersCollection = "seed_markers"
)

var (
	_ album.Repository = (*Store)(nil)
	_ seed.Claimer     = (*Store)(nil)
)

// Store is an album repository backed by a Mongo collection.
type Store struct {
	client  *mongo.Client
	albums  *mongo.Collection
	markers *mongo.Collection
}

// DatabaseName returns the database named in uri, or DefaultDatabase.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongodb uri: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// Open connects to uri and pings the primary.
func Open(ctx context.Context, uri string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	dbName, err := DatabaseName(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.InfoContext(ctx, "mongodb connected", "database", dbName)
	return NewStore(client, dbName), nil
}

// NewStore wraps a connected client using database dbName. The store owns
// the client from here on.
func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:  client,
		albums:  db.Collection(albumsCollection),
		markers: db.Collection(markersCollection),
	}
}

// Count returns the number of album documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.albums.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count albums: %w", err)
	}
	return n, nil
}

// Save upserts by _id.
func (s *Store) Save(ctx context.Context, a album.Album) error {
	if a.ID == "" {
		return fmt.Errorf("save album %q: missing id", a.Title)
	}
	_, err := s.albums.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// FindAll returns every album ordered by title, then id.
func (s *Store) FindAll(ctx context.Context) ([]album.Album, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.albums.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}

	out := []album.Album{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode albums: %w", err)
	}
	return out, nil
}

// FindByID returns album.ErrNotFound when no document has _id equal to id.
func (s *Store) FindByID(ctx context.Context, id string) (album.Album, error) {
	var a album.Album
	err := s.albums.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return album.Album{}, album.ErrNotFound
	}
	if err != nil {
		return album.Album{}, fmt.Errorf("find album %s: %w", id, err)
	}
	return a, nil
}

// ClaimSeed inserts a marker document keyed by name. A duplicate key means
// another instance got there first.
func (s *Store) ClaimSeed(ctx context.Context, name string) (bool, error) {
	_, err := s.markers.InsertOne(ctx, bson.M{"_id": name, "claimedAt": time.Now().UTC()})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim seed marker %q: %w", name, err)
	}
	return true, nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting up to five seconds.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
