// Package keyvalue stores albums in a bound Redis instance.
//
// Albums live in a single hash keyed by album id with JSON values. The seed
// marker is a separate string key set with SETNX.
package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/seed"
)

const (
	// AlbumsKey is the hash holding every album.
	AlbumsKey = "albums"
	// markerPrefix namespaces seed markers next to the hash.
	markerPrefix = "albums:seeded"
)

var (
	_ album.Repository = (*Store)(nil)
	_ seed.Claimer     = (*Store)(nil)
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, uri string) (*redis.Client, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("redis: empty connection uri")
	}
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: uri}), nil
}

// Store is an album repository backed by a Redis hash.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing client. The store owns it from here on.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Open connects and pings.
func Open(ctx context.Context, uri string) (*Store, error) {
	client, err := Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	s := NewStore(client)
	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// Count returns the number of fields in the albums hash.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.client.HLen(ctx, AlbumsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count albums: %w", err)
	}
	return n, nil
}

// Save writes the album as JSON under its id, replacing any previous value.
func (s *Store) Save(ctx context.Context, a album.Album) error {
	if a.ID == "" {
		return fmt.Errorf("save album %q: missing id", a.Title)
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal album: %w", err)
	}
	if err := s.client.HSet(ctx, AlbumsKey, a.ID, raw).Err(); err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// FindAll returns every album ordered by title, then id.
func (s *Store) FindAll(ctx context.Context) ([]album.Album, error) {
	values, err := s.client.HVals(ctx, AlbumsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}

	out := make([]album.Album, 0, len(values))
	for _, v := range values {
		var a album.Album
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			return nil, fmt.Errorf("decode album: %w", err)
		}
		out = append(out, a)
	}
	album.SortByTitle(out)
	return out, nil
}

// FindByID returns album.ErrNotFound when no field holds id.
func (s *Store) FindByID(ctx context.Context, id string) (album.Album, error) {
	raw, err := s.client.HGet(ctx, AlbumsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return album.Album{}, album.ErrNotFound
	}
	if err != nil {
		return album.Album{}, fmt.Errorf("find album %s: %w", id, err)
	}

	var a album.Album
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return album.Album{}, fmt.Errorf("decode album %s: %w", id, err)
	}
	return a, nil
}

// ClaimSeed sets the marker key if absent. The marker never expires.
func (s *Store) ClaimSeed(ctx context.Context, name string) (bool, error) {
	key := markerKey(name)
	ok, err := s.client.SetNX(ctx, key, "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("claim seed marker %q: %w", name, err)
	}
	return ok, nil
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func markerKey(name string) string {
	if name == seed.AlbumsMarker {
		return markerPrefix
	}
	return markerPrefix + ":" + name
}
