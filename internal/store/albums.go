package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/seed"
)

var (
	_ album.Repository = (*Store)(nil)
	_ seed.Claimer     = (*Store)(nil)
)

// Count returns the number of stored albums.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count albums: %w", err)
	}
	return n, nil
}

// Save inserts an album or replaces the row with the same id.
func (s *Store) Save(ctx context.Context, a album.Album) error {
	if a.ID == "" {
		return fmt.Errorf("save album %q: missing id", a.Title)
	}

	tracksJSON, err := marshalTracks(a.Tracks)
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO albums (id, title, artist, release_year, genre, tracks, cover_art)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			release_year = excluded.release_year,
			genre = excluded.genre,
			tracks = excluded.tracks,
			cover_art = excluded.cover_art
	`,
		a.ID,
		a.Title,
		a.Artist,
		a.ReleaseYear,
		a.Genre,
		tracksJSON,
		a.CoverArt,
	)
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// FindAll returns every album ordered by title, then id.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) FindAll(ctx context.Context) ([]album.Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artist, release_year, genre, tracks, cover_art
		FROM albums
		ORDER BY title ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	defer rows.Close()

	albums := []album.Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// FindByID returns the album with id, or album.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (album.Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist, release_year, genre, tracks, cover_art
		FROM albums
		WHERE id = ?
	`, id)

	a, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return album.Album{}, album.ErrNotFound
	}
	if err != nil {
		return album.Album{}, err
	}
	return a, nil
}

// ClaimSeed records the seed marker name. It returns true only for the first
// caller; later calls (from this or any other process sharing the file) see
// the existing row and get false.
func (s *Store) ClaimSeed(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_markers (name, claimed_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("claim seed marker %q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim seed marker %q: %w", name, err)
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row rowScanner) (album.Album, error) {
	var (
		a          album.Album
		tracksJSON string
	)
	err := row.Scan(&a.ID, &a.Title, &a.Artist, &a.ReleaseYear, &a.Genre, &tracksJSON, &a.CoverArt)
	if errors.Is(err, sql.ErrNoRows) {
		return album.Album{}, err
	}
	if err != nil {
		return album.Album{}, fmt.Errorf("scan album: %w", err)
	}

	a.Tracks, err = unmarshalTracks(tracksJSON)
	if err != nil {
		return album.Album{}, fmt.Errorf("album %s: %w", a.ID, err)
	}
	return a, nil
}
