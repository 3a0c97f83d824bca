// Package relational stores albums in a bound SQL database through gorm.
package relational

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/seed"
)

var (
	_ album.Repository = (*Store)(nil)
	_ seed.Claimer     = (*Store)(nil)
)

// Store is an album repository backed by gorm.
type Store struct {
	db *gorm.DB
}

// Open connects through dialector, pings, and migrates the album tables.
func Open(ctx context.Context, dialector gorm.Dialector, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	name := dialector.Name()
	log.InfoContext(ctx, "relational connect started", "dialect", name)

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&albumModel{}, &seedMarkerModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate %s: %w", name, err)
	}

	log.InfoContext(ctx, "relational connect completed", "dialect", name)
	return &Store{db: db}, nil
}

// Count returns the number of stored albums.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&albumModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count albums: %w", err)
	}
	return n, nil
}

// Save inserts an album or overwrites the row with the same id.
func (s *Store) Save(ctx context.Context, a album.Album) error {
	if a.ID == "" {
		return fmt.Errorf("save album %q: missing id", a.Title)
	}
	m := toModel(a)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// FindAll returns every album ordered by title, then id.
func (s *Store) FindAll(ctx context.Context) ([]album.Album, error) {
	var models []albumModel
	if err := s.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}

	out := make([]album.Album, 0, len(models))
	for _, m := range models {
		out = append(out, m.toAlbum())
	}
	return out, nil
}

// FindByID returns the album with id, or album.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (album.Album, error) {
	var m albumModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return album.Album{}, album.ErrNotFound
		}
		return album.Album{}, fmt.Errorf("find album %s: %w", id, err)
	}
	return m.toAlbum(), nil
}

// ClaimSeed inserts the marker row; only the caller whose insert lands gets
// true.
func (s *Store) ClaimSeed(ctx context.Context, name string) (bool, error) {
	marker := seedMarkerModel{Name: name, ClaimedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&marker)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("claim seed marker %q: %w", name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
