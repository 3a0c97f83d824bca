package relational

import (
	"time"

	"github.com/roach88/tracklist/internal/album"
)

type albumModel struct {
	ID          string        `gorm:"column:id;size:64;primaryKey"`
	Title       string        `gorm:"column:title;size:255;not null;index:idx_albums_title,priority:1"`
	Artist      string        `gorm:"column:artist;size:255;not null"`
	ReleaseYear string        `gorm:"column:release_year;size:16"`
	Genre       string        `gorm:"column:genre;size:64"`
	Tracks      []album.Track `gorm:"column:tracks;serializer:json"`
	CoverArt    string        `gorm:"column:cover_art;size:255"`
}

func (albumModel) TableName() string { return "albums" }

type seedMarkerModel struct {
	Name      string    `gorm:"column:name;size:64;primaryKey"`
	ClaimedAt time.Time `gorm:"column:claimed_at"`
}

func (seedMarkerModel) TableName() string { return "seed_markers" }

func toModel(a album.Album) albumModel {
	return albumModel{
		ID:          a.ID,
		Title:       a.Title,
		Artist:      a.Artist,
		ReleaseYear: a.ReleaseYear,
		Genre:       a.Genre,
		Tracks:      a.Tracks,
		CoverArt:    a.CoverArt,
	}
}

func (m albumModel) toAlbum() album.Album {
	var tracks []album.Track
	if len(m.Tracks) > 0 {
		tracks = m.Tracks
	}
	return album.Album{
		ID:          m.ID,
		Title:       m.Title,
		Artist:      m.Artist,
		ReleaseYear: m.ReleaseYear,
		Genre:       m.Genre,
		Tracks:      tracks,
		CoverArt:    m.CoverArt,
	}
}
