// Package album defines the catalog record shared by every store adapter.
//
// Album is the unit the bootstrap seeder writes and the HTTP surface reads.
// All adapters persist the same shape; only the encoding differs
// (SQL columns, Redis hash values, Mongo documents).
package album

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned by repositories when no album has the requested id.
var ErrNotFound = errors.New("album not found")

// Album is a single catalog entry.
type Album struct {
	ID          string  `json:"id" bson:"_id"`
	Title       string  `json:"title" bson:"title"`
	Artist      string  `json:"artist" bson:"artist"`
	ReleaseYear string  `json:"releaseYear,omitempty" bson:"releaseYear,omitempty"`
	Genre       string  `json:"genre,omitempty" bson:"genre,omitempty"`
	Tracks      []Track `json:"tracks,omitempty" bson:"tracks,omitempty"`
	CoverArt    string  `json:"coverArt,omitempty" bson:"coverArt,omitempty"`
}

// Track is one entry of an album's track list.
//
// Datasets may list tracks either as bare titles or as objects; both decode
// into Track. Track always encodes as an object.
type Track struct {
	Number   int    `json:"number,omitempty" bson:"number,omitempty"`
	Title    string `json:"title" bson:"title"`
	Duration string `json:"duration,omitempty" bson:"duration,omitempty"`
}

// UnmarshalJSON accepts a JSON string (the title) or a track object.
func (t *Track) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty track")
	}

	switch data[0] {
	case '"':
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return fmt.Errorf("track title: %w", err)
		}
		*t = Track{Title: title}
		return nil
	case '{':
		type plain Track
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("track object: %w", err)
		}
		*t = Track(p)
		return nil
	default:
		return fmt.Errorf("track must be a string or an object, got %s", string(data))
	}
}

// Normalize trims surrounding whitespace and applies Unicode NFC to every
// human-readable field so that equal titles compare equal regardless of how
// the source encoded accents.
func (a *Album) Normalize() {
	a.ID = strings.TrimSpace(a.ID)
	a.Title = nfc(a.Title)
	a.Artist = nfc(a.Artist)
	a.Genre = nfc(a.Genre)
	a.ReleaseYear = strings.TrimSpace(a.ReleaseYear)
	a.CoverArt = strings.TrimSpace(a.CoverArt)
	for i := range a.Tracks {
		a.Tracks[i].Title = nfc(a.Tracks[i].Title)
		a.Tracks[i].Duration = strings.TrimSpace(a.Tracks[i].Duration)
		if a.Tracks[i].Number == 0 {
			a.Tracks[i].Number = i + 1
		}
	}
}

// EnsureID assigns a UUIDv7 when the album has no id yet.
// Returns true if an id was generated.
func (a *Album) EnsureID() bool {
	if a.ID != "" {
		return false
	}
	a.ID = uuid.Must(uuid.NewV7()).String()
	return true
}

func nfc(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
