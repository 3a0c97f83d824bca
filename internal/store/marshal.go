package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/tracklist/internal/album"
)

// marshalTracks converts a track list to JSON TEXT for storage.
// HTML escaping is disabled so titles round-trip byte for byte.
func marshalTracks(tracks []album.Track) (string, error) {
	if tracks == nil {
		tracks = []album.Track{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tracks); err != nil {
		return "", fmt.Errorf("marshal tracks: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unmarshalTracks parses the stored JSON TEXT. An empty array yields nil.
func unmarshalTracks(raw string) ([]album.Track, error) {
	var tracks []album.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("unmarshal tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, nil
	}
	return tracks, nil
}
