package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/tracklist/internal/album"
)

//go:embed schema.cue
var schemaSource string

//go:embed albums.json
var bundledAlbums []byte

// AlbumsMarker is the seed marker name used for the album catalog.
const AlbumsMarker = "albums"

// ValidateDataset checks raw JSON against the dataset schema.
func ValidateDataset(raw []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile dataset schema: %w", err)
	}

	data := ctx.CompileBytes(raw, cue.Filename("dataset.json"))
	if err := data.Err(); err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Dataset")).Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("dataset does not match schema: %w", err)
	}
	return nil
}

// LoadAlbums validates and decodes a dataset. Null entries are returned as
// nil pointers; every other record is normalized and given an id.
func LoadAlbums(r io.Reader) ([]*album.Album, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return decodeAlbums(raw)
}

// BundledAlbums loads the dataset compiled into the binary.
func BundledAlbums() ([]*album.Album, error) {
	return decodeAlbums(bundledAlbums)
}

// BundledRaw returns the embedded dataset bytes.
func BundledRaw() []byte {
	out := make([]byte, len(bundledAlbums))
	copy(out, bundledAlbums)
	return out
}

// AlbumsFromFile loads a dataset from disk.
func AlbumsFromFile(path string) ([]*album.Album, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadAlbums(f)
}

// AlbumLoader returns the loader for path, or the bundled dataset when path
// is empty.
func AlbumLoader(path string) Loader[album.Album] {
	if path == "" {
		return BundledAlbums
	}
	return func() ([]*album.Album, error) {
		return AlbumsFromFile(path)
	}
}

func decodeAlbums(raw []byte) ([]*album.Album, error) {
	if err := ValidateDataset(raw); err != nil {
		return nil, err
	}

	var albums []*album.Album
	if err := json.Unmarshal(raw, &albums); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	for _, a := range albums {
		if a == nil {
			continue
		}
		a.Normalize()
		a.EnsureID()
	}
	return albums, nil
}
