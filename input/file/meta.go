package file

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Meta is the displayable track metadata.
type Meta struct {
	Title  string
	Artist string
	Album  string
}

// ReadMeta pulls title and artist tags from the file. Files without
// readable tags fall back to the file name; metadata failures never
// block playback.
func ReadMeta(path string) Meta {
	meta := Meta{Title: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta
	}

	if t := m.Title(); t != "" {
		meta.Title = t
	}
	meta.Artist = m.Artist()
	meta.Album = m.Album()

	return meta
}
