package catalog

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/otakulab/anirec/internal/anime"
)

var (
	// ErrUnsupportedVersion is returned when a snapshot was written by an incompatible build.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrStaleSnapshot is returned when a snapshot was built from a different catalog file
	// or from an earlier state of the same one.
	ErrStaleSnapshot = errors.New("snapshot does not match catalog")
)

const (
	// SnapshotFileName is the name of the compiled catalog cache.
	SnapshotFileName = "catalog.gob.zst"

	// CurrentSnapshotVersion is bumped on breaking changes to the snapshot layout.
	CurrentSnapshotVersion = 2
)

// Source identifies the catalog file a cache was built from.
type Source struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// SourceOf fingerprints the catalog file at path.
func SourceOf(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// Equal reports whether two fingerprints describe the same file state.
func (s Source) Equal(o Source) bool {
	return s.Path == o.Path && s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

// Key renders the fingerprint as a single comparable string.
func (s Source) Key() string {
	return fmt.Sprintf("%s|%d|%d", s.Path, s.Size, s.ModTime.UnixNano())
}

// snapshot is the on-disk layout of a compiled catalog.
type snapshot struct {
	Version   int
	Source    Source
	Width     int
	CreatedAt time.Time
	Items     []anime.Item
}

// SaveSnapshot writes the catalog as a zstd-compressed gob tagged with the
// catalog file it was loaded from.
// It writes to a temp file and renames, so readers never see a partial file.
func (c *Catalog) SaveSnapshot(path string, src Source) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("creating compressor: %w", err)
	}

	snap := snapshot{
		Version:   CurrentSnapshotVersion,
		Source:    src,
		Width:     c.width,
		CreatedAt: time.Now().UTC(),
		Items:     c.items,
	}
	if err := gob.NewEncoder(zw).Encode(&snap); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("flushing compressor: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and revalidates it.
// The snapshot is only accepted if it was built from exactly src.
// A missing or corrupt file wraps ErrLoad; a version mismatch wraps
// ErrUnsupportedVersion as well, and a source mismatch ErrStaleSnapshot.
func LoadSnapshot(path string, src Source) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening snapshot: %w", ErrLoad, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: opening decompressor: %w", ErrLoad, err)
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %w", ErrLoad, err)
	}

	if snap.Version != CurrentSnapshotVersion {
		return nil, fmt.Errorf("%w: %w: got %d, want %d (run 'anirec rebuild')",
			ErrLoad, ErrUnsupportedVersion, snap.Version, CurrentSnapshotVersion)
	}
	if !snap.Source.Equal(src) {
		return nil, fmt.Errorf("%w: %w: built from %s, want %s",
			ErrLoad, ErrStaleSnapshot, snap.Source.Key(), src.Key())
	}

	return New(snap.Items, snap.Width)
}
