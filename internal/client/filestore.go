package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// FileStore holds files reconstructed from large-file transfers. Completed
// files are written under the downloads directory and kept in an in-memory
// cache so repeat lookups within a session avoid refetching from the server.
type FileStore struct {
	cache *gocache.Cache
	dir   string
}

// NewFileStore returns a store writing to dir. A zero ttl keeps cached
// entries for the life of the session.
func NewFileStore(dir string, ttl time.Duration) *FileStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &FileStore{
		cache: gocache.New(ttl, 10*time.Minute),
		dir:   dir,
	}
}

// Put records a completed file, writing it to disk when the store has a
// directory configured.
func (f *FileStore) Put(file *packets.CompletedFile) error {
	f.cache.Set(file.Filename, file.Data, gocache.DefaultExpiration)

	if f.dir == "" {
		return nil
	}

	path := filepath.Join(f.dir, sanitizeFilename(file.Filename))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

// Get fetches a file's contents from the cache, with map-like semantics.
func (f *FileStore) Get(filename string) ([]byte, bool) {
	v, ok := f.cache.Get(filename)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// sanitizeFilename strips path components so a hostile server can't write
// outside the downloads directory.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return filepath.Base(name)
}
