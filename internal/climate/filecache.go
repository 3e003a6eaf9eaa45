package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"solar-estimator/internal/model"
)

const cacheFilePrefix = "geo_"

// FileCache keeps one JSON file per place under Dir. Entries never expire
// when TTL is 0. Refresh skips reads but still writes the fresh result.
type FileCache struct {
	Inner   Provider
	Dir     string
	TTL     time.Duration
	Refresh bool
	Metrics MetricsRecorder

	now func() time.Time
}

func NewFileCache(inner Provider, dir string, ttl time.Duration) *FileCache {
	return &FileCache{Inner: inner, Dir: dir, TTL: ttl, now: time.Now}
}

func (c *FileCache) FetchClimate(ctx context.Context, place string) (*model.Climate, error) {
	if c.Inner == nil {
		return nil, fmt.Errorf("file cache inner provider is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := c.Path(place)
	if !c.Refresh {
		if cached, ok := c.read(path); ok {
			c.observe(true)
			if cached.Place == "" {
				cached.Place = place
			}
			return cached, nil
		}
	}
	c.observe(false)

	fresh, err := c.Inner.FetchClimate(ctx, place)
	if err != nil {
		return nil, err
	}
	if err := c.write(path, fresh); err != nil {
		log.Printf("[Climate] Warning: could not write cache %s: %v", path, err)
	}
	return fresh, nil
}

// Path returns the cache file for place.
func (c *FileCache) Path(place string) string {
	return filepath.Join(c.Dir, cacheFilePrefix+SafeName(place)+".json")
}

// Clear removes every cache file and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.Dir, cacheFilePrefix+"*.json"))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *FileCache) read(path string) (*model.Climate, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var f cacheFile
	if err := json.Unmarshal(raw, &f); err != nil {
		log.Printf("[Climate] Ignoring unreadable cache %s: %v", path, err)
		return nil, false
	}
	cached, err := f.toClimate()
	if err != nil {
		log.Printf("[Climate] Ignoring incomplete cache %s: %v", path, err)
		return nil, false
	}
	if c.TTL > 0 {
		// Files without a timestamp have unknown age.
		if cached.FetchedAt.IsZero() || c.clock().Sub(cached.FetchedAt) >= c.TTL {
			return nil, false
		}
	}
	return cached, true
}

func (c *FileCache) write(path string, climate *model.Climate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(toCacheFile(climate), "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (c *FileCache) observe(hit bool) {
	if c.Metrics != nil {
		c.Metrics.ObserveCacheLookup("file", hit)
	}
}

func (c *FileCache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// SafeName maps a place to a file-name token: letters and digits are kept,
// everything else becomes '_'. "Fortaleza, CE" gives "Fortaleza__CE".
func SafeName(place string) string {
	place = strings.TrimSpace(place)
	if place == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range place {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
