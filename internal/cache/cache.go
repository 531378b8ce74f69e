// Package cache provides localized filesystem-based caching for transient download metadata.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/gcourse-cli/gcourse/filesystem"
	"github.com/gcourse-cli/gcourse/where"
)

// manifestTTL keeps resolved segment lists around long enough for retries of
// the same candidate within a session, but not across expiring CDN tokens.
const manifestTTL = 15 * time.Minute

// GenerateKey generates a deterministic SHA-256 hash from a value and namespace pair for use as a cache identifier.
func GenerateKey(value, namespace string) string {
	hash := sha256.Sum256([]byte(namespace + ":" + value))
	return hex.EncodeToString(hash[:])
}

// Read attempts to retrieve and deserialize a cached object if it exists and has not exceeded the TTL.
func Read(key string, ttl time.Duration, target interface{}) bool {
	fs := filesystem.API()
	path := filepath.Join(where.Cache(), key)

	info, err := fs.Stat(path)
	if err != nil || time.Since(info.ModTime()) > ttl {
		return false
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write persists a serializable object to the cache using an atomic file swap to ensure data integrity.
func Write(key string, data interface{}) error {
	fs := filesystem.API()
	path := filepath.Join(where.Cache(), key)
	tmpPath := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(tmpPath, encoded, 0644); err != nil {
		return err
	}
	return fs.Rename(tmpPath, path)
}

// ReadSegments retrieves a cached manifest resolution.
func ReadSegments(manifestURL string) ([]string, bool) {
	var urls []string
	if !Read(GenerateKey(manifestURL, "manifest"), manifestTTL, &urls) {
		return nil, false
	}
	return urls, len(urls) > 0
}

// WriteSegments caches a manifest resolution; failures are ignored since the
// cache is purely an optimization.
func WriteSegments(manifestURL string, urls []string) {
	_ = Write(GenerateKey(manifestURL, "manifest"), urls)
}

// CollectGarbage prunes expired cache entries from the filesystem in the background.
func CollectGarbage() {
	fs := filesystem.API()
	dir := where.Cache()

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if time.Since(entry.ModTime()) > 24*time.Hour {
			_ = fs.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
