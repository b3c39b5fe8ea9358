// Package storecache keeps the account's store list on disk so commands
// that only need store names do not have to log in.
package storecache

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"t4auto/internal/domain"
)

// DefaultTTL is how long a fetched store list stays valid.
const DefaultTTL = 24 * time.Hour

// Cache is a file-backed store list cache, one file per back office and
// account.
type Cache struct {
	dir string
	ttl time.Duration
}

// New returns a cache rooted at dir. A non-positive ttl disables reads.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return New(defaultDir(), DefaultTTL)
}

// Get returns the cached stores for the account. A miss (absent, expired
// or unreadable entry) returns ok == false with a nil error.
func (c *Cache) Get(baseURL, username string) ([]domain.Store, bool, error) {
	if c == nil || c.dir == "" || c.ttl <= 0 {
		return nil, false, nil
	}

	path := c.pathFor(baseURL, username)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if time.Now().After(info.ModTime().Add(c.ttl)) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	var stores []domain.Store
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, false, nil
	}
	return stores, true, nil
}

// Put replaces the cached stores for the account.
func (c *Cache) Put(baseURL, username string, stores []domain.Store) error {
	if c == nil || c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(stores)
	if err != nil {
		return err
	}

	key := cacheKey(baseURL, username)
	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, c.pathFor(baseURL, username))
}

// Invalidate removes the account's entry.
func (c *Cache) Invalidate(baseURL, username string) error {
	if c == nil || c.dir == "" {
		return nil
	}

	err := os.Remove(c.pathFor(baseURL, username))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *Cache) pathFor(baseURL, username string) string {
	return filepath.Join(c.dir, cacheKey(baseURL, username)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "t4auto")
}

// cacheKey builds a file-name-safe key such as
// "stores-t4australia_redcatcloud_com_au-ops_example_com".
func cacheKey(baseURL, username string) string {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return "stores-" + sanitize(host) + "-" + sanitize(strings.ToLower(username))
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "default"
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
