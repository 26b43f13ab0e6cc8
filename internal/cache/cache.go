// Package cache maps diagram sources to rendered artifacts on disk.
//
// Artifacts live flat in a single directory as {digest}.{ext}. An artifact is
// only ever placed there by an atomic rename once the renderer succeeded, so
// a file at that path is always a complete render and is served without
// invoking the renderer again. Failed renders leave nothing behind and are
// retried by the next Resolve for the same content.
package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezerfernandes/mdprebuild/internal/digest"
	"github.com/ezerfernandes/mdprebuild/internal/logging"
	"github.com/ezerfernandes/mdprebuild/internal/render"
	"github.com/google/renameio"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Entry locates the artifact of one digest.
type Entry struct {
	Digest string
	Path   string
	// Hit is set when the artifact was served without a render by this call.
	Hit    bool
}

// Cache resolves contents to artifacts, rendering on a miss.
// It is safe for concurrent use; at most one render per digest is in flight.
type Cache struct {
	root     string
	ext      string
	renderer render.Renderer
	timeout  time.Duration
	log      logrus.FieldLogger
	flight   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTimeout bounds every render. A render that runs out of time fails.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Cache) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for render events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New returns a cache storing artifacts with extension ext under root.
func New(root, ext string, renderer render.Renderer, opts ...Option) *Cache {
	cache := &Cache{root: root, ext: ext, renderer: renderer, log: logging.Discard()} //nolint:exhaustruct

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Ext returns the artifact file extension, without the dot.
func (c *Cache) Ext() string {
	return c.ext
}

// Path returns where the artifact for key lives. It depends on nothing but
// key and the cache root.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.root, key+"."+c.ext)
}

// Lookup reports the cached artifact for key, if there is one.
func (c *Cache) Lookup(key string) (Entry, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Entry{}, false
	}

	return Entry{Digest: key, Path: path, Hit: true}, true
}

// Resolve returns the artifact for content, rendering it on a cache miss.
//
// The returned error is classified: IsRenderFailure for a renderer that
// failed or timed out, IsIOFailure for cache directory and file errors.
// Either way the entry's Digest is set and nothing is written at its path.
func (c *Cache) Resolve(ctx context.Context, content []byte) (Entry, error) {
	key := digest.Sum(content)

	if entry, ok := c.Lookup(key); ok {
		return entry, nil
	}

	var ran bool

	value, err, _ := c.flight.Do(key, func() (interface{}, error) {
		ran = true

		if entry, ok := c.Lookup(key); ok {
			return entry, nil
		}

		return c.render(ctx, key, content)
	})
	if err != nil {
		return Entry{Digest: key}, err //nolint:exhaustruct
	}

	entry, _ := value.(Entry)
	if !ran {
		entry.Hit = true
	}

	return entry, nil
}

// render runs the renderer inside a private work directory under root and
// moves the result into place, so an interrupted render never leaves a
// partial file at the artifact path.
func (c *Cache) render(ctx context.Context, key string, content []byte) (Entry, error) {
	if err := os.MkdirAll(c.root, dirMode); err != nil {
		return Entry{}, ioFailure(err, "create cache directory")
	}

	work, err := os.MkdirTemp(c.root, ".render-")
	if err != nil {
		return Entry{}, ioFailure(err, "create render directory")
	}

	defer os.RemoveAll(work)

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := filepath.Join(work, key+"."+c.ext)
	start := time.Now()

	if err := c.renderer.Render(ctx, content, out); err != nil {
		return Entry{}, renderFailure(err)
	}

	data, err := os.ReadFile(out)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return Entry{}, renderFailure(errNoOutput)
	}

	if err != nil {
		return Entry{}, ioFailure(err, "read rendered artifact")
	}

	path := c.Path(key)
	if err := renameio.WriteFile(path, data, fileMode); err != nil {
		return Entry{}, ioFailure(err, "store rendered artifact")
	}

	c.log.WithFields(logrus.Fields{
		"digest":   key,
		"path":     path,
		"elapsed":  time.Since(start).Round(time.Millisecond),
		"filesize": len(data),
	}).Debug("rendered artifact")

	return Entry{Digest: key, Path: path}, nil //nolint:exhaustruct
}

var errNoOutput = errors.New("renderer reported success but wrote no output")

// Entries lists the artifacts stored in the cache, in directory order.
// A missing cache directory holds no entries.
func (c *Cache) Entries() ([]Entry, error) {
	dirents, err := os.ReadDir(c.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, ioFailure(err, "read cache directory")
	}

	var entries []Entry

	for _, dirent := range dirents {
		key, ext, found := strings.Cut(dirent.Name(), ".")
		if !found || ext != c.ext || !dirent.Type().IsRegular() || !digest.Valid(key) {
			continue
		}

		entries = append(entries, Entry{Digest: key, Path: c.Path(key), Hit: true})
	}

	return entries, nil
}
