package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"texmath/internal/diag"
	"texmath/internal/layout"
	"texmath/internal/markup"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a sha256 cache key over source content and render settings.
type Digest [sha256.Size]byte

// DiskCache хранит сериализованный вывод рендера на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the serialized render output for one source+settings pair.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Source identity
	Path        string
	ContentHash Digest

	// Serialized trees
	Markup string
	Layout string

	// Diagnostic summary (messages only, spans are re-derivable by re-parsing)
	Errors   []string
	Warnings []string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey derives the cache digest for a source under given settings.
// Любое поле настроек, влияющее на вывод, участвует в ключе.
func CacheKey(content []byte, settings Settings) Digest {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	for _, field := range settings.cacheKeyFields() {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	var key Digest
	h.Sum(key[:0])
	return key
}

// NewPayload packs a render result into its cacheable form.
func NewPayload(path string, content []byte, res *RenderResult) *DiskPayload {
	p := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: sha256.Sum256(content),
		Markup:      markup.Serialize(res.Markup),
		Layout:      layout.Serialize(res.Layout),
	}
	for _, d := range res.Bag.Items() {
		if d.Severity >= diag.SevError {
			p.Errors = append(p.Errors, d.Error())
		} else {
			p.Warnings = append(p.Warnings, d.Message)
		}
	}
	return p
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "renders".
	return filepath.Join(c.dir, "renders", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	err = enc.Encode(payload)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A payload with a
// stale schema version counts as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "renders"))
}
