package annotate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/teranos/tempex/db"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// CacheOptions configures the annotation cache.
type CacheOptions struct {
	// Path is the sqlite database file. Empty keeps the cache in memory
	// only (useful for tests and one-shot runs).
	Path string

	// Timeout bounds a single external annotator call. Zero means no bound.
	Timeout time.Duration

	// RateLimit caps annotator invocations per second. Zero means no cap.
	// Cache hits are never limited.
	RateLimit rate.Limit

	Logger *zap.SugaredLogger
}

// Cache stores annotator output keyed by (annotator version, content hash).
//
// Lookups are concurrent; population is coalesced per key with singleflight,
// so two in-flight requests for the same text invoke the annotator once. The
// cache owns its lifecycle: open it at pipeline start, close it at batch end.
type Cache struct {
	conn    *sql.DB // nil when memory-only
	timeout time.Duration
	limiter *rate.Limiter
	log     *zap.SugaredLogger

	group singleflight.Group

	mu  sync.RWMutex
	mem map[string][]document.Sentence
}

// OpenCache opens (and migrates, if needed) the annotation cache.
func OpenCache(opts CacheOptions) (*Cache, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Cache{
		timeout: opts.Timeout,
		log:     log,
		mem:     make(map[string][]document.Sentence),
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(opts.RateLimit, 1)
	}
	if opts.Path != "" {
		conn, err := db.Open(opts.Path, log)
		if err != nil {
			return nil, errors.Wrap(err, "open annotation cache")
		}
		if err := db.Migrate(conn, log); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "migrate annotation cache")
		}
		c.conn = conn
	}
	return c, nil
}

// Close releases the underlying database, if any.
func (c *Cache) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Key builds the cache key for an annotator version and document text.
func Key(version, text string) string {
	return version + ":" + contentHash(text)
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Annotate returns annotated sentences for text, invoking the annotator only
// on a cache miss. Annotator failures and timeouts come back wrapped as
// errors.ErrAnnotation.
func (c *Cache) Annotate(ctx context.Context, ann Annotator, text string) ([]document.Sentence, error) {
	key := Key(ann.Version(), text)

	if sents, ok := c.memGet(key); ok {
		c.log.Debugw("Annotation cache hit", "cache_key", key, "layer", "memory")
		return sents, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// Re-check memory: a previous flight may have landed between the
		// miss and acquiring the flight.
		if sents, ok := c.memGet(key); ok {
			return sents, nil
		}
		if c.conn != nil {
			sents, ok, err := c.dbGet(key)
			if err != nil {
				return nil, err
			}
			if ok {
				c.memPut(key, sents)
				c.log.Debugw("Annotation cache hit", "cache_key", key, "layer", "sqlite")
				return sents, nil
			}
		}
		sents, err := c.invoke(ctx, ann, text)
		if err != nil {
			return nil, err
		}
		c.memPut(key, sents)
		if c.conn != nil {
			if err := c.dbPut(key, ann.Version(), contentHash(text), sents); err != nil {
				// Persisting is best-effort; the result is still valid.
				c.log.Warnw("Failed to persist annotation", "cache_key", key, "error", err)
			}
		}
		return sents, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debugw("Annotation coalesced with in-flight request", "cache_key", key)
	}
	return v.([]document.Sentence), nil
}

// invoke calls the external annotator under the configured rate limit and
// timeout.
func (c *Cache) invoke(ctx context.Context, ann Annotator, text string) ([]document.Sentence, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.WrapAnnotation(err, "waiting for annotator slot")
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	sents, err := ann.Annotate(ctx, text)
	if err != nil {
		return nil, errors.WrapAnnotation(err, "external annotator")
	}
	return sents, nil
}

func (c *Cache) memGet(key string) ([]document.Sentence, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sents, ok := c.mem[key]
	return sents, ok
}

func (c *Cache) memPut(key string, sents []document.Sentence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[key] = sents
}

func (c *Cache) dbGet(key string) ([]document.Sentence, bool, error) {
	var blob []byte
	err := c.conn.QueryRow("SELECT sentences FROM annotations WHERE cache_key = ?", key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "query annotation cache")
	}
	var sents []document.Sentence
	if err := json.Unmarshal(blob, &sents); err != nil {
		return nil, false, errors.Wrap(err, "decode cached annotation")
	}
	return sents, true, nil
}

func (c *Cache) dbPut(key, version, hash string, sents []document.Sentence) error {
	blob, err := json.Marshal(sents)
	if err != nil {
		return errors.Wrap(err, "encode annotation")
	}
	_, err = c.conn.Exec(
		"INSERT OR REPLACE INTO annotations (cache_key, annotator_version, text_hash, sentences) VALUES (?, ?, ?, ?)",
		key, version, hash, blob)
	return errors.Wrap(err, "persist annotation")
}

// EvictOtherVersions drops persisted entries produced by annotator versions
// other than current. Call after an annotator upgrade.
func (c *Cache) EvictOtherVersions(current string) (int64, error) {
	c.mu.Lock()
	for key := range c.mem {
		if len(key) < len(current)+1 || key[:len(current)+1] != current+":" {
			delete(c.mem, key)
		}
	}
	c.mu.Unlock()

	if c.conn == nil {
		return 0, nil
	}
	res, err := c.conn.Exec("DELETE FROM annotations WHERE annotator_version != ?", current)
	if err != nil {
		return 0, errors.Wrap(err, "evict stale annotations")
	}
	return res.RowsAffected()
}

// Clear drops every cached entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = make(map[string][]document.Sentence)
	c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	_, err := c.conn.Exec("DELETE FROM annotations")
	return errors.Wrap(err, "clear annotation cache")
}

// Stats reports cache sizes: in-memory entries and persisted rows.
func (c *Cache) Stats() (memory int, persisted int64, err error) {
	c.mu.RLock()
	memory = len(c.mem)
	c.mu.RUnlock()

	if c.conn == nil {
		return memory, 0, nil
	}
	err = c.conn.QueryRow("SELECT COUNT(*) FROM annotations").Scan(&persisted)
	if err != nil {
		return memory, 0, errors.Wrap(err, "count annotation cache")
	}
	return memory, persisted, nil
}
