package annotate

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// countingAnnotator wraps Builtin and counts external invocations.
type countingAnnotator struct {
	inner   *Builtin
	calls   atomic.Int64
	version string
	delay   time.Duration
	fail    error
}

func (c *countingAnnotator) Annotate(ctx context.Context, text string) ([]document.Sentence, error) {
	c.calls.Add(1)
	if c.fail != nil {
		return nil, c.fail
	}
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.inner.Annotate(ctx, text)
}

func (c *countingAnnotator) Version() string { return c.version }

func newCounting() *countingAnnotator {
	return &countingAnnotator{inner: NewBuiltin(), version: "test/1"}
}

func TestCacheHitSkipsAnnotator(t *testing.T) {
	cache, err := OpenCache(CacheOptions{Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)
	defer cache.Close()

	ann := newCounting()
	text := "John left yesterday."

	first, err := cache.Annotate(context.Background(), ann, text)
	require.NoError(t, err)
	second, err := cache.Annotate(context.Background(), ann, text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), ann.calls.Load())
}

func TestCacheCoalescesConcurrentMisses(t *testing.T) {
	cache, err := OpenCache(CacheOptions{})
	require.NoError(t, err)
	defer cache.Close()

	ann := newCounting()
	ann.delay = 20 * time.Millisecond
	text := "Concurrent annotation requests must coalesce."

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Annotate(context.Background(), ann, text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ann.calls.Load(), "duplicate in-flight requests must not re-invoke the annotator")
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	text := "Persisted annotations survive a restart."

	cache, err := OpenCache(CacheOptions{Path: path})
	require.NoError(t, err)
	ann := newCounting()
	_, err = cache.Annotate(context.Background(), ann, text)
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	reopened, err := OpenCache(CacheOptions{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Annotate(context.Background(), ann, text)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ann.calls.Load())
}

func TestCacheKeyIncludesAnnotatorVersion(t *testing.T) {
	cache, err := OpenCache(CacheOptions{})
	require.NoError(t, err)
	defer cache.Close()

	text := "Version changes invalidate cached output."
	v1 := newCounting()
	v2 := newCounting()
	v2.version = "test/2"

	_, err = cache.Annotate(context.Background(), v1, text)
	require.NoError(t, err)
	_, err = cache.Annotate(context.Background(), v2, text)
	require.NoError(t, err)

	assert.Equal(t, int64(1), v1.calls.Load())
	assert.Equal(t, int64(1), v2.calls.Load())
}

func TestCacheWrapsAnnotatorFailure(t *testing.T) {
	cache, err := OpenCache(CacheOptions{})
	require.NoError(t, err)
	defer cache.Close()

	ann := newCounting()
	ann.fail = errors.New("corenlp unreachable")

	_, err = cache.Annotate(context.Background(), ann, "any text")
	require.Error(t, err)
	assert.True(t, errors.IsAnnotationError(err))
}

func TestCacheTimeoutIsAnnotationError(t *testing.T) {
	cache, err := OpenCache(CacheOptions{Timeout: 10 * time.Millisecond})
	require.NoError(t, err)
	defer cache.Close()

	ann := newCounting()
	ann.delay = 200 * time.Millisecond

	_, err = cache.Annotate(context.Background(), ann, "slow annotator")
	require.Error(t, err)
	assert.True(t, errors.IsAnnotationError(err))
}

func TestCacheEvictOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenCache(CacheOptions{Path: path})
	require.NoError(t, err)
	defer cache.Close()

	v1 := newCounting()
	v2 := newCounting()
	v2.version = "test/2"

	_, err = cache.Annotate(context.Background(), v1, "first text")
	require.NoError(t, err)
	_, err = cache.Annotate(context.Background(), v2, "second text")
	require.NoError(t, err)

	evicted, err := cache.EvictOtherVersions("test/2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), evicted)

	_, persisted, err := cache.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), persisted)
}

func TestCacheClear(t *testing.T) {
	cache, err := OpenCache(CacheOptions{})
	require.NoError(t, err)
	defer cache.Close()

	ann := newCounting()
	_, err = cache.Annotate(context.Background(), ann, "to be cleared")
	require.NoError(t, err)

	require.NoError(t, cache.Clear())

	memory, _, err := cache.Stats()
	require.NoError(t, err)
	assert.Zero(t, memory)
}
