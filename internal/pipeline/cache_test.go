package pipeline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/capability"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(testAnthropicConfig(), testRates(), testRegistry(), capability.Set{}, new(mockAnthropicClient))
	require.NoError(t, err)
	return p
}

func TestCacheReusesInstance(t *testing.T) {
	t.Parallel()

	c := NewCache(time.Hour)
	builds := 0
	build := func() (*Pipeline, error) {
		builds++
		return newTestPipeline(t), nil
	}

	first, err := c.Get("key", build)
	require.NoError(t, err)
	second, err := c.Get("key", build)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewCache(10 * time.Millisecond)
	build := func() (*Pipeline, error) { return newTestPipeline(t), nil }

	first, err := c.Get("key", build)
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	second, err := c.Get("key", build)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestCacheKeyPerCredential(t *testing.T) {
	t.Parallel()

	c := NewCache(time.Hour)
	build := func() (*Pipeline, error) { return newTestPipeline(t), nil }

	a, err := c.Get(CacheKey("anthropic-1", capability.Credentials{SerperKey: "s1"}), build)
	require.NoError(t, err)
	b, err := c.Get(CacheKey("anthropic-2", capability.Credentials{SerperKey: "s1"}), build)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "primary credential change must not reuse the instance")

	d, err := c.Get(CacheKey("anthropic-1", capability.Credentials{SerperKey: "s2"}), build)
	require.NoError(t, err)
	assert.NotSame(t, a, d)

	again, err := c.Get(CacheKey("anthropic-1", capability.Credentials{SerperKey: "s1"}), build)
	require.NoError(t, err)
	assert.Same(t, a, again)
}

func TestCacheBuildErrorNotCached(t *testing.T) {
	t.Parallel()

	c := NewCache(time.Hour)
	builds := 0

	_, err := c.Get("key", func() (*Pipeline, error) {
		builds++
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	p, err := c.Get("key", func() (*Pipeline, error) {
		builds++
		return newTestPipeline(t), nil
	})
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, 2, builds)
}

func TestCacheConcurrentMissBuildsOnce(t *testing.T) {
	t.Parallel()

	c := NewCache(time.Hour)
	var mu sync.Mutex
	builds := 0
	shared := newTestPipeline(t)
	build := func() (*Pipeline, error) {
		mu.Lock()
		builds++
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		return shared, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.Get("key", build)
			assert.NoError(t, err)
			assert.Same(t, shared, p)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, builds)
}
