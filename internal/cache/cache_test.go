package cache

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/consensus-cli/internal/model"
)

// countingClassifier records how many times the upstream was invoked.
type countingClassifier struct {
	calls  int
	result model.ClassifierResult
	err    error
}

func (c *countingClassifier) Classify(context.Context, []byte) (*model.ClassifierResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	result := c.result
	return &result, nil
}

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key([]byte("storefront.jpg bytes")), Key([]byte("storefront.jpg bytes")))
	assert.NotEqual(t, Key([]byte("a")), Key([]byte("b")))
	assert.Len(t, Key(nil), 64)
}

func TestCachedClassifier_MissThenHit(t *testing.T) {
	ctx := context.Background()
	upstream := &countingClassifier{result: model.ClassifierResult{Category: "bakery", Confidence: 0.92}}
	c := NewCachedClassifier(NewMemory(), upstream, "v1")

	got, cached, err := c.Classify(ctx, []byte("input"))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "bakery", got.Category)
	assert.Equal(t, 1, upstream.calls)

	got, cached, err = c.Classify(ctx, []byte("input"))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "bakery", got.Category)
	// Upstream must not be called again for identical bytes.
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedClassifier_DifferentInputsMiss(t *testing.T) {
	ctx := context.Background()
	upstream := &countingClassifier{result: model.ClassifierResult{Category: "bakery"}}
	c := NewCachedClassifier(NewMemory(), upstream, "v1")

	_, _, err := c.Classify(ctx, []byte("one"))
	require.NoError(t, err)
	_, _, err = c.Classify(ctx, []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedClassifier_UpstreamError(t *testing.T) {
	upstream := &countingClassifier{err: eris.New("classifier unavailable")}
	c := NewCachedClassifier(NewMemory(), upstream, "v1")

	_, _, err := c.Classify(context.Background(), []byte("input"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classifier unavailable")
}

func TestCachedClassifier_InvalidateVersion(t *testing.T) {
	ctx := context.Background()
	upstream := &countingClassifier{result: model.ClassifierResult{Category: "bakery"}}
	c := NewCachedClassifier(NewMemory(), upstream, "v1")

	_, _, err := c.Classify(ctx, []byte("input"))
	require.NoError(t, err)

	n, err := c.InvalidateVersion(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Entry is gone: next call goes upstream again.
	_, cached, err := c.Classify(ctx, []byte("input"))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedClassifier_InvalidateCategory(t *testing.T) {
	ctx := context.Background()
	upstream := &countingClassifier{result: model.ClassifierResult{Category: "bakery"}}
	c := NewCachedClassifier(NewMemory(), upstream, "v1")

	_, _, err := c.Classify(ctx, []byte("input"))
	require.NoError(t, err)

	n, err := c.InvalidateCategory(ctx, "bakery")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.InvalidateCategory(ctx, "bakery")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// blindStore reports every Get as a miss, forcing Classify's Put to
// collide with a pre-seeded entry the way a concurrent worker would.
type blindStore struct {
	Store
}

func (b blindStore) Get(context.Context, string) (*Entry, error) { return nil, nil }

func TestCachedClassifier_ConcurrentFillIsNotAnError(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	upstream := &countingClassifier{result: model.ClassifierResult{Category: "bakery"}}
	c := NewCachedClassifier(blindStore{inner}, upstream, "v1")

	key := Key([]byte("input"))
	require.NoError(t, inner.Put(ctx, &Entry{Key: key, Result: model.ClassifierResult{Category: "bakery"}, Version: "v1"}))

	got, cached, err := c.Classify(ctx, []byte("input"))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "bakery", got.Category)
	assert.Equal(t, 1, upstream.calls)
}
