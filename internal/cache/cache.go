package cache

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/consensus-cli/internal/model"
)

// Classifier is the external vision/text classifier collaborator. The
// engine never talks to it directly; it always goes through the cache.
type Classifier interface {
	Classify(ctx context.Context, input []byte) (*model.ClassifierResult, error)
}

// CachedClassifier fronts a Classifier with content-addressed
// memoization and a rate limiter for the expensive upstream.
type CachedClassifier struct {
	store      Store
	classifier Classifier
	version    string
	limiter    *rate.Limiter
	metrics    *Metrics
}

// Option configures a CachedClassifier.
type Option func(*CachedClassifier)

// WithRateLimit caps upstream classifier calls per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *CachedClassifier) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *CachedClassifier) { c.metrics = m }
}

// NewCachedClassifier wraps classifier with the given store. version
// tags every new entry with the active prompt version so retired
// versions can be invalidated in bulk.
func NewCachedClassifier(store Store, classifier Classifier, version string, opts ...Option) *CachedClassifier {
	c := &CachedClassifier{
		store:      store,
		classifier: classifier,
		version:    version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the memoized result for input, calling the upstream
// classifier only on a miss. The second return reports whether the
// result came from the cache.
func (c *CachedClassifier) Classify(ctx context.Context, input []byte) (*model.ClassifierResult, bool, error) {
	key := Key(input)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: get")
	}
	if entry != nil {
		c.metrics.ObserveHit()
		result := entry.Result
		return &result, true, nil
	}
	c.metrics.ObserveMiss()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, eris.Wrap(err, "cache: rate limit wait")
		}
	}

	result, err := c.classifier.Classify(ctx, input)
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: classify")
	}

	err = c.store.Put(ctx, &Entry{
		Key:      key,
		Result:   *result,
		Version:  c.version,
		Category: result.Category,
	})
	if err != nil {
		if eris.Is(err, model.ErrDuplicateKey) {
			// Another worker filled the entry between our Get and Put.
			zap.L().Debug("cache: concurrent fill", zap.String("key", key))
			return result, false, nil
		}
		return nil, false, eris.Wrap(err, "cache: put")
	}
	return result, false, nil
}

// InvalidateVersion deletes every entry created under a retired prompt
// version and returns the count removed.
func (c *CachedClassifier) InvalidateVersion(ctx context.Context, version string) (int, error) {
	n, err := c.store.DeleteByVersion(ctx, version)
	if err != nil {
		return 0, err
	}
	c.metrics.ObserveInvalidation("version", n)
	zap.L().Info("cache: invalidated by version",
		zap.String("version", version),
		zap.Int("removed", n),
	)
	return n, nil
}

// InvalidateCategory deletes every entry whose result category matches
// and returns the count removed.
func (c *CachedClassifier) InvalidateCategory(ctx context.Context, category string) (int, error) {
	n, err := c.store.DeleteByCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	c.metrics.ObserveInvalidation("category", n)
	zap.L().Info("cache: invalidated by category",
		zap.String("category", category),
		zap.Int("removed", n),
	)
	return n, nil
}
