// Package cache memoizes expensive classifier calls by content hash.
// Byte-identical input never reaches the classifier twice; entries are
// invalidated in bulk when the upstream prompt or model version changes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sells-group/consensus-cli/internal/model"
)

// Entry is one memoized classifier result. The cache exclusively owns
// entries; TimesUsed and LastUsed mutate on every hit, nothing else does.
type Entry struct {
	Key       string                 `json:"key"`
	Result    model.ClassifierResult `json:"result"`
	Version   string                 `json:"version"`
	Category  string                 `json:"category"`
	TimesUsed int                    `json:"times_used"`
	CreatedAt time.Time              `json:"created_at"`
	LastUsed  time.Time              `json:"last_used"`
}

// Stats summarizes cache contents for the maintenance CLI.
type Stats struct {
	Entries   int `json:"entries"`
	TotalHits int `json:"total_hits"`
}

// Store is the persistence interface for cache entries. Implementations
// must be safe for concurrent use; a Get hit must not lose times_used
// increments under concurrency.
type Store interface {
	// Get returns the entry for key, or nil on miss. A hit increments
	// times_used and updates last_used as an observable side effect.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put creates an entry. Returns model.ErrDuplicateKey if the key
	// already exists: callers must Get before Put.
	Put(ctx context.Context, e *Entry) error

	// DeleteByVersion removes all entries created under a retired prompt
	// version and returns the count removed.
	DeleteByVersion(ctx context.Context, version string) (int, error)

	// DeleteByCategory removes all entries whose result category matches
	// and returns the count removed.
	DeleteByCategory(ctx context.Context, category string) (int, error)

	Stats(ctx context.Context) (*Stats, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Key computes the content hash for raw classifier input. SHA-256;
// collision is treated as identity.
func Key(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}
