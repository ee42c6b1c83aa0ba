// Package resolver orchestrates the per-entity consensus run: it fans the
// evidence bundle out to the attribute and coordinate validators, joins
// their decisions, and aggregates them into one trust verdict.
package resolver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/consensus-cli/internal/consensus"
	"github.com/sells-group/consensus-cli/internal/geoconsensus"
	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/trust"
)

// Config carries the thresholds and weight tables for one resolver. No
// process-wide singletons: every knob arrives here explicitly.
type Config struct {
	NameThreshold     float64          `yaml:"name_threshold" mapstructure:"name_threshold"`
	AddressThreshold  float64          `yaml:"address_threshold" mapstructure:"address_threshold"`
	TaxonomyThreshold float64          `yaml:"taxonomy_threshold" mapstructure:"taxonomy_threshold"`
	PrimaryGeocoder   model.SourceID   `yaml:"primary_geocoder" mapstructure:"primary_geocoder"`
	Weights           trust.Weights    `yaml:"weights" mapstructure:"weights"`
	Watermarks        trust.Watermarks `yaml:"watermarks" mapstructure:"watermarks"`
}

// DefaultConfig returns the standard thresholds and weights.
func DefaultConfig() Config {
	return Config{
		NameThreshold:     consensus.NameThreshold,
		AddressThreshold:  consensus.AddressThreshold,
		TaxonomyThreshold: consensus.TaxonomyThreshold,
		PrimaryGeocoder:   model.SourceGeocoderA,
		Weights:           trust.DefaultWeights(),
		Watermarks:        trust.DefaultWatermarks(),
	}
}

// Resolver runs the consensus engine for one entity at a time. Stateless:
// many goroutines may share one Resolver.
type Resolver struct {
	name     *consensus.Validator
	address  *consensus.AddressValidator
	taxonomy *consensus.TaxonomyValidator
	geo      *geoconsensus.Validator

	weights    trust.Weights
	watermarks trust.Watermarks
	metrics    *Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithGeoValidator replaces the coordinate validator, e.g. to inject a
// different region table.
func WithGeoValidator(v *geoconsensus.Validator) Option {
	return func(r *Resolver) { r.geo = v }
}

// New creates a resolver. A nil catalog uses the built-in taxonomy table.
func New(cfg Config, catalog *consensus.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		name:       consensus.New("name", cfg.NameThreshold),
		address:    consensus.NewAddressValidator(cfg.AddressThreshold),
		taxonomy:   consensus.NewTaxonomyValidator(cfg.TaxonomyThreshold, catalog),
		geo:        geoconsensus.NewValidator(cfg.PrimaryGeocoder),
		weights:    cfg.Weights,
		watermarks: cfg.Watermarks,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the four validators concurrently over a fixed snapshot of
// the bundle, joins them, and aggregates the trust verdict. A failing
// attribute degrades to a placeholder decision and never aborts its
// siblings; aggregation happens once, after every validator finished.
func (r *Resolver) Resolve(ctx context.Context, bundle model.EvidenceBundle) (*model.ResolvedEntity, *trust.Result, error) {
	start := time.Now()
	entity := &model.ResolvedEntity{
		ResolutionID: uuid.New().String(),
		EntityID:     bundle.EntityID,
	}
	log := zap.L().With(
		zap.String("resolution_id", entity.ResolutionID),
		zap.String("entity_id", bundle.EntityID),
	)

	// Fan-out: each goroutine owns exactly one field of entity, so the
	// join is the only synchronization needed.
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		decision, err := r.name.Validate(bundle.Names)
		if err != nil {
			entity.Name = placeholder("name", err)
			return nil
		}
		entity.Name = decision
		return nil
	})

	g.Go(func() error {
		decision, err := r.address.Validate(bundle.RawAddress, bundle.Addresses)
		if err != nil {
			entity.Address = placeholder("address", err)
			return nil
		}
		entity.Address = decision
		return nil
	})

	g.Go(func() error {
		decision, err := r.taxonomy.Validate(bundle.Categories)
		if err != nil {
			entity.Category = placeholder("category", err)
			return nil
		}
		entity.Category = decision
		return nil
	})

	g.Go(func() error {
		decision, err := r.geo.Validate(bundle.Points, bundle.Region)
		if err != nil {
			entity.Location = geoPlaceholder(err)
			return nil
		}
		entity.Location = decision
		return nil
	})

	// Validator errors degrade in place; the group never carries one.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Join barrier passed: aggregate once over the completed snapshot.
	result := trust.Aggregate(r.components(entity, bundle.Registry), r.watermarks)

	log.Info("resolver: entity resolved",
		zap.Int("overall", result.Overall),
		zap.String("trust", string(result.Category)),
		zap.Bool("needs_review", result.NeedsReview),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	r.metrics.ObserveOutcome(string(result.Category), result.NeedsReview, time.Since(start))

	return entity, &result, nil
}

// components builds the trust inputs from the exact decisions being
// returned, never from recomputed or stale evidence. Attributes that
// degraded to a placeholder contribute no component: absent evidence
// means absent component, not a zero score.
func (r *Resolver) components(entity *model.ResolvedEntity, registry *model.RegistrySignal) []trust.Component {
	var components []trust.Component

	if d := entity.Name; d != nil && d.Confidence > 0 {
		components = append(components, trust.NewComponent(trust.ComponentName, float64(d.Confidence), r.weights.Name))
	}
	if d := entity.Address; d != nil && d.Confidence > 0 {
		components = append(components, trust.NewComponent(trust.ComponentAddress, float64(d.Confidence), r.weights.Address))
	}
	if d := entity.Location; d != nil && d.Confidence > 0 {
		components = append(components, trust.NewComponent(trust.ComponentCoordinates, float64(d.Confidence), r.weights.Coordinates))
	}
	if d := entity.Category; d != nil && d.Confidence > 0 {
		components = append(components, trust.NewComponent(trust.ComponentCategory, float64(d.Confidence), r.weights.Category))
	}

	if registry != nil {
		components = append(components,
			trust.NewComponent(trust.ComponentRegistryFound, boolConfidence(registry.Found), r.weights.RegistryFound),
			trust.NewComponent(trust.ComponentRegistryActive, boolConfidence(registry.Active), r.weights.RegistryActive),
		)
	}
	return components
}

// placeholder is the minimal-confidence decision recorded when an
// attribute's validator failed.
func placeholder(attribute string, err error) *model.Decision {
	return &model.Decision{
		Attribute:   attribute,
		Confidence:  0,
		Rationale:   "validation failed",
		Divergences: []string{err.Error()},
	}
}

func geoPlaceholder(err error) *model.GeoDecision {
	return &model.GeoDecision{
		Confidence:  0,
		Rationale:   "validation failed",
		Divergences: []string{err.Error()},
	}
}

func boolConfidence(ok bool) float64 {
	if ok {
		return 100
	}
	return 0
}
