// Package consensus validates free-text entity attributes (trade name,
// normalized address, business category) by cross-checking the values
// independent sources reported and resolving them to a single value with
// a confidence score and a rationale.
package consensus

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/similarity"
)

// Confidence values per agreement situation.
const (
	confConsensus    = 100
	confPartial      = 85
	confNoAgreement  = 50
	confSingleSource = 60
)

// Default similarity thresholds per attribute kind.
const (
	NameThreshold     = 80.0
	TaxonomyThreshold = 80.0
	AddressThreshold  = 60.0
)

// Validator is the shared consensus shape for one textual attribute. All
// three attribute kinds are this validator with a different attribute
// name and threshold; name and taxonomy use it directly.
type Validator struct {
	attribute string
	threshold float64
}

// New creates a consensus validator for the named attribute. threshold is
// the composite similarity two values must reach to count as agreeing.
func New(attribute string, threshold float64) *Validator {
	return &Validator{attribute: attribute, threshold: threshold}
}

// Validate resolves the evidence set for this attribute. Blank values are
// treated as absent. Zero usable values fail with ErrNoEvidence.
func (v *Validator) Validate(values []model.SourceText) (*model.Decision, error) {
	present := make([]model.SourceText, 0, len(values))
	for _, sv := range values {
		if strings.TrimSpace(sv.Value) != "" {
			present = append(present, sv)
		}
	}

	switch len(present) {
	case 0:
		return nil, model.ErrNoEvidence
	case 1:
		return &model.Decision{
			Attribute:  v.attribute,
			Value:      present[0].Value,
			Confidence: confSingleSource,
			Source:     present[0].Source,
			Rationale:  "single source, unverified",
		}, nil
	}
	return v.resolve(present), nil
}

// pair records one pairwise comparison of the evidence set.
type pair struct {
	a, b   model.SourceText
	score  similarity.Score
	agrees bool
}

// resolve cross-checks every pair of values and applies the agreement
// bands.
func (v *Validator) resolve(values []model.SourceText) *model.Decision {
	var pairs []pair
	agreements := 0
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			score := similarity.Composite(values[i].Value, values[j].Value)
			p := pair{a: values[i], b: values[j], score: score, agrees: score.Value >= v.threshold}
			if p.agrees {
				agreements++
			}
			pairs = append(pairs, p)
		}
	}

	switch {
	case agreements == len(pairs):
		return v.fullConsensus(values)
	case agreements > 0:
		return v.partialConsensus(values, pairs)
	default:
		return v.noConsensus(values, pairs)
	}
}

// fullConsensus: every pair agrees. Resolve to the longest value, which
// is usually the most complete form (legal name with suffix, address
// with unit number).
func (v *Validator) fullConsensus(values []model.SourceText) *model.Decision {
	best := values[0]
	for _, sv := range values[1:] {
		if len(sv.Value) > len(best.Value) {
			best = sv
		} else if len(sv.Value) == len(best.Value) && model.MorePreferred(sv.Source, best.Source) {
			best = sv
		}
	}
	return &model.Decision{
		Attribute:  v.attribute,
		Value:      best.Value,
		Confidence: confConsensus,
		Source:     model.SourceConsensus,
		Rationale:  fmt.Sprintf("%d sources agree", len(values)),
	}
}

// partialConsensus: some pairs agree. Resolve to the highest-priority
// source participating in an agreeing pair; sources outside every
// agreeing pair are recorded as outliers.
func (v *Validator) partialConsensus(values []model.SourceText, pairs []pair) *model.Decision {
	agreeing := make(map[model.SourceID]model.SourceText)
	for _, p := range pairs {
		if p.agrees {
			agreeing[p.a.Source] = p.a
			agreeing[p.b.Source] = p.b
		}
	}

	var winner *model.SourceText
	for _, sv := range values {
		member, ok := agreeing[sv.Source]
		if !ok {
			continue
		}
		if winner == nil || model.MorePreferred(member.Source, winner.Source) {
			m := member
			winner = &m
		}
	}

	var divergences []string
	for _, sv := range values {
		if _, ok := agreeing[sv.Source]; !ok {
			divergences = append(divergences,
				fmt.Sprintf("%s disagrees with the agreeing sources (%q)", sv.Source, sv.Value))
		}
	}

	return &model.Decision{
		Attribute:   v.attribute,
		Value:       winner.Value,
		Confidence:  confPartial,
		Source:      winner.Source,
		Rationale:   fmt.Sprintf("partial agreement, using %s", winner.Source),
		Divergences: divergences,
	}
}

// noConsensus: no pair agrees. Fall back to the highest-priority value
// and flag the attribute for mandatory review.
func (v *Validator) noConsensus(values []model.SourceText, pairs []pair) *model.Decision {
	best := values[0]
	for _, sv := range values[1:] {
		if model.MorePreferred(sv.Source, best.Source) {
			best = sv
		}
	}

	var divergences []string
	for _, p := range pairs {
		divergences = append(divergences,
			fmt.Sprintf("%s and %s disagree (%s similarity %.0f)", p.a.Source, p.b.Source, p.score.Method, p.score.Value))
	}

	zap.L().Debug("consensus: no sources agree",
		zap.String("attribute", v.attribute),
		zap.Int("sources", len(values)),
	)

	return &model.Decision{
		Attribute:   v.attribute,
		Value:       best.Value,
		Confidence:  confNoAgreement,
		Source:      best.Source,
		Rationale:   fmt.Sprintf("no sources agree, using %s", best.Source),
		Divergences: divergences,
		Alerts:      []string{fmt.Sprintf("no sources agree on %s, flagged for review", v.attribute)},
	}
}
