package consensus

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/similarity"
)

// hallucinationThreshold is the minimum composite similarity an
// externally supplied normalized address must score against the
// deterministic normalization of the raw address. Below it the external
// value is considered fabricated and discarded.
const hallucinationThreshold = 70.0

// streetAbbreviations maps lowercase street-type abbreviations (already
// stripped of punctuation) to their expanded forms. Covers the Brazilian
// forms the registry emits plus common English ones.
var streetAbbreviations = map[string]string{
	"r":    "rua",
	"av":   "avenida",
	"avn":  "avenida",
	"al":   "alameda",
	"tv":   "travessa",
	"trav": "travessa",
	"pc":   "praca",
	"pca":  "praca",
	"rod":  "rodovia",
	"est":  "estrada",
	"jd":   "jardim",
	"lgo":  "largo",
	"vl":   "vila",
	"st":   "street",
	"ave":  "avenue",
	"rd":   "road",
	"dr":   "drive",
	"blvd": "boulevard",
	"ln":   "lane",
}

// NormalizeAddress applies the deterministic address rule table: generic
// normalization (lowercase, diacritics, punctuation) followed by
// token-wise abbreviation expansion. No external classifier involved, so
// the output is a trustworthy baseline to check classifier output
// against. Idempotent.
func NormalizeAddress(raw string) string {
	tokens := strings.Fields(similarity.Normalize(raw))
	for i, tok := range tokens {
		if full, ok := streetAbbreviations[tok]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

// AddressValidator is the normalized-address variant of the consensus
// shape. On top of the shared pairwise agreement logic it cross-checks
// every externally supplied normalized value against its own
// deterministic normalization of the raw address.
type AddressValidator struct {
	inner *Validator
}

// NewAddressValidator creates an address validator. threshold applies to
// the token-set-dominated address comparisons and is typically lower
// than the name threshold.
func NewAddressValidator(threshold float64) *AddressValidator {
	return &AddressValidator{inner: New("address", threshold)}
}

// Validate resolves the address evidence set. raw is the original,
// unnormalized input address; values are externally supplied normalized
// candidates. External values that fail the hallucination check are
// discarded before consensus, overriding source priority for this case.
func (v *AddressValidator) Validate(raw string, values []model.SourceText) (*model.Decision, error) {
	deterministic := NormalizeAddress(raw)

	var alerts []string
	kept := make([]model.SourceText, 0, len(values)+1)
	for _, sv := range values {
		if strings.TrimSpace(sv.Value) == "" {
			continue
		}
		if deterministic != "" {
			score := similarity.Composite(deterministic, sv.Value)
			if score.Value < hallucinationThreshold {
				alerts = append(alerts, fmt.Sprintf(
					"hallucination suspected: %s address %q scores %.0f against deterministic normalization, discarded",
					sv.Source, sv.Value, score.Value))
				zap.L().Warn("consensus: address hallucination suspected",
					zap.String("source", string(sv.Source)),
					zap.Float64("similarity", score.Value),
				)
				continue
			}
		}
		kept = append(kept, sv)
	}

	if deterministic != "" {
		kept = append(kept, model.SourceText{Source: model.SourceDeterministic, Value: deterministic})
	}

	decision, err := v.inner.Validate(kept)
	if err != nil {
		return nil, err
	}
	decision.Alerts = append(decision.Alerts, alerts...)
	return decision, nil
}
