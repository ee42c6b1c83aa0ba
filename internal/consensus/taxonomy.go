package consensus

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/similarity"
)

// maxAlternatives caps the ranked alternative list attached to a
// no-agreement taxonomy decision.
const maxAlternatives = 3

// CatalogEntry is one business category in the injectable taxonomy
// table. Keywords are scored alongside the label.
type CatalogEntry struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// Catalog is an ordered taxonomy table. Order matters: it is the
// deterministic tie-break when two candidates score identically.
type Catalog struct {
	Entries []CatalogEntry `yaml:"categories"`
}

// LoadCatalog reads a taxonomy catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "consensus: read catalog %s", path)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "consensus: parse catalog")
	}
	if len(c.Entries) == 0 {
		return nil, eris.New("consensus: catalog has no categories")
	}
	return &c, nil
}

// DefaultCatalog returns the built-in taxonomy table used when no
// catalog file is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{Entries: []CatalogEntry{
		{ID: "bakery", Label: "Bakery", Keywords: []string{"padaria", "panificadora", "confeitaria"}},
		{ID: "restaurant", Label: "Restaurant", Keywords: []string{"restaurante", "lanchonete", "bar e restaurante"}},
		{ID: "grocery", Label: "Grocery Store", Keywords: []string{"mercado", "mercearia", "supermercado", "minimercado"}},
		{ID: "pharmacy", Label: "Pharmacy", Keywords: []string{"farmacia", "drogaria"}},
		{ID: "clothing", Label: "Clothing Store", Keywords: []string{"loja de roupas", "vestuario", "boutique"}},
		{ID: "hair_salon", Label: "Hair Salon", Keywords: []string{"salao de beleza", "cabeleireiro", "barbearia"}},
		{ID: "auto_repair", Label: "Auto Repair", Keywords: []string{"oficina mecanica", "auto eletrica", "funilaria"}},
		{ID: "hardware", Label: "Hardware Store", Keywords: []string{"material de construcao", "ferragens"}},
		{ID: "pet_shop", Label: "Pet Shop", Keywords: []string{"pet shop", "veterinaria"}},
		{ID: "gym", Label: "Gym", Keywords: []string{"academia", "crossfit", "estudio de pilates"}},
	}}
}

// Suggest scores every catalog entry against the available evidence and
// returns the top candidates descending by score. Ties preserve catalog
// order; zero-score entries are dropped.
func (c *Catalog) Suggest(evidence []model.SourceText, limit int) []model.CategoryCandidate {
	if limit <= 0 {
		limit = maxAlternatives
	}

	candidates := make([]model.CategoryCandidate, 0, len(c.Entries))
	for _, entry := range c.Entries {
		best := 0.0
		for _, sv := range evidence {
			if s := similarity.Composite(entry.Label, sv.Value).Value; s > best {
				best = s
			}
			for _, kw := range entry.Keywords {
				if s := similarity.Composite(kw, sv.Value).Value; s > best {
					best = s
				}
			}
		}
		if best > 0 {
			candidates = append(candidates, model.CategoryCandidate{ID: entry.ID, Label: entry.Label, Score: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// TaxonomyValidator is the category variant of the consensus shape. When
// no two sources agree it additionally ranks catalog alternatives so a
// reviewer starts from scored suggestions instead of raw divergences.
type TaxonomyValidator struct {
	inner   *Validator
	catalog *Catalog
}

// NewTaxonomyValidator creates a taxonomy validator over the given
// catalog. A nil catalog falls back to the built-in table.
func NewTaxonomyValidator(threshold float64, catalog *Catalog) *TaxonomyValidator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &TaxonomyValidator{inner: New("category", threshold), catalog: catalog}
}

// Validate resolves the category evidence set.
func (v *TaxonomyValidator) Validate(values []model.SourceText) (*model.Decision, error) {
	decision, err := v.inner.Validate(values)
	if err != nil {
		return nil, err
	}
	if decision.Confidence == confNoAgreement {
		decision.Alternatives = v.catalog.Suggest(values, maxAlternatives)
	}
	return decision, nil
}
