package trust

// Canonical component names.
const (
	ComponentName           = "name"
	ComponentAddress        = "address"
	ComponentCoordinates    = "coordinates"
	ComponentCategory       = "category"
	ComponentRegistryFound  = "registry_found"
	ComponentRegistryActive = "registry_active"
)

// Weights is the process-wide weight table. It must sum to 100 across
// the maximal component set; per-entity aggregation re-normalizes over
// the components actually present.
type Weights struct {
	Name           float64 `yaml:"name" mapstructure:"name"`
	Address        float64 `yaml:"address" mapstructure:"address"`
	Coordinates    float64 `yaml:"coordinates" mapstructure:"coordinates"`
	Category       float64 `yaml:"category" mapstructure:"category"`
	RegistryFound  float64 `yaml:"registry_found" mapstructure:"registry_found"`
	RegistryActive float64 `yaml:"registry_active" mapstructure:"registry_active"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Name:           20,
		Address:        20,
		Coordinates:    20,
		Category:       15,
		RegistryFound:  15,
		RegistryActive: 10,
	}
}

// Of returns the weight for a canonical component name.
func (w Weights) Of(name string) float64 {
	switch name {
	case ComponentName:
		return w.Name
	case ComponentAddress:
		return w.Address
	case ComponentCoordinates:
		return w.Coordinates
	case ComponentCategory:
		return w.Category
	case ComponentRegistryFound:
		return w.RegistryFound
	case ComponentRegistryActive:
		return w.RegistryActive
	default:
		return 0
	}
}

// Watermarks holds per-component review triggers: a component whose
// confidence falls below its watermark forces review regardless of the
// overall score.
type Watermarks struct {
	Default float64            `yaml:"default" mapstructure:"default"`
	PerName map[string]float64 `yaml:"per_name" mapstructure:"per_name"`
}

// DefaultWatermarks returns the standard watermark table. registry_found
// carries a watermark of 100 so a not-found registry lookup (confidence
// 0) is always a review trigger.
func DefaultWatermarks() Watermarks {
	return Watermarks{
		Default: 50,
		PerName: map[string]float64{
			ComponentRegistryFound: 100,
		},
	}
}

// For returns the watermark for a component name.
func (w Watermarks) For(name string) float64 {
	if mark, ok := w.PerName[name]; ok {
		return mark
	}
	return w.Default
}
