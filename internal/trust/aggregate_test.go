package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullComponents() []Component {
	w := DefaultWeights()
	return []Component{
		NewComponent(ComponentName, 100, w.Name),
		NewComponent(ComponentAddress, 100, w.Address),
		NewComponent(ComponentCoordinates, 100, w.Coordinates),
		NewComponent(ComponentCategory, 100, w.Category),
		NewComponent(ComponentRegistryFound, 100, w.RegistryFound),
		NewComponent(ComponentRegistryActive, 100, w.RegistryActive),
	}
}

func TestAggregate_PerfectScore(t *testing.T) {
	got := Aggregate(fullComponents(), DefaultWatermarks())

	assert.Equal(t, 100, got.Overall)
	assert.Equal(t, CategoryExcellent, got.Category)
	assert.False(t, got.NeedsReview)
	assert.Empty(t, got.Alerts)
}

func TestAggregate_Deterministic(t *testing.T) {
	components := []Component{
		NewComponent(ComponentName, 85, 20),
		NewComponent(ComponentAddress, 60, 20),
		NewComponent(ComponentCoordinates, 75, 20),
	}

	first := Aggregate(components, DefaultWatermarks())
	second := Aggregate(components, DefaultWatermarks())
	assert.Equal(t, first, second)
}

func TestAggregate_AbsentComponentsRenormalize(t *testing.T) {
	// Only name and address present: both at 80 must average to 80, not
	// be diluted by the absent components' weights.
	components := []Component{
		NewComponent(ComponentName, 80, 20),
		NewComponent(ComponentAddress, 80, 20),
	}
	got := Aggregate(components, DefaultWatermarks())
	assert.Equal(t, 80, got.Overall)
}

func TestAggregate_CategoryBands(t *testing.T) {
	w := Watermarks{Default: 0}
	mk := func(conf float64) []Component {
		return []Component{NewComponent(ComponentName, conf, 100)}
	}

	assert.Equal(t, CategoryExcellent, Aggregate(mk(90), w).Category)
	assert.Equal(t, CategoryGood, Aggregate(mk(89), w).Category)
	assert.Equal(t, CategoryGood, Aggregate(mk(70), w).Category)
	assert.Equal(t, CategoryMedium, Aggregate(mk(69), w).Category)
	assert.Equal(t, CategoryMedium, Aggregate(mk(50), w).Category)
	assert.Equal(t, CategoryLow, Aggregate(mk(49), w).Category)
}

func TestAggregate_MediumAlwaysNeedsReview(t *testing.T) {
	got := Aggregate([]Component{NewComponent(ComponentName, 60, 100)}, Watermarks{Default: 0})
	assert.Equal(t, CategoryMedium, got.Category)
	assert.True(t, got.NeedsReview)
}

func TestAggregate_RegistryNotFoundForcesReview(t *testing.T) {
	components := fullComponents()
	// Registry lookup came back not-found.
	components[4] = NewComponent(ComponentRegistryFound, 0, DefaultWeights().RegistryFound)

	got := Aggregate(components, DefaultWatermarks())

	// Overall stays high, but review is mandatory.
	assert.GreaterOrEqual(t, got.Overall, 70)
	assert.True(t, got.NeedsReview)
	require.NotEmpty(t, got.Alerts)
	assert.Contains(t, got.Alerts[0], "registry_found")
	assert.NotEmpty(t, got.Recommendations)
}

func TestAggregate_WatermarkAlertTemplates(t *testing.T) {
	got := Aggregate([]Component{
		NewComponent(ComponentAddress, 40, 100),
	}, DefaultWatermarks())

	require.Len(t, got.Alerts, 1)
	assert.Equal(t, "address confidence 40 is below its watermark 50", got.Alerts[0])
	require.Len(t, got.Recommendations, 1)
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, DefaultWatermarks())
	assert.Equal(t, 0, got.Overall)
	assert.Equal(t, CategoryLow, got.Category)
	assert.True(t, got.NeedsReview)
}

func TestNewComponent_Contribution(t *testing.T) {
	c := NewComponent(ComponentName, 85, 20)
	assert.InDelta(t, 17.0, c.Contribution, 0.001)
}

func TestWeights_SumTo100(t *testing.T) {
	w := DefaultWeights()
	sum := w.Name + w.Address + w.Coordinates + w.Category + w.RegistryFound + w.RegistryActive
	assert.Equal(t, 100.0, sum)
}
