package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/consensus-cli/internal/model"
)

func TestValidate_NoEvidence(t *testing.T) {
	v := New("name", NameThreshold)

	_, err := v.Validate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoEvidence)
}

func TestValidate_BlankValuesAreAbsent(t *testing.T) {
	v := New("name", NameThreshold)

	_, err := v.Validate([]model.SourceText{
		{Source: model.SourceRegistry, Value: "   "},
		{Source: model.SourcePlaceSearch, Value: ""},
	})
	assert.ErrorIs(t, err, model.ErrNoEvidence)
}

func TestValidate_SingleSource(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
	})
	require.NoError(t, err)

	assert.Equal(t, 60, got.Confidence)
	assert.Equal(t, model.SourceOriginalInput, got.Source)
	assert.Equal(t, "single source, unverified", got.Rationale)
}

func TestValidate_FullConsensus(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
		{Source: model.SourceRegistry, Value: "PADARIA SAO JOSE LTDA"},
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, got.Confidence, 85)
	assert.Contains(t, got.Value, "SAO JOSE")
}

func TestValidate_IdenticalAfterNormalization(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
		{Source: model.SourcePlaceSearch, Value: "PADARIA SAO JOSE"},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, got.Confidence)
	assert.Equal(t, model.SourceConsensus, got.Source)
}

func TestValidate_FullConsensus_LongestWins(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
		{Source: model.SourceRegistry, Value: "Padaria São José Ltda"},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, got.Confidence)
	assert.Equal(t, "Padaria São José Ltda", got.Value)
}

func TestValidate_PartialAgreement_PriorityAndOutlier(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
		{Source: model.SourceRegistry, Value: "Padaria Sao Jose"},
		{Source: model.SourcePlaceSearch, Value: "Mercado Central"},
	})
	require.NoError(t, err)

	assert.Equal(t, 85, got.Confidence)
	// Registry is the highest-priority member of the agreeing pair.
	assert.Equal(t, model.SourceRegistry, got.Source)
	require.Len(t, got.Divergences, 1)
	assert.Contains(t, got.Divergences[0], "place_search")
}

func TestValidate_NoAgreement(t *testing.T) {
	v := New("name", NameThreshold)

	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Oficina do Zé"},
		{Source: model.SourceRegistry, Value: "Mercearia Boa Vista"},
		{Source: model.SourcePlaceSearch, Value: "Farmácia Santa Luzia"},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, got.Confidence)
	// Highest-priority available value wins.
	assert.Equal(t, model.SourceRegistry, got.Source)
	assert.Equal(t, "Mercearia Boa Vista", got.Value)
	assert.Len(t, got.Divergences, 3)
	assert.NotEmpty(t, got.Alerts)
}

func TestValidate_EqualPriorityTieBreak(t *testing.T) {
	v := New("coordinates_label", NameThreshold)

	// Geocoder A and B share priority; enum order must break the tie
	// deterministically in favor of geocoder_a.
	got, err := v.Validate([]model.SourceText{
		{Source: model.SourceGeocoderB, Value: "Rua Alfa"},
		{Source: model.SourceGeocoderA, Value: "Rua Beta"},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, got.Confidence)
	assert.Equal(t, model.SourceGeocoderA, got.Source)
}

func TestValidate_DecisionIsFresh(t *testing.T) {
	v := New("name", NameThreshold)
	values := []model.SourceText{
		{Source: model.SourceOriginalInput, Value: "Padaria São José"},
		{Source: model.SourceRegistry, Value: "PADARIA SAO JOSE"},
	}

	first, err := v.Validate(values)
	require.NoError(t, err)
	second, err := v.Validate(values)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
