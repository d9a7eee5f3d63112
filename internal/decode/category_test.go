package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestClassify_thresholds(t *testing.T) {
	tests := []struct {
		name       string
		ceiling    *float64
		visibility *float64
		want       FlightCategory
	}{
		{"both nil", nil, nil, CategoryUnknown},
		{"clear and high", f(10000), f(10), CategoryVFR},
		{"marginal ceiling", f(3000), f(10), CategoryMFR},
		{"marginal visibility", f(10000), f(5), CategoryMFR},
		{"ifr ceiling", f(900), f(10), CategoryIFR},
		{"ifr visibility", f(10000), f(2.5), CategoryIFR},
		{"lifr ceiling", f(400), f(10), CategoryLIFR},
		{"lifr visibility", f(10000), f(0.5), CategoryLIFR},
		{"visibility only", nil, f(10), CategoryVFR},
		{"ceiling only", f(200), nil, CategoryLIFR},
		{"boundary 500ft", f(500), f(10), CategoryIFR},
		{"boundary 1000ft", f(1000), f(10), CategoryMFR},
		{"boundary 3000ft", f(3000), f(6), CategoryMFR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ceiling, tt.visibility))
		})
	}
}

// Worsening either input must never improve the category.
func TestClassify_monotonic(t *testing.T) {
	ceilings := []float64{20000, 3000, 1000, 500, 200}
	visibilities := []float64{10, 5, 3, 1, 0.25}

	for _, vis := range visibilities {
		prev := 0
		for _, ceil := range ceilings {
			rank := Classify(f(ceil), f(vis)).Rank()
			assert.GreaterOrEqual(t, rank, prev, "ceiling %v visibility %v", ceil, vis)
			prev = rank
		}
	}
	for _, ceil := range ceilings {
		prev := 0
		for _, vis := range visibilities {
			rank := Classify(f(ceil), f(vis)).Rank()
			assert.GreaterOrEqual(t, rank, prev, "ceiling %v visibility %v", ceil, vis)
			prev = rank
		}
	}
}

func TestWorstCategory(t *testing.T) {
	assert.Equal(t, CategoryUnknown, WorstCategory())
	assert.Equal(t, CategoryVFR, WorstCategory(CategoryVFR))
	assert.Equal(t, CategoryLIFR, WorstCategory(CategoryVFR, CategoryLIFR, CategoryMFR))
	assert.Equal(t, CategoryUnknown, WorstCategory(CategoryIFR, CategoryUnknown))
}

func TestExtractConditions_fewIsNotCeiling(t *testing.T) {
	ceiling, vis := ExtractConditions("KLAX 211853Z 25010KT 10SM FEW025 22/14 A3001")

	assert.Nil(t, ceiling)
	require.NotNil(t, vis)
	assert.Equal(t, 10.0, *vis)
	assert.Equal(t, CategoryVFR, ClassifyMETAR("KLAX 211853Z 25010KT 10SM FEW025 22/14 A3001"))
}

func TestExtractConditions_lowCeilingLowVisibility(t *testing.T) {
	raw := "KBOS 211853Z 18015G25KT 1/2SM BKN003 05/03 A2990"
	ceiling, vis := ExtractConditions(raw)

	require.NotNil(t, ceiling)
	assert.Equal(t, 300.0, *ceiling)
	require.NotNil(t, vis)
	assert.Equal(t, 0.5, *vis)
	assert.Equal(t, CategoryLIFR, ClassifyMETAR(raw))
}

func TestExtractConditions_splitVisibility(t *testing.T) {
	_, vis := ExtractConditions("KJFK 211851Z 20008KT 1 1/2SM BKN012 10/08 A2992")

	require.NotNil(t, vis)
	assert.Equal(t, 1.5, *vis)
}

func TestExtractConditions_lowestCeilingWins(t *testing.T) {
	ceiling, _ := ExtractConditions("KSEA 211853Z 18010KT 6SM SCT008 BKN015 OVC025 12/09 A2985")

	require.NotNil(t, ceiling)
	assert.Equal(t, 1500.0, *ceiling)
}

func TestClassifyMETAR_noConditionGroups(t *testing.T) {
	assert.Equal(t, CategoryUnknown, ClassifyMETAR("KLAX 211853Z"))
}
