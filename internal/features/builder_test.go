package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferc1-etl/internal/plants"
)

func record(id string, year int, respondent int, name string) plants.Record {
	return plants.Record{
		RecordID:         id,
		ReportYear:       year,
		RespondentID:     respondent,
		PlantName:        name,
		PlantType:        "steam",
		ConstructionType: "outdoor",
		CapacityMW:       100,
		ConstructionYear: 1970,
	}
}

func testTable() *plants.Table {
	return &plants.Table{
		Name: "plants_steam",
		Records: []plants.Record{
			record("2010_1_0_1", 2010, 1, "riverside plant"),
			record("2011_1_0_1", 2011, 1, "riverside plant"),
			record("2010_2_0_1", 2010, 2, "big sandy"),
		},
	}
}

func cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

func TestIdenticalRecordsGetIdenticalVectors(t *testing.T) {
	vecs, err := NewBuilder(DefaultConfig()).FitTransform(testTable())
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	assert.InDelta(t, 1.0, cosine(vecs[0], vecs[1]), 1e-12,
		"same name, type and utility must be maximally similar")
	assert.Less(t, cosine(vecs[0], vecs[2]), 0.75,
		"different plants must fall below the similarity floor")
}

func TestUnseenCategoryEncodesAsZeros(t *testing.T) {
	table := testTable()
	b := NewBuilder(DefaultConfig())
	_, err := b.FitTransform(table)
	require.NoError(t, err)

	novel := record("2012_9_0_1", 2012, 99, "riverside plant")
	novel.PlantType = "antimatter"
	novel.ConstructionType = "underwater"
	novel.ConstructionYear = 1844

	vecs, err := b.Transform([]plants.Record{novel})
	require.NoError(t, err)
	require.Len(t, vecs, 1)

	// The record still featurizes (name block is populated) and nothing
	// errored on the unseen categories.
	assert.NotEmpty(t, vecs[0].Indices)
}

func TestMissingConstructionYearIsOwnCategory(t *testing.T) {
	table := testTable()
	table.Records[2].ConstructionYear = plants.MissingYear

	b := NewBuilder(DefaultConfig())
	vecs, err := b.FitTransform(table)
	require.NoError(t, err)

	// A second record with a missing year must land on the same category
	// column as the first, not error out or encode as nothing.
	probe := record("2012_2_0_1", 2012, 2, "big sandy")
	probe.ConstructionYear = plants.MissingYear
	pvecs, err := b.Transform([]plants.Record{probe})
	require.NoError(t, err)

	assert.Greater(t, cosine(vecs[2], pvecs[0]), 0.9)
}

func TestTransformDeterminism(t *testing.T) {
	table := testTable()

	first, err := NewBuilder(DefaultConfig()).FitTransform(table)
	require.NoError(t, err)
	second, err := NewBuilder(DefaultConfig()).FitTransform(table)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestWeightsScaleBlocks(t *testing.T) {
	cfg := DefaultConfig()
	base, err := NewBuilder(cfg).FitTransform(testTable())
	require.NoError(t, err)

	cfg.Weights.PlantName = 4.0
	heavy, err := NewBuilder(cfg).FitTransform(testTable())
	require.NoError(t, err)

	// The name block is l2-normalized before weighting, so its first
	// entry doubles exactly when the weight doubles.
	assert.InDelta(t, base[0].Values[0]*2, heavy[0].Values[0], 1e-12)
}

func TestCapacityScalingIsSignAfterNormalization(t *testing.T) {
	table := testTable()
	table.Records[0].CapacityMW = 10
	table.Records[1].CapacityMW = 20
	table.Records[2].CapacityMW = 30

	ts := newRobustScaled(func(r plants.Record) float64 { return r.CapacityMW })
	ts.Fit(table.Records)
	block := ts.Transform(table.Records)

	require.Empty(t, block[1].Values, "median capacity scales to zero")
	assert.Equal(t, []float64{-1}, block[0].Values)
	assert.Equal(t, []float64{1}, block[2].Values)
}

func TestQuantileLinearInterpolation(t *testing.T) {
	// Closest-ranks linear interpolation at h = (n-1)*p. For [10,20,30]
	// that means median 20, q1 15, q3 25; conventions that interpolate the
	// empirical CDF instead give 15/10/22.5 and shift the scaler's center.
	odd := []float64{10, 20, 30}
	assert.InDelta(t, 20.0, quantile(0.5, odd), 1e-12)
	assert.InDelta(t, 15.0, quantile(0.25, odd), 1e-12)
	assert.InDelta(t, 25.0, quantile(0.75, odd), 1e-12)

	even := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, quantile(0.5, even), 1e-12)
	assert.InDelta(t, 1.75, quantile(0.25, even), 1e-12)
	assert.InDelta(t, 3.25, quantile(0.75, even), 1e-12)

	assert.InDelta(t, 7.0, quantile(0.5, []float64{7}), 1e-12)
}

func TestRobustScaledFitStats(t *testing.T) {
	recs := []plants.Record{
		{CapacityMW: 10}, {CapacityMW: 20}, {CapacityMW: 30},
	}
	ts := newRobustScaled(func(r plants.Record) float64 { return r.CapacityMW })
	ts.Fit(recs)

	assert.InDelta(t, 20.0, ts.center, 1e-12)
	assert.InDelta(t, 10.0, ts.scale, 1e-12)
}

func TestFitOnInvalidTable(t *testing.T) {
	b := NewBuilder(DefaultConfig())
	err := b.Fit(&plants.Table{Name: "plants_steam"})
	require.Error(t, err)

	_, err = b.Transform(nil)
	assert.Error(t, err, "transform before fit is a usage error")
}

func TestVectorDot(t *testing.T) {
	a := Vector{Indices: []int{0, 3, 7}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{3, 7, 9}, Values: []float64{4, 5, 6}}

	assert.InDelta(t, 2*4+3*5, a.Dot(b), 1e-12)
	assert.InDelta(t, a.Dot(b), b.Dot(a), 1e-12)
	assert.InDelta(t, 0.0, a.Dot(Vector{}), 1e-12)
}
