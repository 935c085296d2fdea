package features

import (
	"fmt"

	"github.com/ferc1-etl/internal/plants"
)

// Weights are the per-attribute multipliers applied to each transformed
// block before concatenation. Name and plant type carry double weight:
// they are the strongest identity signals across filing years.
type Weights struct {
	PlantName        float64
	PlantType        float64
	ConstructionType float64
	CapacityMW       float64
	ConstructionYear float64
	RespondentID     float64
}

// DefaultWeights returns the tuned per-attribute weights.
func DefaultWeights() Weights {
	return Weights{
		PlantName:        2.0,
		PlantType:        2.0,
		ConstructionType: 1.0,
		CapacityMW:       1.0,
		ConstructionYear: 1.0,
		RespondentID:     1.0,
	}
}

// Config controls feature construction.
type Config struct {
	NgramMin int
	NgramMax int
	Weights  Weights
}

// DefaultConfig returns the default feature configuration.
func DefaultConfig() Config {
	return Config{
		NgramMin: 2,
		NgramMax: 10,
		Weights:  DefaultWeights(),
	}
}

// column is one (name, transformer, weight) entry of the pipeline.
type column struct {
	name   string
	weight float64
	t      transformer
}

// Builder converts a plant-record table into weighted sparse feature
// vectors. The pipeline is an explicit ordered list of per-attribute
// transformers; each one maps a single column to a fixed-width block and
// the blocks are concatenated with their configured weights.
type Builder struct {
	cfg     Config
	columns []column
	offsets []int
	width   int
	fitted  bool
}

// NewBuilder creates a feature builder.
func NewBuilder(cfg Config) *Builder {
	if cfg.NgramMin <= 0 || cfg.NgramMax < cfg.NgramMin {
		cfg.NgramMin, cfg.NgramMax = DefaultConfig().NgramMin, DefaultConfig().NgramMax
	}

	return &Builder{
		cfg: cfg,
		columns: []column{
			{"plant_name", cfg.Weights.PlantName, newNgramTFIDF(cfg.NgramMin, cfg.NgramMax)},
			{"plant_type", cfg.Weights.PlantType, newOneHot(func(r plants.Record) string { return r.PlantType })},
			{"construction_type", cfg.Weights.ConstructionType, newOneHot(func(r plants.Record) string { return r.ConstructionType })},
			{"capacity_mw", cfg.Weights.CapacityMW, newRobustScaled(func(r plants.Record) float64 { return r.CapacityMW })},
			{"construction_year", cfg.Weights.ConstructionYear, newOneHot(categoricalYear)},
			{"respondent_id", cfg.Weights.RespondentID, newOneHot(categoricalRespondent)},
		},
	}
}

// Fit learns vocabularies, category sets and scaling statistics from the
// whole table. The table must pass validation first: feature building is
// all-or-nothing, a half-built feature space is meaningless downstream.
func (b *Builder) Fit(table *plants.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	b.offsets = make([]int, len(b.columns))
	b.width = 0
	for i, col := range b.columns {
		col.t.Fit(table.Records)
		b.offsets[i] = b.width
		b.width += col.t.Width()
	}
	b.fitted = true
	return nil
}

// Transform produces one weighted feature vector per record. Categories
// unseen at fit time encode as zeros.
func (b *Builder) Transform(recs []plants.Record) ([]Vector, error) {
	if !b.fitted {
		return nil, fmt.Errorf("feature builder used before Fit")
	}

	out := make([]Vector, len(recs))
	for ci, col := range b.columns {
		block := col.t.Transform(recs)
		offset := b.offsets[ci]
		for ri := range recs {
			bv := block[ri]
			for k, idx := range bv.Indices {
				out[ri].append(offset+idx, bv.Values[k]*col.weight)
			}
		}
	}
	return out, nil
}

// FitTransform fits on the table and returns its feature vectors.
func (b *Builder) FitTransform(table *plants.Table) ([]Vector, error) {
	if err := b.Fit(table); err != nil {
		return nil, err
	}
	return b.Transform(table.Records)
}

// Width is the total feature space width after fitting.
func (b *Builder) Width() int { return b.width }
