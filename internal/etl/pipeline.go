package etl

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ferc1-etl/internal/debug"
	"github.com/ferc1-etl/internal/features"
	"github.com/ferc1-etl/internal/match"
	"github.com/ferc1-etl/internal/plants"
)

// TableSpec describes one physical-plant table: where its cleaned records
// are staged and where the grouped output goes.
type TableSpec struct {
	Name        string
	StagingName string
	OutputName  string
}

// Tables lists the four physical-plant tables. Each is processed
// independently with its own classifier instance; there is no shared state
// between them.
var Tables = []TableSpec{
	{Name: "steam", StagingName: "stg_plants_steam", OutputName: "plants_steam_ferc1"},
	{Name: "hydro", StagingName: "stg_plants_hydro", OutputName: "plants_hydro_ferc1"},
	{Name: "pumped_storage", StagingName: "stg_plants_pumped_storage", OutputName: "plants_pumped_storage_ferc1"},
	{Name: "small", StagingName: "stg_plants_small", OutputName: "plants_small_ferc1"},
}

// TableSpecFor resolves a table name to its spec.
func TableSpecFor(name string) (TableSpec, error) {
	for _, spec := range Tables {
		if spec.Name == name {
			return spec, nil
		}
	}
	return TableSpec{}, fmt.Errorf("unknown plant table: %s", name)
}

// Config holds the pipeline configuration.
type Config struct {
	MinSim   float64
	Features features.Config
	Verbose  bool
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MinSim:   match.DefaultMinSim,
		Features: features.DefaultConfig(),
	}
}

// TableStats summarizes one table's run for progress reporting.
type TableStats struct {
	Table       string    `json:"table"`
	Total       int       `json:"total_records"`
	Grouped     int       `json:"grouped_records"`
	Plants      int       `json:"plants_identified"`
	PctGrouped  float64   `json:"pct_grouped"`
	CompletedAt time.Time `json:"completed_at"`
}

// Pipeline runs the plant identity resolution over the staged plant tables.
type Pipeline struct {
	db   *sql.DB
	cfg  Config
	refs *plants.ReferenceTables

	mu    sync.Mutex
	stats map[string]TableStats
}

// NewPipeline creates a pipeline over the given database.
func NewPipeline(db *sql.DB, cfg Config, refs *plants.ReferenceTables) *Pipeline {
	if refs == nil {
		refs = plants.DefaultReferenceTables()
	}
	return &Pipeline{
		db:    db,
		cfg:   cfg,
		refs:  refs,
		stats: make(map[string]TableStats),
	}
}

// TransformTable loads one staged plant table, resolves plant identities
// across years and stores the grouped records. Processing is all-or-nothing
// per table: any feature or similarity failure aborts the table, since a
// partial similarity matrix is meaningless.
func (p *Pipeline) TransformTable(name string) (TableStats, error) {
	spec, err := TableSpecFor(name)
	if err != nil {
		return TableStats{}, err
	}

	log := logrus.WithField("table", spec.Name)
	log.Info("loading staged plant records")

	table, err := p.loadPlantTable(spec)
	if err != nil {
		return TableStats{}, fmt.Errorf("failed to load %s: %w", spec.StagingName, err)
	}

	p.cleanRecords(spec, table)
	if err := table.Validate(); err != nil {
		return TableStats{}, err
	}

	stats, grouped, err := p.classify(spec, table)
	if err != nil {
		return TableStats{}, err
	}

	if err := p.storeGroupedRecords(spec, grouped); err != nil {
		return TableStats{}, fmt.Errorf("failed to store %s: %w", spec.OutputName, err)
	}

	p.mu.Lock()
	p.stats[spec.Name] = stats
	p.mu.Unlock()

	log.WithFields(logrus.Fields{
		"plants":  stats.Plants,
		"grouped": stats.Grouped,
		"total":   stats.Total,
	}).Infof("%d of %d records (%.1f%%) categorized", stats.Grouped, stats.Total, stats.PctGrouped)

	return stats, nil
}

// classify runs the fit/predict cycle for one table and merges the
// resolved plant IDs back into the records.
func (p *Pipeline) classify(spec TableSpec, table *plants.Table) (TableStats, []plants.GroupedRecord, error) {
	defer debug.Timing(p.cfg.Verbose, "classify "+spec.Name)()

	builder := features.NewBuilder(p.cfg.Features)
	vecs, err := builder.FitTransform(table)
	if err != nil {
		return TableStats{}, nil, err
	}
	debug.Tracef(p.cfg.Verbose, "feature space for %s: %d records x %d columns",
		spec.Name, len(vecs), builder.Width())

	clf := match.NewClassifier(match.Config{MinSim: p.cfg.MinSim}, table)
	if err := clf.Fit(vecs); err != nil {
		return TableStats{}, nil, err
	}

	groups, err := clf.Predict(table.RecordIDs())
	if err != nil {
		return TableStats{}, nil, err
	}
	grouped := MergeGroups(table, groups.Dedupe())

	stats := TableStats{
		Table:       spec.Name,
		Total:       len(table.Records),
		Grouped:     len(grouped),
		CompletedAt: time.Now(),
	}
	if stats.Total > 0 {
		stats.PctGrouped = 100 * float64(stats.Grouped) / float64(stats.Total)
	}
	for _, g := range grouped {
		if g.PlantIDFerc1+1 > stats.Plants {
			stats.Plants = g.PlantIDFerc1 + 1
		}
	}
	return stats, grouped, nil
}

// MergeGroups merges resolved plant IDs into the record table on record ID.
// Records with no group are dropped from the merged output: the grouped
// tables only carry records that belong to an identified plant. The staged
// input is never modified, and the caller can see the drop count in the
// run stats.
func MergeGroups(table *plants.Table, groups *match.GroupTable) []plants.GroupedRecord {
	plantID := make(map[string]int)
	for _, a := range groups.Assignments() {
		plantID[a.RecordID] = a.PlantIDFerc1
	}

	var out []plants.GroupedRecord
	for _, r := range table.Records {
		id, ok := plantID[r.RecordID]
		if !ok {
			continue
		}
		out = append(out, plants.GroupedRecord{Record: r, PlantIDFerc1: id})
	}
	return out
}

// ScoreTable evaluates one table's classifier against hand-classified truth
// groups, each a comma-delimited record ID list. Offline evaluation only.
func (p *Pipeline) ScoreTable(name string, truthGroups []string) (float64, error) {
	spec, err := TableSpecFor(name)
	if err != nil {
		return 0, err
	}

	table, err := p.loadPlantTable(spec)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %w", spec.StagingName, err)
	}
	p.cleanRecords(spec, table)
	if err := table.Validate(); err != nil {
		return 0, err
	}

	vecs, err := features.NewBuilder(p.cfg.Features).FitTransform(table)
	if err != nil {
		return 0, err
	}
	clf := match.NewClassifier(match.Config{MinSim: p.cfg.MinSim}, table)
	if err := clf.Fit(vecs); err != nil {
		return 0, err
	}
	return clf.Score(truthGroups)
}

// cleanRecords applies the per-table cleaning: canonical name form and
// category mapping, plus the small-table capacity unit correction.
func (p *Pipeline) cleanRecords(spec TableSpec, table *plants.Table) {
	for i := range table.Records {
		r := &table.Records[i]
		r.PlantName = plants.NormalizeName(r.PlantName)
		r.PlantType = p.refs.CleanPlantType(r.PlantType)
		r.ConstructionType = p.refs.CleanConstructionType(r.ConstructionType)
		if spec.Name == "small" {
			r.CapacityMW = CorrectSmallCapacity(r.CapacityMW)
		}
	}
}

// Stats returns a snapshot of the per-table run statistics.
func (p *Pipeline) Stats() []TableStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]TableStats, 0, len(p.stats))
	for _, spec := range Tables {
		if s, ok := p.stats[spec.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// DB exposes the underlying connection for the status server handlers.
func (p *Pipeline) DB() *sql.DB {
	return p.db
}
