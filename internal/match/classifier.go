package match

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ferc1-etl/internal/features"
	"github.com/ferc1-etl/internal/plants"
)

// Classifier identifies plant time series in one FERC Form 1 plant table.
// Fit computes the similarity matrix and per-year best matches over the
// whole table; Predict resolves seed records into mutually consistent
// groups; Score checks predictions against hand-classified truth groups.
//
// One classifier instance serves one table. There is no shared state
// between tables and no concurrency inside a run.
type Classifier struct {
	cfg     Config
	records []plants.Record

	sim    *Matrix
	bestOf *BestMatchTable
	fitted bool
}

// NewClassifier creates a classifier over the given cleaned plant table.
func NewClassifier(cfg Config, table *plants.Table) *Classifier {
	if cfg.MinSim <= 0 {
		cfg.MinSim = DefaultMinSim
	}
	return &Classifier{cfg: cfg, records: table.Records}
}

// Fit computes the pairwise similarity matrix from the feature vectors and
// derives the per-year best-match table. Both are kept as classifier state
// for Predict and Score.
func (c *Classifier) Fit(vecs []features.Vector) error {
	if len(vecs) == 0 {
		return fmt.Errorf("fit called with no feature vectors")
	}
	if len(vecs) != len(c.records) {
		return fmt.Errorf("fit got %d feature vectors for %d records", len(vecs), len(c.records))
	}

	c.sim = Similarities(vecs, c.cfg.MinSim)
	c.bestOf = BestByYear(c.records, c.sim)
	c.fitted = true
	return nil
}

// Predict resolves each seed record ID into its plant time series. Seeds
// that fail the mutual-consistency check contribute no group; that is the
// expected outcome for ambiguous records, not an error. Unknown record IDs
// are an error.
func (c *Classifier) Predict(recordIDs []string) (*GroupTable, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}

	out := &GroupTable{Years: c.bestOf.Years}
	for _, id := range recordIDs {
		idx, ok := c.bestOf.Index(id)
		if !ok {
			return nil, fmt.Errorf("unknown record id %s", id)
		}
		byYear, ok := c.bestOf.ResolveGroup(idx)
		if !ok {
			continue
		}
		out.Groups = append(out.Groups, Group{SeedID: id, ByYear: byYear})
	}
	return out, nil
}

// Score evaluates the classifier against known-good groupings. Each truth
// group is a comma-delimited list of record IDs belonging to one plant. For
// every member record the predicted time series is compared against the
// truth group with a sequence-similarity ratio; the score is the mean ratio
// over all probes. A member that resolved to no group scores zero.
//
// Offline evaluation only; the production pipeline never calls this.
func (c *Classifier) Score(truthGroups []string) (float64, error) {
	if !c.fitted {
		return 0, ErrNotFitted
	}

	var scores []float64
	for _, tg := range truthGroups {
		var truth []string
		for _, id := range strings.Split(tg, ",") {
			if id = strings.TrimSpace(id); id != "" {
				truth = append(truth, id)
			}
		}
		if len(truth) == 0 {
			continue
		}

		predicted, err := c.Predict(truth)
		if err != nil {
			return 0, err
		}
		bySeed := make(map[string][]string, len(predicted.Groups))
		for _, g := range predicted.Groups {
			bySeed[g.SeedID] = g.ByYear
		}

		for _, id := range truth {
			scores = append(scores, sequenceRatio(truth, bySeed[id]))
		}
	}

	if len(scores) == 0 {
		return 0, fmt.Errorf("no truth groups to score against")
	}
	return stat.Mean(scores, nil), nil
}

// Years returns the distinct report years seen at fit time.
func (c *Classifier) Years() []int {
	if !c.fitted {
		return nil
	}
	return c.bestOf.Years
}
