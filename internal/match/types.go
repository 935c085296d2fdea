package match

import "errors"

// NoMatch is the sentinel index stored in a best-match table when no record
// in a given year clears the similarity floor. Kept as an integer, never a
// null, so the table stays integer-typed end to end.
const NoMatch = -1

// DefaultMinSim is the default cosine similarity floor. Pairs at or above
// the floor are candidate matches; pairs below it are unusable.
const DefaultMinSim = 0.75

// ErrNotFitted is returned when Predict or Score is called before Fit.
var ErrNotFitted = errors.New("classifier must be fitted before use")

// Config holds the classifier knobs.
type Config struct {
	MinSim float64
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{MinSim: DefaultMinSim}
}
