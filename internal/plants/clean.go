package plants

import (
	"fmt"
	"math"
	"strings"
)

// BuildRecordID builds the unique inter-year record ID for one FERC Form 1
// table row. Within each table a row is uniquely identified by the
// combination of report year, respondent ID, supplement number and row
// number, so the ID is their underscore-joined concatenation.
func BuildRecordID(reportYear, respondentID, supplementNum, rowNumber int) string {
	return fmt.Sprintf("%d_%d_%d_%d", reportYear, respondentID, supplementNum, rowNumber)
}

// NormalizeName standardizes a free-text plant name: lower case, leading and
// trailing whitespace removed, internal runs of whitespace collapsed. Plant
// names take part in cross-year matching, so inconsistent capitalization
// would otherwise look like a different plant.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CleanStrings maps a messy free-form categorical value onto a canonical
// category. The mapping is a dictionary from canonical category to the
// observed variant strings. Values matching no variant map to unmapped.
// Comparison is case-insensitive after whitespace normalization.
func CleanStrings(value string, mapping map[string][]string, unmapped string) string {
	needle := NormalizeName(value)
	if needle == "" {
		return unmapped
	}
	for canonical, variants := range mapping {
		if needle == canonical {
			return canonical
		}
		for _, v := range variants {
			if needle == NormalizeName(v) {
				return canonical
			}
		}
	}
	return unmapped
}

// MultiplicativeCorrection fixes a value reported in the wrong units.
// Several FERC columns show "ghost" populations of otherwise well-shaped
// data that has been multiplied by a constant factor (kWh reported as MWh
// and so on). The multipliers are tried in order and the first product that
// lands strictly inside (minval, maxval) wins; the order is significant and
// must not be changed. A value that no multiplier can bring into range is
// a true outlier and comes back as NaN.
func MultiplicativeCorrection(value, minval, maxval float64, mults []float64) float64 {
	if math.IsNaN(value) {
		return math.NaN()
	}
	for _, mult := range mults {
		fixed := value * mult
		if fixed > minval && fixed < maxval {
			return fixed
		}
	}
	return math.NaN()
}
