package match

import (
	"sort"

	"github.com/ferc1-etl/internal/plants"
)

// BestMatchTable holds, for every plant record, the index of its most
// similar record in every report year. One row per record, one column per
// distinct year (ascending); entries are record indices or NoMatch.
//
// Matching is directional: row i naming j in j's year does not imply row j
// names i back. That asymmetry is deliberate, the consistency resolver is
// what checks both directions agree.
type BestMatchTable struct {
	Years     []int
	RecordIDs []string
	Best      [][]int

	byID map[string]int
}

// BestByYear builds the best-match table for one table's records. For each
// record and each year, the best match is the arg-max of usable similarity
// over that year's records, ties broken by the first-occurring index. A
// record's own report year trivially resolves to itself unless an earlier
// identical record shadows it.
func BestByYear(recs []plants.Record, sim *Matrix) *BestMatchTable {
	years := distinctYears(recs)
	yearCol := make(map[int]int, len(years))
	for c, y := range years {
		yearCol[y] = c
	}

	// Record indices per year, in table order.
	byYear := make([][]int, len(years))
	for i, r := range recs {
		c := yearCol[r.ReportYear]
		byYear[c] = append(byYear[c], i)
	}

	bt := &BestMatchTable{
		Years:     years,
		RecordIDs: make([]string, len(recs)),
		Best:      make([][]int, len(recs)),
		byID:      make(map[string]int, len(recs)),
	}

	for i, r := range recs {
		bt.RecordIDs[i] = r.RecordID
		bt.byID[r.RecordID] = i

		row := make([]int, len(years))
		for c := range years {
			best := NoMatch
			var bestSim float64
			for _, j := range byYear[c] {
				s, ok := sim.Usable(i, j)
				if !ok {
					continue
				}
				if best == NoMatch || s > bestSim {
					best = j
					bestSim = s
				}
			}
			row[c] = best
		}
		bt.Best[i] = row
	}

	return bt
}

// Index returns the row index for a record ID.
func (bt *BestMatchTable) Index(recordID string) (int, bool) {
	i, ok := bt.byID[recordID]
	return i, ok
}

// Row returns the per-year best matches for one record.
func (bt *BestMatchTable) Row(i int) []int {
	return bt.Best[i]
}

func distinctYears(recs []plants.Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range recs {
		if !seen[r.ReportYear] {
			seen[r.ReportYear] = true
			years = append(years, r.ReportYear)
		}
	}
	sort.Ints(years)
	return years
}
