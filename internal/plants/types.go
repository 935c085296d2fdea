package plants

import (
	"fmt"
	"math"
	"sort"
)

// MissingYear is the construction year recorded when the filing left the
// field blank. It is carried through as its own category rather than a null
// so the feature encoding never has to special-case it.
const MissingYear = -1

// Record is one plant observation from a single FERC Form 1 filing year.
// FERC assigns no persistent plant identifier, so RecordID only identifies
// the filing row, not the physical plant.
type Record struct {
	RecordID         string
	ReportYear       int
	RespondentID     int
	PlantName        string
	PlantType        string
	ConstructionType string
	CapacityMW       float64
	ConstructionYear int
}

// GroupedRecord is a Record that has been resolved into a plant time series.
type GroupedRecord struct {
	Record
	PlantIDFerc1 int
}

// Table is the cleaned plant-record table for one physical-plant page
// (steam, hydro, pumped storage or small plants).
type Table struct {
	Name    string
	Records []Record
}

// DataError reports a required column that is missing or entirely null in
// an input table. It is fatal: no partial processing happens after it.
type DataError struct {
	Table  string
	Column string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("table %s: required column %s is missing or entirely null", e.Table, e.Column)
}

// Validate checks that the table has records and that every required column
// carries at least some data. Each record must also have a unique record ID.
func (t *Table) Validate() error {
	if len(t.Records) == 0 {
		return &DataError{Table: t.Name, Column: "record_id"}
	}

	seen := make(map[string]bool, len(t.Records))
	for _, r := range t.Records {
		if r.RecordID == "" {
			return &DataError{Table: t.Name, Column: "record_id"}
		}
		if seen[r.RecordID] {
			return fmt.Errorf("table %s: duplicate record_id %s", t.Name, r.RecordID)
		}
		seen[r.RecordID] = true
	}

	hasYear := false
	hasName := false
	hasCapacity := false
	for _, r := range t.Records {
		if r.ReportYear > 0 {
			hasYear = true
		}
		if r.PlantName != "" {
			hasName = true
		}
		if !math.IsNaN(r.CapacityMW) {
			hasCapacity = true
		}
	}
	if !hasYear {
		return &DataError{Table: t.Name, Column: "report_year"}
	}
	if !hasName {
		return &DataError{Table: t.Name, Column: "plant_name"}
	}
	if !hasCapacity {
		return &DataError{Table: t.Name, Column: "capacity_mw"}
	}

	return nil
}

// Years returns the distinct report years present in the table, ascending.
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range t.Records {
		if !seen[r.ReportYear] {
			seen[r.ReportYear] = true
			years = append(years, r.ReportYear)
		}
	}
	sort.Ints(years)
	return years
}

// RecordIDs returns the record IDs in table order.
func (t *Table) RecordIDs() []string {
	ids := make([]string, len(t.Records))
	for i, r := range t.Records {
		ids[i] = r.RecordID
	}
	return ids
}
