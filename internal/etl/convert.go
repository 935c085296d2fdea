package etl

import "github.com/ferc1-etl/internal/plants"

// Unit conversions applied during per-table cleaning. FERC reports several
// quantities in kW/kWh where MW/MWh is wanted downstream.

// KWhToMWh converts net generation reported in kWh.
func KWhToMWh(kwh float64) float64 {
	return kwh / 1000
}

// PerKWToPerMW converts a per-kW cost or expense to per-MW.
func PerKWToPerMW(perKW float64) float64 {
	return perKW * 1000
}

// Small-plant capacity bounds. Values outside this band after correction
// are junk entries, not plants.
const (
	smallCapacityMinMW = 0.0001
	smallCapacityMaxMW = 50.0
)

// smallCapacityMults are tried in order: most small-table capacity entries
// are already in MW, the rest were keyed in as kW.
var smallCapacityMults = []float64{1, 0.001}

// CorrectSmallCapacity fixes small-plant capacities reported in the wrong
// units. Unrecoverable values come back as NaN.
func CorrectSmallCapacity(capacityMW float64) float64 {
	return plants.MultiplicativeCorrection(
		capacityMW, smallCapacityMinMW, smallCapacityMaxMW, smallCapacityMults)
}
