package plants

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReferenceTables holds the static category mappings used to canonicalize
// the free-form plant kind and construction type strings that utilities
// report. The tables are loaded once at process start and passed explicitly
// into cleaning; nothing in this package keeps them as global state.
type ReferenceTables struct {
	PlantTypes        map[string][]string `yaml:"plant_types"`
	ConstructionTypes map[string][]string `yaml:"construction_types"`
}

// DefaultReferenceTables returns the built-in category mappings, covering
// the variant spellings observed across the historical filings.
func DefaultReferenceTables() *ReferenceTables {
	return &ReferenceTables{
		PlantTypes: map[string][]string{
			"steam": {
				"steam", "steam units 1 and 2", "steam units 1,2,3",
				"steam-annex", "steam plant", "steam turbine", "steam unit",
				"resp share steam", "coal", "steam (coal)", "steam fossil",
			},
			"combustion_turbine": {
				"combustion turbine", "gas turbine", "gas turbines",
				"comb turb peaking", "combustion turbin", "ctg", "gt",
				"gas turbine/steam", "simple cycle", "peaking",
			},
			"combined_cycle": {
				"combined cycle", "combined cycle ctg", "combined cyc",
				"cc", "ctg/steam", "steam and cc", "gas turb-combined cyc",
			},
			"nuclear": {
				"nuclear", "nuclear (3)", "nuclear steam", "nuclear unit",
			},
			"internal_combustion": {
				"internal combustion", "diesel", "diesel engine", "ic",
				"int combust (note 1)", "internal comb",
			},
			"geothermal": {
				"geothermal", "steam - geothermal",
			},
			"wind": {
				"wind", "wind turbine", "wind energy", "wind farm",
			},
			"photovoltaic": {
				"photovoltaic", "solar photovoltaic", "pv",
			},
			"solar_thermal": {
				"solar thermal", "solar",
			},
		},
		ConstructionTypes: map[string][]string{
			"outdoor": {
				"outdoor", "outdoor boiler", "full outdoor", "outdoor hrsg",
				"outdoors", "outdoor boilers",
			},
			"semioutdoor": {
				"semioutdoor", "semi-outdoor", "semi outdoor", "semi-enclosed",
				"conventional/outdoor",
			},
			"conventional": {
				"conventional", "conv", "conventional boiler", "enclosed",
				"conventional (a)",
			},
		},
	}
}

// LoadReferenceTables reads category mappings from a YAML file. Categories
// present in the file replace the built-in ones wholesale; absent sections
// fall back to the defaults.
func LoadReferenceTables(path string) (*ReferenceTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference tables: %w", err)
	}

	var loaded ReferenceTables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse reference tables: %w", err)
	}

	tables := DefaultReferenceTables()
	if len(loaded.PlantTypes) > 0 {
		tables.PlantTypes = loaded.PlantTypes
	}
	if len(loaded.ConstructionTypes) > 0 {
		tables.ConstructionTypes = loaded.ConstructionTypes
	}
	return tables, nil
}

// CleanPlantType maps a reported plant kind onto its canonical category,
// or "" when it matches nothing.
func (rt *ReferenceTables) CleanPlantType(value string) string {
	return CleanStrings(value, rt.PlantTypes, "")
}

// CleanConstructionType maps a reported construction type onto its
// canonical category, or "" when it matches nothing.
func (rt *ReferenceTables) CleanConstructionType(value string) string {
	return CleanStrings(value, rt.ConstructionTypes, "")
}
