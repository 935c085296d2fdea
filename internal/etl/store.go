package etl

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/ferc1-etl/internal/plants"
)

// loadPlantTable reads one staged plant table into memory. The staging
// tables are produced by the upstream column-cleaning layer; this pipeline
// only consumes them.
func (p *Pipeline) loadPlantTable(spec TableSpec) (*plants.Table, error) {
	rows, err := p.db.Query(fmt.Sprintf(`
		SELECT record_id, report_year, respondent_id, plant_name,
		       plant_type, construction_type, capacity_mw, construction_year
		FROM %s
		ORDER BY record_id
	`, spec.StagingName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := &plants.Table{Name: spec.OutputName}
	for rows.Next() {
		var r plants.Record
		var plantType, constructionType sql.NullString
		var capacity sql.NullFloat64
		var constructionYear sql.NullInt64

		err := rows.Scan(&r.RecordID, &r.ReportYear, &r.RespondentID, &r.PlantName,
			&plantType, &constructionType, &capacity, &constructionYear)
		if err != nil {
			return nil, err
		}

		r.PlantType = plantType.String
		r.ConstructionType = constructionType.String
		if capacity.Valid {
			r.CapacityMW = capacity.Float64
		} else {
			r.CapacityMW = math.NaN()
		}
		r.ConstructionYear = plants.MissingYear
		if constructionYear.Valid {
			r.ConstructionYear = int(constructionYear.Int64)
		}

		table.Records = append(table.Records, r)
	}
	return table, rows.Err()
}

// storeGroupedRecords replaces the grouped output table contents in one
// transaction.
func (p *Pipeline) storeGroupedRecords(spec TableSpec, grouped []plants.GroupedRecord) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s", spec.OutputName)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", spec.OutputName, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (
			record_id, plant_id_ferc1, report_year, respondent_id, plant_name,
			plant_type, construction_type, capacity_mw, construction_year
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, spec.OutputName))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range grouped {
		var capacity interface{}
		if !math.IsNaN(g.CapacityMW) {
			capacity = g.CapacityMW
		}
		var constructionYear interface{}
		if g.ConstructionYear != plants.MissingYear {
			constructionYear = g.ConstructionYear
		}

		_, err := stmt.Exec(g.RecordID, g.PlantIDFerc1, g.ReportYear, g.RespondentID,
			g.PlantName, nullIfEmpty(g.PlantType), nullIfEmpty(g.ConstructionType),
			capacity, constructionYear)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", g.RecordID, err)
		}
	}

	return tx.Commit()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
