package checks

import (
	"fmt"

	"arena-sync/core/database"

	"gorm.io/gorm"
)

// Table statuses.
const (
	StatusOK             = "ok"
	StatusMissingTable   = "missing_table"
	StatusMissingColumns = "missing_columns"
	StatusError          = "error"
)

// SchemaReport is the result of a settings schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors,omitempty"`
}

// TableReport describes one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns,omitempty"`
	Status         string   `json:"status"`
}

// CheckSchema compares the live tables with the expected columns.
// order fixes the iteration order of tables.
func CheckSchema(db *gorm.DB, order []string, expected map[string][]string) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport, len(order)),
	}

	for _, table := range order {
		columns := expected[table]
		missing, err := database.MissingColumns(db, table, columns...)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, err.Error())
			report.Tables[table] = TableReport{Status: StatusError}
			continue
		}

		tr := TableReport{Status: StatusOK, MissingColumns: missing}
		switch {
		case len(missing) == 0:
		case len(missing) == len(columns):
			tr.Status = StatusMissingTable
		default:
			tr.Status = StatusMissingColumns
		}
		if tr.Status != StatusOK {
			report.Matched = false
		}
		report.Tables[table] = tr
	}
	return report, nil
}
