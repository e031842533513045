package impact

import (
	"sort"

	"goimpact/domain/core"
)

// Table is raw tabular input: a header and its rows.
type Table struct {
	Columns []string    `json:"columns"`
	Records []RawRecord `json:"records"`
	// Source describes where the rows came from, for error messages.
	Source string `json:"source,omitempty"`
}

// NewTable builds a table from rows, taking the column set from the union of
// row keys when columns is empty.
func NewTable(columns []string, records []RawRecord) Table {
	if len(columns) == 0 {
		seen := make(map[string]bool)
		for _, r := range records {
			for k := range r {
				if !seen[k] {
					seen[k] = true
					columns = append(columns, k)
				}
			}
		}
		sort.Strings(columns)
	}
	return Table{Columns: columns, Records: records, Source: "in-memory records"}
}

// HasColumn reports whether name is in the header.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SourceName returns a printable description of the table origin.
func (t Table) SourceName() string {
	if t.Source == "" {
		return "input table"
	}
	return t.Source
}

// RequireColumns checks that the table is non-empty and carries every
// named column.
func (t Table) RequireColumns(columns ...string) error {
	if len(t.Records) == 0 {
		return core.NewDataError(t.SourceName(), "table has no rows")
	}
	for _, c := range columns {
		if !t.HasColumn(c) {
			return core.NewDataError(t.SourceName(), "missing column \""+c+"\"")
		}
	}
	return nil
}

// Rows exposes records as plain maps for hashing.
func (t Table) Rows() []map[string]string {
	rows := make([]map[string]string, len(t.Records))
	for i, r := range t.Records {
		rows[i] = r
	}
	return rows
}

// DistinctValues returns the sorted distinct non-empty values of column.
func DistinctValues(t Table, column string) ([]string, error) {
	if err := t.RequireColumns(column); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var values []string
	for _, r := range t.Records {
		v := r[column]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
