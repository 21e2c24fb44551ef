package cohort

import (
	"fmt"
	"strconv"
)

// Clinical column names present in every cohort table.
const (
	ColPatientID            = "patient_id"
	ColBenefit              = "benefit"
	ColOS                   = "os"
	ColPFS                  = "pfs"
	ColDeceased             = "deceased"
	ColProgressedOrDeceased = "progressed_or_deceased"
)

var clinicalColumns = []string{
	ColPatientID,
	ColBenefit,
	ColOS,
	ColPFS,
	ColDeceased,
	ColProgressedOrDeceased,
}

// Table is the tabular output of feature aggregation: one row per
// patient, clinical columns plus one column per requested feature.
type Table struct {
	Columns []string
	Rows    [][]string
}

// columnIndex returns the index of a named column.
func (t *Table) columnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("table has no column %q", name)
}

// FloatColumn extracts a column as float64 values.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// BoolColumn extracts a column as booleans.
func (t *Table) BoolColumn(name string) ([]bool, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseBool(row[idx])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// StringColumn extracts a column as-is.
func (t *Table) StringColumn(name string) ([]string, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// AsDataFrame evaluates the feature spec for every patient and returns
// the joined feature column label along with the table, one row per
// patient in cohort order.
func (c *Cohort) AsDataFrame(spec FeatureSpec) (string, *Table, error) {
	cols, features, label, err := spec.resolve()
	if err != nil {
		return "", nil, err
	}

	table := &Table{
		Columns: append(append([]string{}, clinicalColumns...), cols...),
		Rows:    make([][]string, 0, len(c.patients)),
	}

	for _, p := range c.patients {
		row := []string{
			p.ID,
			strconv.FormatBool(p.Benefit),
			formatFloat(p.OS),
			formatFloat(p.PFS),
			strconv.FormatBool(p.Deceased),
			strconv.FormatBool(p.ProgressedOrDeceased),
		}
		for _, f := range features {
			val, err := f.Fn(c, p)
			if err != nil {
				return "", nil, fmt.Errorf("feature %s for patient %s: %w", f.Name, p.ID, err)
			}
			row = append(row, formatFloat(val))
		}
		table.Rows = append(table.Rows, row)
	}

	return label, table, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
