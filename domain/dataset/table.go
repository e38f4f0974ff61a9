package dataset

import (
	"fmt"
	"math"
	"strconv"

	apperrors "whrlab/internal/errors"
)

// ColumnType is the value type of a table column
type ColumnType string

const (
	TypeFloat  ColumnType = "float"
	TypeInt    ColumnType = "int"
	TypeString ColumnType = "string"
	TypeBool   ColumnType = "bool"
)

// IsNumeric reports whether values of the type can feed a statistic
func (t ColumnType) IsNumeric() bool {
	return t == TypeFloat || t == TypeInt
}

// Well-known World Happiness Report columns
const (
	ColumnCountry        = "Country name"
	ColumnYear           = "year"
	ColumnLifeLadder     = "Life Ladder"
	ColumnLogGDP         = "Log GDP per capita"
	ColumnLifeExpectancy = "Healthy life expectancy at birth"
)

// WHRRequiredColumns lists the columns every WHR input file must carry
var WHRRequiredColumns = []string{
	ColumnYear,
	ColumnLifeLadder,
	ColumnLogGDP,
	ColumnLifeExpectancy,
}

// Column is a named, typed sequence of values. Numeric columns use NaN
// for missing values; string columns keep the raw cell text.
type Column struct {
	name    string
	typ     ColumnType
	numbers []float64
	strings []string
	bools   []bool
}

// NewFloatColumn creates a float column; NaN marks a missing value
func NewFloatColumn(name string, values []float64) Column {
	return Column{name: name, typ: TypeFloat, numbers: cloneFloats(values)}
}

// NewIntColumn creates an int column; NaN marks a missing value
func NewIntColumn(name string, values []float64) Column {
	return Column{name: name, typ: TypeInt, numbers: cloneFloats(values)}
}

// NewStringColumn creates a string column
func NewStringColumn(name string, values []string) Column {
	out := make([]string, len(values))
	copy(out, values)
	return Column{name: name, typ: TypeString, strings: out}
}

// NewBoolColumn creates a bool column
func NewBoolColumn(name string, values []bool) Column {
	out := make([]bool, len(values))
	copy(out, values)
	return Column{name: name, typ: TypeBool, bools: out}
}

// Name returns the column name
func (c Column) Name() string { return c.name }

// Type returns the column value type
func (c Column) Type() ColumnType { return c.typ }

// Len returns the number of values in the column
func (c Column) Len() int {
	switch c.typ {
	case TypeString:
		return len(c.strings)
	case TypeBool:
		return len(c.bools)
	default:
		return len(c.numbers)
	}
}

// Floats returns a copy of a numeric column's values
func (c Column) Floats() []float64 { return cloneFloats(c.numbers) }

// Strings returns a copy of a string column's values
func (c Column) Strings() []string {
	out := make([]string, len(c.strings))
	copy(out, c.strings)
	return out
}

// Bools returns a copy of a bool column's values
func (c Column) Bools() []bool {
	out := make([]bool, len(c.bools))
	copy(out, c.bools)
	return out
}

// IsMissing reports whether row i holds no value
func (c Column) IsMissing(i int) bool {
	switch c.typ {
	case TypeString:
		return c.strings[i] == ""
	case TypeBool:
		return false
	default:
		return math.IsNaN(c.numbers[i])
	}
}

// Format renders row i as text, the way it would appear in a CSV cell
func (c Column) Format(i int) string {
	switch c.typ {
	case TypeString:
		return c.strings[i]
	case TypeBool:
		return strconv.FormatBool(c.bools[i])
	case TypeInt:
		if math.IsNaN(c.numbers[i]) {
			return ""
		}
		return strconv.FormatInt(int64(c.numbers[i]), 10)
	default:
		if math.IsNaN(c.numbers[i]) {
			return ""
		}
		return strconv.FormatFloat(c.numbers[i], 'g', -1, 64)
	}
}

// Take builds a column holding the given rows, in order
func (c Column) Take(rows []int) Column {
	out := Column{name: c.name, typ: c.typ}
	switch c.typ {
	case TypeString:
		out.strings = make([]string, len(rows))
		for i, r := range rows {
			out.strings[i] = c.strings[r]
		}
	case TypeBool:
		out.bools = make([]bool, len(rows))
		for i, r := range rows {
			out.bools[i] = c.bools[r]
		}
	default:
		out.numbers = make([]float64, len(rows))
		for i, r := range rows {
			out.numbers[i] = c.numbers[r]
		}
	}
	return out
}

// SchemaField describes one column of a table
type SchemaField struct {
	Name string
	Type ColumnType
}

// Table is an ordered, immutable set of equal-length columns. Tables
// share column storage; nothing ever writes to it after construction.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns. All columns must have the same
// length and distinct, non-empty names.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.name == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("column %d has an empty name", i))
		}
		if _, dup := t.index[col.name]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("duplicate column %q", col.name))
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, apperrors.InvalidInput(fmt.Sprintf("column %q has %d rows, expected %d", col.name, col.Len(), t.rows))
		}
		t.index[col.name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// MustNewTable is NewTable for fixtures; it panics on error
func MustNewTable(columns ...Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in order
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Schema returns the name and type of every column in order
func (t *Table) Schema() []SchemaField {
	fields := make([]SchemaField, len(t.columns))
	for i, c := range t.columns {
		fields[i] = SchemaField{Name: c.name, Type: c.typ}
	}
	return fields
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, apperrors.InvalidInput(fmt.Sprintf("unknown column %q", name))
	}
	return t.columns[i], nil
}

// NumericColumn looks up a column and checks it holds numbers
func (t *Table) NumericColumn(name string) (Column, error) {
	col, err := t.Column(name)
	if err != nil {
		return Column{}, err
	}
	if !col.typ.IsNumeric() {
		return Column{}, apperrors.InvalidInput(fmt.Sprintf("column %q is %s, not numeric", name, col.typ))
	}
	return col, nil
}

// Require checks that every named column exists
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.InvalidInput(fmt.Sprintf("missing columns %q", missing))
	}
	return nil
}

// WithColumn returns a new table with col appended, or replacing the
// column of the same name. The receiver is left untouched.
func (t *Table) WithColumn(col Column) (*Table, error) {
	columns := make([]Column, 0, len(t.columns)+1)
	replaced := false
	for _, c := range t.columns {
		if c.name == col.name {
			columns = append(columns, col)
			replaced = true
			continue
		}
		columns = append(columns, c)
	}
	if !replaced {
		columns = append(columns, col)
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return nil, apperrors.InvalidInput(fmt.Sprintf("column %q has %d rows, expected %d", col.name, col.Len(), t.rows))
	}
	return NewTable(columns...)
}

// Select returns a new table holding the given rows, in order
func (t *Table) Select(rows []int) *Table {
	out := &Table{
		columns: make([]Column, len(t.columns)),
		index:   t.index,
		rows:    len(rows),
	}
	for i, c := range t.columns {
		out.columns[i] = c.Take(rows)
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Select(rows)
}

func cloneFloats(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
