// Package table implements a small column-oriented table used for parsed
// instrument data. Columns are typed and keep a per-cell validity mask, so
// missing values survive integer and string columns as well as floats.
package table

import (
	"fmt"
	"math"
	"time"
)

// Kind is the type of a column.
type Kind int

// Available column kinds.
const (
	Float Kind = iota
	Int
	String
	Time
)

func (k Kind) String() string {
	return [...]string{"float", "int", "string", "time"}[k]
}

// Column holds the cells of one column. Exactly one of the value slices is
// in use, selected by Kind. An empty input field is stored as a missing cell
// for every kind.
type Column struct {
	Kind    Kind
	Floats  []float64
	Ints    []int64
	Strings []string
	Times   []time.Time
	Valid   []bool
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Valid) }

// IsMissing reports whether cell i holds no value.
func (c *Column) IsMissing(i int) bool { return !c.Valid[i] }

// Float returns cell i of a float column, NaN if missing.
func (c *Column) Float(i int) float64 { return c.Floats[i] }

// Int returns cell i of an int column, 0 if missing.
func (c *Column) Int(i int) int64 { return c.Ints[i] }

// Str returns cell i of a string column, "" if missing.
func (c *Column) Str(i int) string { return c.Strings[i] }

// Time returns cell i of a time column, the zero time if missing.
func (c *Column) Time(i int) time.Time { return c.Times[i] }

func (c *Column) appendMissing() {
	switch c.Kind {
	case Float:
		c.Floats = append(c.Floats, math.NaN())
	case Int:
		c.Ints = append(c.Ints, 0)
	case String:
		c.Strings = append(c.Strings, "")
	case Time:
		c.Times = append(c.Times, time.Time{})
	}
	c.Valid = append(c.Valid, false)
}

func (c *Column) appendCell(field string) error {
	if field == "" {
		c.appendMissing()
		return nil
	}
	switch c.Kind {
	case Float:
		v, err := parseFloat(field)
		if err != nil {
			return err
		}
		c.Floats = append(c.Floats, v)
	case Int:
		v, err := parseInt(field)
		if err != nil {
			return err
		}
		c.Ints = append(c.Ints, v)
	case String:
		c.Strings = append(c.Strings, field)
	case Time:
		return fmt.Errorf("table: time columns cannot be parsed from fields")
	}
	c.Valid = append(c.Valid, true)
	return nil
}

func (c *Column) appendFrom(src *Column, i int) {
	if !src.Valid[i] {
		c.appendMissing()
		return
	}
	switch c.Kind {
	case Float:
		c.Floats = append(c.Floats, src.Floats[i])
	case Int:
		c.Ints = append(c.Ints, src.Ints[i])
	case String:
		c.Strings = append(c.Strings, src.Strings[i])
	case Time:
		c.Times = append(c.Times, src.Times[i])
	}
	c.Valid = append(c.Valid, true)
}

// Table is an ordered set of equally long named columns. A Table owns its
// columns exclusively; all transforming methods allocate a new Table.
type Table struct {
	names []string
	cols  map[string]*Column
}

// New creates an empty table with the given column order. Column kinds are
// looked up in kinds, defaulting to Float. kinds may be nil.
func New(names []string, kinds map[string]Kind) *Table {
	t := &Table{names: append([]string{}, names...), cols: make(map[string]*Column, len(names))}
	for _, n := range t.names {
		k := Float
		if kinds != nil {
			if kk, ok := kinds[n]; ok {
				k = kk
			}
		}
		t.cols[n] = &Column{Kind: k}
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.names) == 0 {
		return 0
	}
	return t.cols[t.names[0]].Len()
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string { return append([]string{}, t.names...) }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Col returns the named column or nil.
func (t *Table) Col(name string) *Column { return t.cols[name] }

// AppendRow parses one row of string fields, in column order. An empty field
// becomes a missing cell. The field count must match the column count.
func (t *Table) AppendRow(fields []string) error {
	if len(fields) != len(t.names) {
		return fmt.Errorf("table: got %d fields for %d columns", len(fields), len(t.names))
	}
	for i, n := range t.names {
		if err := t.cols[n].appendCell(fields[i]); err != nil {
			return fmt.Errorf("table: column %s: %v", n, err)
		}
	}
	return nil
}

// AddFloatColumn appends a new float column. NaN values are stored as missing.
func (t *Table) AddFloatColumn(name string, vals []float64) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	c := &Column{Kind: Float, Floats: vals, Valid: make([]bool, len(vals))}
	for i, v := range vals {
		c.Valid[i] = !math.IsNaN(v)
	}
	t.names = append(t.names, name)
	t.cols[name] = c
	return nil
}

// AddIntColumn appends a new int column with every cell valid.
func (t *Table) AddIntColumn(name string, vals []int64) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	c := &Column{Kind: Int, Ints: vals, Valid: make([]bool, len(vals))}
	for i := range vals {
		c.Valid[i] = true
	}
	t.names = append(t.names, name)
	t.cols[name] = c
	return nil
}

// AddMaskedIntColumn appends a new int column with an explicit validity
// mask; cells with valid[i] false are missing regardless of their value.
func (t *Table) AddMaskedIntColumn(name string, vals []int64, valid []bool) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	if len(valid) != len(vals) {
		return fmt.Errorf("table: column %s: got %d mask entries for %d values", name, len(valid), len(vals))
	}
	t.names = append(t.names, name)
	t.cols[name] = &Column{Kind: Int, Ints: vals, Valid: valid}
	return nil
}

// AddStringColumn appends a new string column. Empty strings are missing.
func (t *Table) AddStringColumn(name string, vals []string) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	c := &Column{Kind: String, Strings: vals, Valid: make([]bool, len(vals))}
	for i, v := range vals {
		c.Valid[i] = v != ""
	}
	t.names = append(t.names, name)
	t.cols[name] = c
	return nil
}

// AddTimeColumn appends a new time column. Zero times are missing.
func (t *Table) AddTimeColumn(name string, vals []time.Time) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	c := &Column{Kind: Time, Times: vals, Valid: make([]bool, len(vals))}
	for i, v := range vals {
		c.Valid[i] = !v.IsZero()
	}
	t.names = append(t.names, name)
	t.cols[name] = c
	return nil
}

// BroadcastFloat appends a new float column holding the same value in every
// row. valid=false marks every cell missing, as for an absent header value.
func (t *Table) BroadcastFloat(name string, val float64, valid bool) error {
	vals := make([]float64, t.NumRows())
	for i := range vals {
		if valid {
			vals[i] = val
		} else {
			vals[i] = math.NaN()
		}
	}
	return t.AddFloatColumn(name, vals)
}

func (t *Table) checkNew(name string, n int) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("table: column %s already exists", name)
	}
	if len(t.names) > 0 && n != t.NumRows() {
		return fmt.Errorf("table: column %s: got %d values for %d rows", name, n, t.NumRows())
	}
	return nil
}

// Select returns a new table restricted to the named columns, in the given
// order.
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{names: append([]string{}, names...), cols: make(map[string]*Column, len(names))}
	for _, n := range names {
		c, ok := t.cols[n]
		if !ok {
			return nil, fmt.Errorf("table: no column %s", n)
		}
		out.cols[n] = copyColumn(c)
	}
	return out, nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := t.emptyLike()
	for i := 0; i < t.NumRows(); i++ {
		if !keep(i) {
			continue
		}
		for _, n := range t.names {
			out.cols[n].appendFrom(t.cols[n], i)
		}
	}
	return out
}

func (t *Table) emptyLike() *Table {
	out := &Table{names: append([]string{}, t.names...), cols: make(map[string]*Column, len(t.names))}
	for _, n := range t.names {
		out.cols[n] = &Column{Kind: t.cols[n].Kind}
	}
	return out
}

func copyColumn(c *Column) *Column {
	return &Column{
		Kind:    c.Kind,
		Floats:  append([]float64{}, c.Floats...),
		Ints:    append([]int64{}, c.Ints...),
		Strings: append([]string{}, c.Strings...),
		Times:   append([]time.Time{}, c.Times...),
		Valid:   append([]bool{}, c.Valid...),
	}
}

// Concat concatenates tables with identical column sets into a new table.
// The inputs are not modified. Concat of zero tables returns an empty table
// without columns.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return New(nil, nil), nil
	}
	out := tables[0].emptyLike()
	for _, in := range tables {
		if len(in.names) != len(out.names) {
			return nil, fmt.Errorf("table: concat: got %d columns, want %d", len(in.names), len(out.names))
		}
		for _, n := range out.names {
			c, ok := in.cols[n]
			if !ok {
				return nil, fmt.Errorf("table: concat: no column %s", n)
			}
			if c.Kind != out.cols[n].Kind {
				return nil, fmt.Errorf("table: concat: column %s: kind %s, want %s", n, c.Kind, out.cols[n].Kind)
			}
			for i := 0; i < c.Len(); i++ {
				out.cols[n].appendFrom(c, i)
			}
		}
	}
	return out, nil
}
