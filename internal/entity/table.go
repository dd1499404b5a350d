package entity

import (
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueKind is the scalar type carried by a single cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindTime
	KindNested // object or array, kept as raw JSON text
)

// Value is one cell of a Table.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
	Time time.Time
}

func Null() Value             { return Value{Kind: KindNull} }
func Number(f float64) Value  { return Value{Kind: KindNumber, Num: f} }
func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func Time(t time.Time) Value  { return Value{Kind: KindTime, Time: t} }
func Nested(raw string) Value { return Value{Kind: KindNested, Str: raw} }
func (v Value) IsNull() bool  { return v.Kind == KindNull }

// Label renders the value the way it appears on a chart axis or in a summary.
func (v Value) Label() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString, KindNested:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTime:
		return v.Time.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// Column is a named sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered set of equal-length columns.
// A Table with no rows or no columns is the explicit "no data" state.
type Table struct {
	Columns []*Column
}

// EmptyTable returns the "no data" table.
func EmptyTable() *Table {
	return &Table{}
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Columns) == 0 || t.Rows() == 0
}

func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column returns the column named name, or nil.
func (t *Table) Column(name string) *Column {
	if t == nil {
		return nil
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Field is one key/value pair of a record, in document order.
type Field struct {
	Key   string
	Value Value
}

// TableBuilder folds heterogeneous records into a Table. The column set is the
// union of all keys, ordered by first appearance; absent keys become nulls.
type TableBuilder struct {
	columns *orderedmap.OrderedMap[string, *Column]
	rows    int
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{columns: orderedmap.New[string, *Column]()}
}

// AddRecord appends one row. A key repeated within a record keeps its last value.
func (b *TableBuilder) AddRecord(fields []Field) {
	for _, f := range fields {
		col, ok := b.columns.Get(f.Key)
		if !ok {
			col = &Column{Name: f.Key, Values: make([]Value, b.rows, b.rows+1)}
			b.columns.Set(f.Key, col)
		}
		if len(col.Values) == b.rows {
			col.Values = append(col.Values, f.Value)
		} else {
			col.Values[b.rows] = f.Value
		}
	}
	b.rows++
	for pair := b.columns.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value.Values) < b.rows {
			pair.Value.Values = append(pair.Value.Values, Null())
		}
	}
}

func (b *TableBuilder) Build() *Table {
	t := &Table{Columns: make([]*Column, 0, b.columns.Len())}
	for pair := b.columns.Oldest(); pair != nil; pair = pair.Next() {
		t.Columns = append(t.Columns, pair.Value)
	}
	return t
}
