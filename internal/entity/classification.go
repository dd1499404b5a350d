package entity

// ColumnKind is the semantic type a column resolves to for visualization.
type ColumnKind int

const (
	ColumnOther ColumnKind = iota // excluded from visualization
	ColumnNumeric
	ColumnCategorical
	ColumnTemporal
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnNumeric:
		return "numeric"
	case ColumnCategorical:
		return "categorical"
	case ColumnTemporal:
		return "temporal"
	default:
		return "other"
	}
}

// Classification partitions a table's columns by kind. Each list keeps table order.
type Classification struct {
	Numeric     []string
	Categorical []string
	Temporal    []string
	Kinds       map[string]ColumnKind
}

func NewClassification() Classification {
	return Classification{Kinds: make(map[string]ColumnKind)}
}

// Assign records the kind of a column. Call it once per column in table order.
func (c *Classification) Assign(name string, kind ColumnKind) {
	c.Kinds[name] = kind
	switch kind {
	case ColumnNumeric:
		c.Numeric = append(c.Numeric, name)
	case ColumnCategorical:
		c.Categorical = append(c.Categorical, name)
	case ColumnTemporal:
		c.Temporal = append(c.Temporal, name)
	}
}

func (c Classification) KindOf(name string) ColumnKind {
	return c.Kinds[name]
}
