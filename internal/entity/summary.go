package entity

// ColumnSummary holds descriptive statistics for one column. Which fields are set
// depends on the column kind: numeric columns carry the moments and quartiles,
// categorical columns carry unique/top/freq, temporal columns carry first/last.
type ColumnSummary struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Count  int      `json:"count"`
	Unique *int     `json:"unique,omitempty"`
	Top    *string  `json:"top,omitempty"`
	Freq   *int     `json:"freq,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Q25    *float64 `json:"25%,omitempty"`
	Q50    *float64 `json:"50%,omitempty"`
	Q75    *float64 `json:"75%,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	First  *string  `json:"first,omitempty"`
	Last   *string  `json:"last,omitempty"`
}

// Summary is the tabular description of a fetched dataset.
type Summary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

func (s Summary) Empty() bool {
	return s.Rows == 0
}
