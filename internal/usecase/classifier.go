package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
)

// temporalKeywords mark a column as a candidate for date/time coercion.
var temporalKeywords = []string{"date", "time"}

var errNoTemporalValues = errors.New("column has no values to convert")

// ColumnClassifier assigns every column of a table to exactly one kind.
type ColumnClassifier interface {
	// Classify returns the table with temporal candidates coerced, and the classification
	// of its columns. The input table is not modified.
	Classify(table *entity.Table) (*entity.Table, entity.Classification)
}

type columnClassifier struct {
	logger *zap.Logger
}

func NewColumnClassifier(logger *zap.Logger) ColumnClassifier {
	return &columnClassifier{logger: logger}
}

func (c *columnClassifier) Classify(table *entity.Table) (*entity.Table, entity.Classification) {
	cls := entity.NewClassification()
	if table == nil {
		return entity.EmptyTable(), cls
	}

	out := &entity.Table{Columns: make([]*entity.Column, len(table.Columns))}
	for i, col := range table.Columns {
		resolved := col
		if isTemporalCandidate(col.Name) {
			coerced, err := coerceTemporal(col)
			if err != nil {
				c.logger.Info("column could not be converted to datetime",
					zap.String("column", col.Name), zap.Error(err))
			} else {
				resolved = coerced
			}
		}
		out.Columns[i] = resolved
		cls.Assign(resolved.Name, resolveKind(resolved))
	}
	return out, cls
}

func isTemporalCandidate(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range temporalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// coerceTemporal converts every non-null value of col to a time. It is all or nothing:
// one value that does not parse leaves the column as it was.
func coerceTemporal(col *entity.Column) (*entity.Column, error) {
	values := make([]entity.Value, len(col.Values))
	parsed := 0
	for i, v := range col.Values {
		switch v.Kind {
		case entity.KindNull:
			values[i] = v
		case entity.KindTime:
			values[i] = v
			parsed++
		case entity.KindString:
			t, err := dateparse.ParseIn(strings.TrimSpace(v.Str), time.UTC)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			values[i] = entity.Time(t)
			parsed++
		default:
			return nil, fmt.Errorf("row %d: %q is not a date string", i, v.Label())
		}
	}
	if parsed == 0 {
		return nil, errNoTemporalValues
	}
	return &entity.Column{Name: col.Name, Values: values}, nil
}

// resolveKind derives a column's kind from the values it holds after coercion.
func resolveKind(col *entity.Column) entity.ColumnKind {
	var numbers, times, bools, nested, nonNull int
	for _, v := range col.Values {
		switch v.Kind {
		case entity.KindNull:
			continue
		case entity.KindNumber:
			numbers++
		case entity.KindTime:
			times++
		case entity.KindBool:
			bools++
		case entity.KindNested:
			nested++
		}
		nonNull++
	}

	switch {
	case nested > 0:
		return entity.ColumnOther
	case nonNull == 0:
		return entity.ColumnCategorical
	case numbers == nonNull:
		return entity.ColumnNumeric
	case times == nonNull:
		return entity.ColumnTemporal
	case bools == nonNull:
		return entity.ColumnOther
	default:
		return entity.ColumnCategorical
	}
}
