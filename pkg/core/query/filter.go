package query

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/16967143/database-alchemy/pkg/common/code"
)

const (
	filterDateAfter  = "date_after"
	filterDateBefore = "date_before"
	dateColumn       = "date"
)

// Apply narrows the table by each filter in turn: date_after keeps rows
// whose date column is strictly greater than the value, date_before
// strictly less, anything else is exact equality on the named column.
// Filters with empty values are skipped. Naming a column the table does
// not have is an error.
func (t *Table) Apply(filters Filters) (*Table, error) {
	out := t
	for _, f := range filters {
		if skippable(f.Value) {
			continue
		}

		column := f.Name
		if f.Name == filterDateAfter || f.Name == filterDateBefore {
			column = dateColumn
		}
		if !out.HasColumn(column) {
			return nil, code.FilterColumnErr.WithMsg(fmt.Sprintf("unknown filter column %q", column))
		}

		keep, err := predicate(f)
		if err != nil {
			return nil, err
		}
		next := NewTable(out.Columns...)
		for _, row := range out.Rows {
			ok, err := keep(row)
			if err != nil {
				return nil, err
			}
			if ok {
				next.Append(row)
			}
		}
		out = next
	}
	return out, nil
}

func predicate(f Filter) (func(Row) (bool, error), error) {
	switch f.Name {
	case filterDateAfter, filterDateBefore:
		bound, err := asTime(f.Value)
		if err != nil {
			return nil, code.FilterValueErr.WithMsg(fmt.Sprintf("%s: %v", f.Name, err))
		}
		after := f.Name == filterDateAfter
		return func(row Row) (bool, error) {
			d, err := asTime(row[dateColumn])
			if err != nil {
				return false, code.FilterValueErr.WithMsg(fmt.Sprintf("date column: %v", err))
			}
			if after {
				return d.After(bound), nil
			}
			return d.Before(bound), nil
		}, nil
	default:
		return func(row Row) (bool, error) {
			v, ok := row[f.Name]
			return ok && equals(v, f.Value), nil
		}, nil
	}
}

// skippable reports whether a filter value counts as unset.
func skippable(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case *string:
		return val == nil || *val == ""
	case time.Time:
		return val.IsZero()
	default:
		return false
	}
}

func asTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		if d, err := time.Parse("2006-01-02", val); err == nil {
			return d, nil
		}
		if d, err := time.Parse(time.RFC3339, val); err == nil {
			return d, nil
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as date", val)
	default:
		return time.Time{}, fmt.Errorf("cannot interpret %T as date", v)
	}
}

func equals(a, b any) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	if at, ok := a.(time.Time); ok {
		bt, err := asTime(b)
		return err == nil && at.Equal(bt)
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
