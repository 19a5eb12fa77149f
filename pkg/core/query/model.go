package query

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"
)

// Row maps column name to value. Values come either from model fields or
// from an unpacked metrics document, so anything JSON can hold may appear.
type Row map[string]any

// Table is an ordered sequence of rows. Columns is the union of keys seen
// across rows: the seed columns first, then metric columns in sorted order
// as each is first encountered. Rows lacking a column render empty.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	seen map[string]struct{}
}

func NewTable(columns ...string) *Table {
	t := &Table{
		Columns: append([]string{}, columns...),
		seen:    make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		t.seen[c] = struct{}{}
	}
	return t
}

// Append adds a row and extends the column set with any new keys.
func (t *Table) Append(row Row) {
	added := make([]string, 0, len(row))
	for k := range row {
		if _, ok := t.seen[k]; !ok {
			t.seen[k] = struct{}{}
			added = append(added, k)
		}
	}
	sort.Strings(added)
	t.Columns = append(t.Columns, added...)
	t.Rows = append(t.Rows, row)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.seen[name]
	return ok
}

// WriteCSV writes the table as comma-separated rows with a header line.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Format writes an aligned text rendering for terminals.
func (t *Table) Format(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(row[col]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// Filter names either a date bound (date_after, date_before) or a column
// whose value must match exactly. A Filter whose value is empty is skipped.
type Filter struct {
	Name  string
	Value any
}

// Filters apply conjunctively, in order.
type Filters []Filter

// AnalysesReq carries the analyses-listing filters; empty fields are not
// applied. Analyst binds from analyst_name but filters the analyst column.
type AnalysesReq struct {
	DateAfter  string `form:"date_after"`
	DateBefore string `form:"date_before"`
	Department string `form:"department"`
	Analyst    string `form:"analyst_name"`
}

// Filters returns the request as ordered filters, mirroring the option
// declaration order of the CLI.
func (r *AnalysesReq) Filters() Filters {
	return Filters{
		{Name: "date_after", Value: r.DateAfter},
		{Name: "date_before", Value: r.DateBefore},
		{Name: "department", Value: r.Department},
		{Name: "analyst", Value: r.Analyst},
	}
}

// ResultsReq restricts the results-samples join; both empty means all rows.
type ResultsReq struct {
	AnalysisIDs []int64  `form:"analysis_id"`
	SampleNames []string `form:"sample_name"`
}
