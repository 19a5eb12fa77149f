package query

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	core "github.com/16967143/database-alchemy/pkg/core/query"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo/migrate"
	"github.com/16967143/database-alchemy/pkg/repo/model"
	repoRecord "github.com/16967143/database-alchemy/pkg/repo/record"
)

func setup(t *testing.T) context.Context {
	t.Helper()
	ctx := context.Background()
	db.InitSQLite(ctx, ":memory:", db.LogConf{})
	t.Cleanup(func() { db.ClosePostgres(ctx) })
	if err := migrate.Table(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return ctx
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// seed loads two analyses, three samples, three results.
func seed(t *testing.T, ctx context.Context) {
	t.Helper()
	store := repoRecord.New()

	a1 := &model.Analysis{Name: "MSQ100", Date: date("2017-09-20"), Department: "QC", Analyst: "DMT"}
	a2 := &model.Analysis{Name: "RUN7", Date: date("2021-02-14"), Department: "IT", Analyst: "JRR"}
	for _, a := range []*model.Analysis{a1, a2} {
		if err := store.CreateAnalysis(ctx, a); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}

	ref := "Reference"
	s1 := &model.Sample{Name: "S01", Type: &ref, AnalysisID: a1.ID}
	s2 := &model.Sample{Name: "S02", AnalysisID: a1.ID}
	s3 := &model.Sample{Name: "S03", AnalysisID: a2.ID}
	if err := store.CreateSamples(ctx, s1, s2, s3); err != nil {
		t.Fatalf("create samples: %v", err)
	}

	results := []*model.Result{
		{SampleID: s1.ID, Metrics: datatypes.JSONMap{"temp": 37.2, "ph": 7.1}},
		{SampleID: s2.ID, Metrics: datatypes.JSONMap{"yield": 0.9}},
		{SampleID: s3.ID, Metrics: datatypes.JSONMap{"temp": 36.0}},
	}
	if err := store.CreateResults(ctx, results...); err != nil {
		t.Fatalf("create results: %v", err)
	}
}

func sampleNames(table *core.Table) []string {
	out := make([]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		out = append(out, r["sample_name"].(string))
	}
	return out
}

func TestAnalysesListing(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().Analyses(ctx)
	if err != nil {
		t.Fatalf("Analyses: %v", err)
	}

	wantCols := []string{"analysis_id", "analysis_name", "date", "department", "analyst"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("columns %v, want %v", table.Columns, wantCols)
	}
	for i, c := range wantCols {
		if table.Columns[i] != c {
			t.Fatalf("columns %v, want %v", table.Columns, wantCols)
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	first := table.Rows[0]
	if first["analysis_name"] != "MSQ100" || first["department"] != "QC" || first["analyst"] != "DMT" {
		t.Fatalf("unexpected first row: %v", first)
	}
}

func TestResultsByAnalysisSingle(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsByAnalysis(ctx, 1)
	if err != nil {
		t.Fatalf("ResultsByAnalysis: %v", err)
	}
	got := sampleNames(table)
	if len(got) != 2 || got[0] != "S01" || got[1] != "S02" {
		t.Fatalf("got samples %v, want [S01 S02]", got)
	}
	for _, row := range table.Rows {
		if row["analysis_id"] != int64(1) {
			t.Fatalf("row leaked from another analysis: %v", row)
		}
	}
}

func TestResultsByAnalysisSet(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsByAnalysis(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ResultsByAnalysis: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(table.Rows))
	}
}

func TestResultsByAnalysisUnfiltered(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsByAnalysis(ctx)
	if err != nil {
		t.Fatalf("ResultsByAnalysis: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want all 3", len(table.Rows))
	}
}

func TestResultsBySample(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsBySample(ctx, "S01", "S03")
	if err != nil {
		t.Fatalf("ResultsBySample: %v", err)
	}
	got := sampleNames(table)
	if len(got) != 2 || got[0] != "S01" || got[1] != "S03" {
		t.Fatalf("got samples %v, want [S01 S03]", got)
	}
}

func TestFlattenSpreadsMetrics(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsBySample(ctx, "S01")
	if err != nil {
		t.Fatalf("ResultsBySample: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}
	row := table.Rows[0]
	if row["sample_name"] != "S01" || row["analysis_id"] != int64(1) {
		t.Fatalf("identity columns wrong: %v", row)
	}
	if row["temp"] != 37.2 || row["ph"] != 7.1 {
		t.Fatalf("metrics not spread into columns: %v", row)
	}
}

func TestStoredMetricsComeBackAsFloats(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsBySample(ctx, "S01")
	if err != nil {
		t.Fatalf("ResultsBySample: %v", err)
	}
	v, ok := table.Rows[0]["temp"].(float64)
	if !ok {
		t.Fatalf("temp came back as %T, want float64", table.Rows[0]["temp"])
	}
	if v != 37.2 {
		t.Fatalf("temp = %v, want 37.2", v)
	}
}

func TestFilterNumericMetricFromStore(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsByAnalysis(ctx, 2)
	if err != nil {
		t.Fatalf("ResultsByAnalysis: %v", err)
	}

	// S03 stores temp as 36.0; an integer filter value must still match.
	got, err := table.Apply(core.Filters{{Name: "temp", Value: 36}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["sample_name"] != "S03" {
		t.Fatalf("got %v, want the S03 row only", got.Rows)
	}
}

func TestHeterogeneousMetricsAcrossRows(t *testing.T) {
	ctx := setup(t)
	seed(t, ctx)

	table, err := New().ResultsByAnalysis(ctx, 1)
	if err != nil {
		t.Fatalf("ResultsByAnalysis: %v", err)
	}
	// S01 carries temp+ph, S02 only yield; the table holds the union.
	for _, col := range []string{"sample_name", "analysis_id", "ph", "temp", "yield"} {
		if !table.HasColumn(col) {
			t.Fatalf("missing column %q in %v", col, table.Columns)
		}
	}
	for _, row := range table.Rows {
		if row["sample_name"] == "S02" {
			if _, ok := row["temp"]; ok {
				t.Fatalf("S02 should have no temp value: %v", row)
			}
			if row["yield"] != 0.9 {
				t.Fatalf("S02 yield wrong: %v", row)
			}
		}
	}
}
