package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/16967143/database-alchemy/pkg/common/code"
	core "github.com/16967143/database-alchemy/pkg/core/ingest"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo/migrate"
	repoRecord "github.com/16967143/database-alchemy/pkg/repo/record"
)

const metadataJSON = `{
  "Analysis": {
    "analysis_name": "Troubleshoot drop out rates",
    "date": "2017-09-20",
    "department": "IT",
    "analyst": "Guido van Rossum"
  },
  "Samples": [
    {"sample_name": "sample01", "sample_type": "Reference", "sample_description": "NA"},
    {"sample_name": "sample02", "sample_type": "Test"}
  ]
}`

const resultsCSV = `sample_name,rate,count,flag
sample01,0.6,45,pass
sample02,0.9,12,
`

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

func writeFiles(t *testing.T, meta, results string) *core.Req {
	t.Helper()
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "metadata.json")
	resultsPath := filepath.Join(dir, "results.csv")
	if err := os.WriteFile(metaPath, []byte(meta), 0o600); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	if err := os.WriteFile(resultsPath, []byte(results), 0o600); err != nil {
		t.Fatalf("write results: %v", err)
	}
	return &core.Req{MetadataPath: metaPath, ResultsPath: resultsPath}
}

func TestRunLoadsEverything(t *testing.T) {
	ctx := setup(t)

	resp, err := New().Run(ctx, writeFiles(t, metadataJSON, resultsCSV))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Samples != 2 || resp.Results != 2 {
		t.Fatalf("resp %+v, want 2 samples and 2 results", resp)
	}

	store := repoRecord.New()
	analyses, err := store.ListAnalyses(ctx)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(analyses) != 1 || analyses[0].Name != "Troubleshoot drop out rates" {
		t.Fatalf("unexpected analyses %+v", analyses)
	}
	if analyses[0].Date.Format("2006-01-02") != "2017-09-20" {
		t.Fatalf("date %v, want 2017-09-20", analyses[0].Date)
	}

	rows, err := store.ResultsBySample(ctx, "sample01")
	if err != nil {
		t.Fatalf("ResultsBySample: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	metrics := rows[0].Metrics
	// Numeric cells become numbers, text stays text, empty cells vanish.
	if metrics["rate"] != 0.6 || metrics["count"] != 45.0 || metrics["flag"] != "pass" {
		t.Fatalf("unexpected metrics %v", metrics)
	}
	if _, ok := metrics["rate"].(float64); !ok {
		t.Fatalf("rate came back as %T, want float64", metrics["rate"])
	}

	rows, err = store.ResultsBySample(ctx, "sample02")
	if err != nil {
		t.Fatalf("ResultsBySample: %v", err)
	}
	if _, ok := rows[0].Metrics["flag"]; ok {
		t.Fatalf("empty cell should be dropped: %v", rows[0].Metrics)
	}
}

func TestRunRejectsUnknownSampleAndRollsBack(t *testing.T) {
	ctx := setup(t)

	badCSV := "sample_name,rate\nsample99,0.5\n"
	_, err := New().Run(ctx, writeFiles(t, metadataJSON, badCSV))
	if !errors.Is(err, code.IngestResultsErr) {
		t.Fatalf("got err %v, want IngestResultsErr", err)
	}

	analyses, err := repoRecord.New().ListAnalyses(ctx)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(analyses) != 0 {
		t.Fatalf("load was not rolled back: %+v", analyses)
	}
}

func TestRunRejectsMissingAnalysisName(t *testing.T) {
	ctx := setup(t)

	meta := `{"Analysis": {"department": "QC"}, "Samples": []}`
	_, err := New().Run(ctx, writeFiles(t, meta, resultsCSV))
	if !errors.Is(err, code.IngestMetaErr) {
		t.Fatalf("got err %v, want IngestMetaErr", err)
	}
}

func TestRunRejectsBadHeader(t *testing.T) {
	ctx := setup(t)

	_, err := New().Run(ctx, writeFiles(t, metadataJSON, "name,rate\nsample01,0.5\n"))
	if !errors.Is(err, code.IngestResultsErr) {
		t.Fatalf("got err %v, want IngestResultsErr", err)
	}
}
