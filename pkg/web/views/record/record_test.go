package record

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo/migrate"
	"github.com/16967143/database-alchemy/pkg/repo/model"
	repoRecord "github.com/16967143/database-alchemy/pkg/repo/record"
)

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	} `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	db.InitSQLite(ctx, ":memory:", db.LogConf{})
	t.Cleanup(func() { db.ClosePostgres(ctx) })
	if err := migrate.Table(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := repoRecord.New()
	date, _ := time.Parse("2006-01-02", "2017-09-20")
	a := &model.Analysis{Name: "MSQ100", Date: date, Department: "QC", Analyst: "DMT"}
	if err := store.CreateAnalysis(ctx, a); err != nil {
		t.Fatalf("create analysis: %v", err)
	}
	s := &model.Sample{Name: "S01", AnalysisID: a.ID}
	if err := store.CreateSamples(ctx, s); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if err := store.CreateResults(ctx, &model.Result{
		SampleID: s.ID,
		Metrics:  datatypes.JSONMap{"temp": 37.2},
	}); err != nil {
		t.Fatalf("create result: %v", err)
	}

	g := gin.New()
	h := NewHandle()
	g.GET("/api/v1/analyses", h.Analyses)
	g.GET("/api/v1/results", h.Results)
	return g
}

func get(t *testing.T, g *gin.Engine, url string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	g.ServeHTTP(w, req)
	resp := &envelope{}
	if err := json.Unmarshal(w.Body.Bytes(), resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestAnalysesEndpoint(t *testing.T) {
	g := setupRouter(t)

	w, resp := get(t, g, "/api/v1/analyses?department=QC")
	if w.Code != http.StatusOK || resp.Code != 0 {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if len(resp.Data.Rows) != 1 || resp.Data.Rows[0]["analysis_name"] != "MSQ100" {
		t.Fatalf("unexpected rows %v", resp.Data.Rows)
	}

	w, resp = get(t, g, "/api/v1/analyses?department=Logistics")
	if w.Code != http.StatusOK || len(resp.Data.Rows) != 0 {
		t.Fatalf("want empty table, got %s", w.Body.String())
	}
}

func TestAnalysesEndpointDateFilter(t *testing.T) {
	g := setupRouter(t)

	_, resp := get(t, g, "/api/v1/analyses?date_after=2020-01-01")
	if len(resp.Data.Rows) != 0 {
		t.Fatalf("2017 analysis should be filtered out: %v", resp.Data.Rows)
	}
}

func TestResultsEndpoint(t *testing.T) {
	g := setupRouter(t)

	w, resp := get(t, g, "/api/v1/results?sample_name=S01")
	if w.Code != http.StatusOK || resp.Code != 0 {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if len(resp.Data.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(resp.Data.Rows))
	}
	row := resp.Data.Rows[0]
	if row["sample_name"] != "S01" || row["temp"] != 37.2 {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestResultsEndpointRejectsMixedFilters(t *testing.T) {
	g := setupRouter(t)

	w, resp := get(t, g, "/api/v1/results?sample_name=S01&analysis_id=1")
	if w.Code != http.StatusBadRequest || resp.Code == 0 {
		t.Fatalf("want 400, got %d body %s", w.Code, w.Body.String())
	}
}
