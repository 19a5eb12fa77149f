package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"github.com/16967143/database-alchemy/pkg/common/code"
	core "github.com/16967143/database-alchemy/pkg/core/ingest"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/middleware/logger"
	"github.com/16967143/database-alchemy/pkg/repo"
	"github.com/16967143/database-alchemy/pkg/repo/model"
	repoRecord "github.com/16967143/database-alchemy/pkg/repo/record"
)

const sampleNameColumn = "sample_name"

type ingestImpl struct {
	recordStore repo.RecordRepo
}

func New() core.Service {
	return &ingestImpl{recordStore: repoRecord.New()}
}

func (i *ingestImpl) Run(ctx context.Context, req *core.Req) (*core.Resp, error) {
	meta, err := loadMetadata(req.MetadataPath)
	if err != nil {
		return nil, err
	}
	header, rows, err := loadResults(req.ResultsPath)
	if err != nil {
		return nil, err
	}

	analysis, err := buildAnalysis(ctx, &meta.Analysis)
	if err != nil {
		return nil, err
	}

	resp := &core.Resp{}
	err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
		if err := i.recordStore.CreateAnalysis(txCtx, analysis); err != nil {
			return code.IngestWriteErr.WithErr(err)
		}

		samples := make([]*model.Sample, 0, len(meta.Samples))
		for _, s := range meta.Samples {
			if s.Name == "" {
				return code.IngestMetaErr.WithMsg("sample block missing sample_name")
			}
			samples = append(samples, &model.Sample{
				Name:        s.Name,
				Type:        s.Type,
				Description: s.Description,
				AnalysisID:  analysis.ID,
			})
		}
		if err := i.recordStore.CreateSamples(txCtx, samples...); err != nil {
			return code.IngestWriteErr.WithErr(err)
		}

		sampleIDs := make(map[string]int64, len(samples))
		for _, s := range samples {
			sampleIDs[s.Name] = s.ID
		}

		results := make([]*model.Result, 0, len(rows))
		for _, record := range rows {
			sampleID, ok := sampleIDs[record[0]]
			if !ok {
				return code.IngestResultsErr.WithMsg(
					fmt.Sprintf("results row names unknown sample %q", record[0]))
			}
			results = append(results, &model.Result{
				SampleID: sampleID,
				Metrics:  buildMetrics(header, record),
			})
		}
		if err := i.recordStore.CreateResults(txCtx, results...); err != nil {
			return code.IngestWriteErr.WithErr(err)
		}

		resp.AnalysisID = analysis.ID
		resp.Samples = len(samples)
		resp.Results = len(results)
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "ingest %s + %s err: %+v", req.MetadataPath, req.ResultsPath, err)
		return nil, err
	}
	return resp, nil
}

func loadMetadata(path string) (*core.Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, code.IngestMetaErr.WithErr(err)
	}
	meta := &core.Metadata{}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, code.IngestMetaErr.WithErr(err)
	}
	if meta.Analysis.Name == "" {
		return nil, code.IngestMetaErr.WithMsg("Analysis block missing analysis_name")
	}
	return meta, nil
}

func buildAnalysis(ctx context.Context, meta *core.AnalysisMeta) (*model.Analysis, error) {
	date := time.Now()
	if meta.Date != "" {
		parsed, err := time.Parse("2006-01-02", meta.Date)
		if err != nil {
			return nil, code.IngestMetaErr.WithMsg(fmt.Sprintf("bad analysis date %q", meta.Date))
		}
		date = parsed
	}
	if meta.Department == "" {
		logger.Warnf(ctx, "metadata has no department for analysis %q", meta.Name)
	}
	if meta.Analyst == "" {
		logger.Warnf(ctx, "metadata has no analyst for analysis %q", meta.Name)
	}
	return &model.Analysis{
		Name:       meta.Name,
		Date:       date,
		Department: meta.Department,
		Analyst:    meta.Analyst,
	}, nil
}

// loadResults reads the CSV: header sample_name followed by one column per
// metric, then one row per result.
func loadResults(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, code.IngestResultsErr.WithErr(err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, code.IngestResultsErr.WithErr(err)
	}
	if len(records) == 0 {
		return nil, nil, code.IngestResultsErr.WithMsg("results file is empty")
	}
	header := records[0]
	if len(header) < 2 || header[0] != sampleNameColumn {
		return nil, nil, code.IngestResultsErr.WithMsg(
			fmt.Sprintf("results header must start with %s and name at least one metric", sampleNameColumn))
	}
	return header, records[1:], nil
}

// buildMetrics turns one CSV row into the metrics document. Numeric cells
// become JSON numbers, empty cells are dropped, anything else stays a
// string.
func buildMetrics(header []string, record []string) datatypes.JSONMap {
	metrics := datatypes.JSONMap{}
	for i := 1; i < len(header) && i < len(record); i++ {
		cell := record[i]
		if cell == "" {
			continue
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			metrics[header[i]] = f
		} else {
			metrics[header[i]] = cell
		}
	}
	return metrics
}
