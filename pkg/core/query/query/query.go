package query

import (
	"context"

	"github.com/16967143/database-alchemy/pkg/common/code"
	core "github.com/16967143/database-alchemy/pkg/core/query"
	"github.com/16967143/database-alchemy/pkg/middleware/logger"
	"github.com/16967143/database-alchemy/pkg/repo"
	repoRecord "github.com/16967143/database-alchemy/pkg/repo/record"
)

type queryImpl struct {
	recordStore repo.RecordRepo
}

func New() core.Service {
	return &queryImpl{recordStore: repoRecord.New()}
}

func (q *queryImpl) Analyses(ctx context.Context) (*core.Table, error) {
	list, err := q.recordStore.ListAnalyses(ctx)
	if err != nil {
		logger.Errorf(ctx, "ListAnalyses err: %+v", err)
		return nil, code.QueryAnalysesErr.WithErr(err)
	}

	t := core.NewTable("analysis_id", "analysis_name", "date", "department", "analyst")
	for _, a := range list {
		t.Append(core.Row{
			"analysis_id":   a.ID,
			"analysis_name": a.Name,
			"date":          a.Date,
			"department":    a.Department,
			"analyst":       a.Analyst,
		})
	}
	return t, nil
}

func (q *queryImpl) ResultsByAnalysis(ctx context.Context, analysisIDs ...int64) (*core.Table, error) {
	rows, err := q.recordStore.ResultsByAnalysis(ctx, analysisIDs...)
	if err != nil {
		logger.Errorf(ctx, "ResultsByAnalysis err: %+v", err)
		return nil, code.QueryResultsErr.WithErr(err)
	}
	return flatten(rows), nil
}

func (q *queryImpl) ResultsBySample(ctx context.Context, sampleNames ...string) (*core.Table, error) {
	rows, err := q.recordStore.ResultsBySample(ctx, sampleNames...)
	if err != nil {
		logger.Errorf(ctx, "ResultsBySample err: %+v", err)
		return nil, code.QueryResultsErr.WithErr(err)
	}
	return flatten(rows), nil
}

func (q *queryImpl) Databases(ctx context.Context) ([]string, error) {
	names, err := q.recordStore.ListDatabases(ctx)
	if err != nil {
		logger.Errorf(ctx, "ListDatabases err: %+v", err)
		return nil, code.QueryAnalysesErr.WithErr(err)
	}
	return names, nil
}

// flatten emits one row per joined pair: sample_name and analysis_id
// first, then every key of the metrics document as its own column. Rows
// are free to carry different metric sets.
func flatten(rows []*repo.ResultRow) *core.Table {
	t := core.NewTable("sample_name", "analysis_id")
	for _, r := range rows {
		row := core.Row{
			"sample_name": r.SampleName,
			"analysis_id": r.AnalysisID,
		}
		for k, v := range r.Metrics {
			row[k] = v
		}
		t.Append(row)
	}
	return t
}
