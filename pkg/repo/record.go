package repo

import (
	"context"

	"gorm.io/datatypes"

	"github.com/16967143/database-alchemy/pkg/repo/model"
)

// ResultRow is one row of the results-samples join, scanned straight from
// the select list.
type ResultRow struct {
	SampleName string            `gorm:"column:sample_name"`
	AnalysisID int64             `gorm:"column:analysis_id"`
	Metrics    datatypes.JSONMap `gorm:"column:metrics"`
}

type RecordRepo interface {
	CreateAnalysis(ctx context.Context, data *model.Analysis) error
	CreateSamples(ctx context.Context, datas ...*model.Sample) error
	CreateResults(ctx context.Context, datas ...*model.Result) error

	ListAnalyses(ctx context.Context) ([]*model.Analysis, error)
	// ResultsByAnalysis returns joined rows restricted to the given analysis
	// ids; no ids means every row. ResultsBySample is the same keyed on
	// sample name.
	ResultsByAnalysis(ctx context.Context, analysisIDs ...int64) ([]*ResultRow, error)
	ResultsBySample(ctx context.Context, sampleNames ...string) ([]*ResultRow, error)

	ListDatabases(ctx context.Context) ([]string, error)
}
