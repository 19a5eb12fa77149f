package record

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo"
	"github.com/16967143/database-alchemy/pkg/repo/model"
)

type recordImpl struct {
	*db.Datastore
}

func New() repo.RecordRepo {
	return &recordImpl{Datastore: db.DB()}
}

func (r *recordImpl) CreateAnalysis(ctx context.Context, data *model.Analysis) error {
	return r.DBWithContext(ctx).Create(data).Error
}

func (r *recordImpl) CreateSamples(ctx context.Context, datas ...*model.Sample) error {
	if len(datas) == 0 {
		return nil
	}
	return r.DBWithContext(ctx).Create(&datas).Error
}

func (r *recordImpl) CreateResults(ctx context.Context, datas ...*model.Result) error {
	if len(datas) == 0 {
		return nil
	}
	return r.DBWithContext(ctx).Create(&datas).Error
}

func (r *recordImpl) ListAnalyses(ctx context.Context) ([]*model.Analysis, error) {
	var datas []*model.Analysis
	err := r.DBWithContext(ctx).Order("id").Find(&datas).Error
	return datas, err
}

func (r *recordImpl) ResultsByAnalysis(ctx context.Context, analysisIDs ...int64) ([]*repo.ResultRow, error) {
	query := r.joinQuery(ctx)
	switch len(analysisIDs) {
	case 0:
	case 1:
		query = query.Where("samples.analysis_id = ?", analysisIDs[0])
	default:
		query = query.Where("samples.analysis_id IN ?", analysisIDs)
	}

	var rows []*repo.ResultRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	normalizeMetrics(rows)
	return rows, nil
}

func (r *recordImpl) ResultsBySample(ctx context.Context, sampleNames ...string) ([]*repo.ResultRow, error) {
	query := r.joinQuery(ctx)
	switch len(sampleNames) {
	case 0:
	case 1:
		query = query.Where("samples.name = ?", sampleNames[0])
	default:
		query = query.Where("samples.name IN ?", sampleNames)
	}

	var rows []*repo.ResultRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	normalizeMetrics(rows)
	return rows, nil
}

// normalizeMetrics maps scanned metric cells onto the value types the rest
// of the code works with: JSONMap decodes numbers as json.Number, callers
// expect float64.
func normalizeMetrics(rows []*repo.ResultRow) {
	for _, r := range rows {
		for k, v := range r.Metrics {
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					r.Metrics[k] = f
				} else {
					r.Metrics[k] = n.String()
				}
			}
		}
	}
}

func (r *recordImpl) joinQuery(ctx context.Context) *gorm.DB {
	return r.DBWithContext(ctx).
		Table("results").
		Select("samples.name AS sample_name, samples.analysis_id AS analysis_id, results.metrics AS metrics").
		Joins("JOIN samples ON samples.id = results.sample_id").
		Order("results.id")
}

func (r *recordImpl) ListDatabases(ctx context.Context) ([]string, error) {
	var names []string
	err := r.DBWithContext(ctx).
		Raw("SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname").
		Scan(&names).Error
	return names, err
}
