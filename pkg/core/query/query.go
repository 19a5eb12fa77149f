package query

import (
	"context"
)

// Service is the read side over the three tables. All methods run against
// the session opened for this invocation and return flattened tables ready
// for rendering or filtering.
type Service interface {
	// Analyses lists every analysis with fixed columns analysis_id,
	// analysis_name, date, department, analyst.
	Analyses(ctx context.Context) (*Table, error)
	// ResultsByAnalysis joins Result to Sample, optionally restricted to
	// the given analysis ids, and spreads each metrics document into
	// columns. ResultsBySample is the same keyed on sample name.
	ResultsByAnalysis(ctx context.Context, analysisIDs ...int64) (*Table, error)
	ResultsBySample(ctx context.Context, sampleNames ...string) (*Table, error)
	// Databases lists the databases visible on the server.
	Databases(ctx context.Context) ([]string, error)
}
