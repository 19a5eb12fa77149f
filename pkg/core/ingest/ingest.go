package ingest

import (
	"context"
)

// Service loads a metadata JSON file and a results CSV file into the
// database as one analysis, its samples, and one result row per CSV line.
// The whole load runs in a single transaction.
type Service interface {
	Run(ctx context.Context, req *Req) (*Resp, error)
}
