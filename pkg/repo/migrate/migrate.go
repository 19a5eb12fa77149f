package migrate

import (
	"context"

	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo/model"
	"github.com/16967143/database-alchemy/pkg/utils"
)

// Table creates the three tables. Safe to re-run: AutoMigrate skips
// existing tables and the constraint blocks swallow duplicate_object.
func Table(ctx context.Context) error {
	return utils.IfErrReturn(func() error {
		return db.DB().DBIns().AutoMigrate(
			&model.Analysis{}, // analyses
			&model.Sample{},   // samples
			&model.Result{},   // results
		)
	}, func() error {
		return foreignKeys(ctx)
	})
}

// foreignKeys adds the FK constraints with raw SQL; the models carry plain
// FK columns only. Postgres has no ADD CONSTRAINT IF NOT EXISTS, hence the
// guarded DO blocks. Other dialects (the embedded sqlite used in tests)
// are left to their defaults.
func foreignKeys(ctx context.Context) error {
	ins := db.DB().DBWithContext(ctx)
	if ins.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`DO $$ BEGIN
			ALTER TABLE samples ADD CONSTRAINT fk_samples_analysis
				FOREIGN KEY (analysis_id) REFERENCES analyses(id);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;`,
		`DO $$ BEGIN
			ALTER TABLE results ADD CONSTRAINT fk_results_sample
				FOREIGN KEY (sample_id) REFERENCES samples(id);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;`,
		`CREATE INDEX IF NOT EXISTS idx_results_metrics ON results USING gin(metrics);`,
	}
	for _, stmt := range stmts {
		if err := ins.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
