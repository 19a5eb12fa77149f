package db

import (
	"github.com/spf13/cobra"

	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/repo/migrate"
)

func NewCreate() *cobra.Command {
	opts := &ConnOpts{}
	cmd := &cobra.Command{
		Use:   "create DB_NAME",
		Short: "Set up a project database for tracking analyses, samples, and results",
		Long: `Set up a project database for tracking analyses, samples, and results.

The schema is generic in the sense that it should suit most projects:

  analyses: id (PK), analysis_name, date, department, analyst
  samples:  id (PK), analysis_id (FK), sample_name, sample_type, sample_description
  results:  id (PK), sample_id (FK), metrics (JSONB)

DB_NAME must name an existing, empty database. Re-running against an
initialized database leaves it untouched.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	opts.Bind(cmd)
	return cmd
}
