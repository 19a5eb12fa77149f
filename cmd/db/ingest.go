package db

import (
	"fmt"

	"github.com/spf13/cobra"

	coreIngest "github.com/16967143/database-alchemy/pkg/core/ingest"
	ingestImpl "github.com/16967143/database-alchemy/pkg/core/ingest/ingest"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
)

func NewIngest() *cobra.Command {
	opts := &ConnOpts{}
	cmd := &cobra.Command{
		Use:   "ingest METADATA_JSON RESULTS_CSV DB_NAME",
		Short: "Insert new project data from a metadata json and a results csv file",
		Long: `Insert new project data into an existing database by supplying a results
csv file and an accompanying metadata json file describing the analysis.

METADATA_JSON must contain the top-level fields Analysis and Samples:

  {
    "Analysis": {
      "analysis_name": "Troubleshoot drop out rates",
      "date": "2017-09-20",
      "department": "IT",
      "analyst": "Guido van Rossum"
    },
    "Samples": [
      {"sample_name": "sample01", "sample_type": "Reference"},
      {"sample_name": "sample02", "sample_type": "Test"}
    ]
  }

RESULTS_CSV must carry a sample_name column matching the json file,
followed by one column per metric:

  sample_name,metric_1,metric_2
  sample01,0.6,45
  sample02,0.9,12

The whole load is one transaction: nothing lands on failure.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[2])
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ingestImpl.New().Run(cmd.Context(), &coreIngest.Req{
				MetadataPath: args[0],
				ResultsPath:  args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("inserted analysis %d with %d samples and %d results\n",
				resp.AnalysisID, resp.Samples, resp.Results)
			return nil
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	opts.Bind(cmd)
	return cmd
}
