package db

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/16967143/database-alchemy/pkg/common/code"
	coreQuery "github.com/16967143/database-alchemy/pkg/core/query"
	queryImpl "github.com/16967143/database-alchemy/pkg/core/query/query"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
)

func NewQuery() *cobra.Command {
	opts := &ConnOpts{}
	var outputCSV string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Perform a query on a project database",
		Long: `Perform a query on a project database.

Query results are sent to stdout by default, or written as csv when the
--output-csv option is supplied.`,
		SilenceUsage: true,
	}
	opts.BindPersistent(cmd)
	cmd.PersistentFlags().StringVarP(&outputCSV, "output-csv", "o", "",
		"write the results to a csv file")

	cmd.AddCommand(newAnalyses(opts, &outputCSV))
	cmd.AddCommand(newResults(opts, &outputCSV))
	cmd.AddCommand(newDatabases(opts, &outputCSV))
	return cmd
}

func newAnalyses(opts *ConnOpts, outputCSV *string) *cobra.Command {
	in := &coreQuery.AnalysesReq{}
	cmd := &cobra.Command{
		Use:   "analyses DB_NAME",
		Short: "Display information for all the analyses in a database",
		Long: `Display information for all the analyses in a database.

Results can optionally be filtered by date, department, or analyst name.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := queryImpl.New().Analyses(cmd.Context())
			if err != nil {
				return err
			}
			table, err = table.Apply(in.Filters())
			if err != nil {
				return err
			}
			return writeOut(table, *outputCSV)
		},
		PostRunE: closeSession,
	}

	cmd.Flags().StringVar(&in.DateAfter, "date-after", "2015-01-01",
		"only display analyses that occurred after a certain date")
	cmd.Flags().StringVarP(&in.DateBefore, "date-before", "b", time.Now().Format("2006-01-02"),
		"only display analyses that occurred before a certain date")
	cmd.Flags().StringVarP(&in.Department, "department", "d", "",
		"only display analyses for a specific department")
	cmd.Flags().StringVarP(&in.Analyst, "analyst-name", "n", "",
		"only display analyses for a specific analyst")
	return cmd
}

func newResults(opts *ConnOpts, outputCSV *string) *cobra.Command {
	in := &coreQuery.ResultsReq{}
	cmd := &cobra.Command{
		Use:   "results DB_NAME",
		Short: "Display flattened results joined to their samples",
		Long: `Display all results joined to their samples, with each metric unpacked
into its own column. Restrict by one or more analysis ids, or by one or
more sample names; with no filter every result is returned.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(in.AnalysisIDs) > 0 && len(in.SampleNames) > 0 {
				return code.ParamErr.WithMsg("filter by --analysis-id or --sample-name, not both")
			}

			svc := queryImpl.New()
			var (
				table *coreQuery.Table
				err   error
			)
			if len(in.SampleNames) > 0 {
				table, err = svc.ResultsBySample(cmd.Context(), in.SampleNames...)
			} else {
				table, err = svc.ResultsByAnalysis(cmd.Context(), in.AnalysisIDs...)
			}
			if err != nil {
				return err
			}
			return writeOut(table, *outputCSV)
		},
		PostRunE: closeSession,
	}

	cmd.Flags().Int64SliceVarP(&in.AnalysisIDs, "analysis-id", "i", nil,
		"restrict to samples belonging to these analysis ids")
	cmd.Flags().StringSliceVarP(&in.SampleNames, "sample-name", "s", nil,
		"restrict to these sample names")
	return cmd
}

func newDatabases(opts *ConnOpts, outputCSV *string) *cobra.Command {
	return &cobra.Command{
		Use:          "databases DB_NAME",
		Short:        "Display a list of available databases",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := queryImpl.New().Databases(cmd.Context())
			if err != nil {
				return err
			}
			table := coreQuery.NewTable("database")
			for _, name := range names {
				table.Append(coreQuery.Row{"database": name})
			}
			return writeOut(table, *outputCSV)
		},
		PostRunE: closeSession,
	}
}

func closeSession(cmd *cobra.Command, _ []string) error {
	db.ClosePostgres(cmd.Context())
	return nil
}

func writeOut(table *coreQuery.Table, outputCSV string) error {
	if outputCSV == "" {
		return table.Format(os.Stdout)
	}
	f, err := os.Create(outputCSV)
	if err != nil {
		return err
	}
	defer f.Close()
	return table.WriteCSV(f)
}
