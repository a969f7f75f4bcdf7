package cmd

import (
	"fmt"

	"github.com/KaramelBytes/examstat-cli/internal/analysis"
	"github.com/KaramelBytes/examstat-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputPath string
	repSampleRows int
	repGroupBy    []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analysis and produce a Markdown report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		opt := analysis.ReportOptions{SampleRows: current().SampleRows, GroupBy: repGroupBy}
		if repSampleRows > 0 {
			opt.SampleRows = repSampleRows
		}
		rep := analysis.BuildReport(t, opt)
		debugf("report %s: %d comparisons, %d warnings", rep.ID, len(rep.Comparisons), len(rep.Warnings))
		md := rep.Markdown()

		if repOutputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		}
		if err := utils.SafeWriteFile(repOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		printer(cmd).Successf("Wrote report to %s", repOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	reportCmd.Flags().IntVar(&repSampleRows, "sample-rows", 0, "number of sample rows to include (default from sample_rows)")
	reportCmd.Flags().StringSliceVar(&repGroupBy, "group-by", []string{"gender", "test_preparation_course"}, "comma-separated category columns to compare (repeatable)")
}
