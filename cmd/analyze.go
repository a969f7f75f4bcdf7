package cmd

import (
	"fmt"

	"github.com/KaramelBytes/examstat-cli/internal/analysis"
	"github.com/KaramelBytes/examstat-cli/internal/plot"
	"github.com/spf13/cobra"
)

var (
	infoRows int
	plotBins int
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show dataset shape, columns and the first rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		n := current().SampleRows
		if infoRows > 0 {
			n = infoRows
		}
		printer(cmd).Info(analysis.Inspect(t, n))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mean, min, max and std for each subject score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		printer(cmd).Stats(analysis.Describe(t))
		return nil
	},
}

var corrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Show the Pearson correlation matrix between subject scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		printer(cmd).Corr(analysis.Correlate(t))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <category>",
	Short: "Compare mean subject scores across the groups of a category column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		c, err := analysis.CompareGroups(t, args[0])
		if err != nil {
			return err
		}
		printer(cmd).Comparison(c)
		return nil
	},
}

var testprepCmd = &cobra.Command{
	Use:   "testprep",
	Short: "Compare scores of students who completed test preparation against those who did not",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		e, err := analysis.TestPrepEffect(t)
		if err != nil {
			return err
		}
		printer(cmd).PrepEffect(e)
		return nil
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot <subject>",
	Short: "Draw a histogram of one subject's scores (math, reading, writing)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		c := current()
		bins := c.PlotBins
		if plotBins > 0 {
			bins = plotBins
		}
		h, err := plot.NewHistogram(t, args[0], bins)
		if err != nil {
			return err
		}
		if err := h.Render(cmd.OutOrStdout(), c.PlotWidth); err != nil {
			return err
		}
		if c.PlotDir != "" {
			path, err := h.SavePNG(c.PlotDir)
			if err != nil {
				return fmt.Errorf("save plot: %w", err)
			}
			printer(cmd).Successf("Saved plot to %s", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd, statsCmd, corrCmd, compareCmd, testprepCmd, plotCmd)
	infoCmd.Flags().IntVarP(&infoRows, "rows", "n", 0, "number of rows to show (default from sample_rows)")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "number of histogram bins (default from plot_bins)")
}
