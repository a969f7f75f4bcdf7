package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/examstat-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ExamStat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		c := current()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "dataset_path: %s\n", c.DatasetPath)
		if c.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(w, "decimal_separator: %s\n", c.DecimalSeparator)
		if c.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(w, "sheet_index: %d\n", c.SheetIndex)
		fmt.Fprintf(w, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(w, "plot_bins: %d\n", c.PlotBins)
		fmt.Fprintf(w, "plot_width: %d\n", c.PlotWidth)
		if c.PlotDir != "" {
			fmt.Fprintf(w, "plot_dir: %s\n", c.PlotDir)
		}
		fmt.Fprintf(w, "color: %t\n", c.Color)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file alone so env overrides and --data are not persisted.
		c, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
