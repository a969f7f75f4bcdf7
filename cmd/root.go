package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/examstat-cli/internal/config"
	"github.com/KaramelBytes/examstat-cli/internal/console"
	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/KaramelBytes/examstat-cli/internal/menu"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataPath string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "examstat",
	Short: "ExamStat CLI: explore student exam results from the terminal",
	Long: `ExamStat loads a table of student exam results (CSV, TSV or XLSX) and offers
an interactive menu for descriptive statistics, subject correlations, group
comparisons and score distributions. Each analysis is also available as a
subcommand for scripting.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			var le *dataset.LoadError
			if errors.As(err, &le) {
				// Graceful termination: nothing to analyze.
				fmt.Fprintln(cmd.ErrOrStderr(), "✗ Error:", err)
				return nil
			}
			return err
		}
		debugf("loaded %s: %d rows, %d columns", t.Name(), t.Len(), len(t.Columns()))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		c := current()
		m := menu.New(t, cmd.InOrStdin(), cmd.OutOrStdout(), menu.Options{
			SampleRows: c.SampleRows,
			Bins:       c.PlotBins,
			PlotWidth:  c.PlotWidth,
			PlotDir:    c.PlotDir,
			Color:      c.Color,
		})
		return m.Run(ctx)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.examstat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file (overrides dataset_path)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// current returns the effective settings for this run: the loaded config, or
// built-in defaults when loading failed, with --data applied to a copy.
func current() *cfgpkg.Global {
	c := cfgpkg.Global{
		DatasetPath: dataset.DefaultPath,
		SheetIndex:  1,
		SampleRows:  5,
		PlotBins:    10,
		PlotWidth:   50,
		Color:       true,
	}
	if cfg != nil {
		c = *cfg
	}
	if dataPath != "" {
		c.DatasetPath = dataPath
	}
	return &c
}

func loadTable() (*dataset.Table, error) {
	c := current()
	opt, err := c.DatasetOptions()
	if err != nil {
		return nil, err
	}
	debugf("reading %s", c.DatasetPath)
	return dataset.Load(c.DatasetPath, opt)
}

func printer(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout(), current().Color)
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}
