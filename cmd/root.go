package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/habitdash/internal/config"
	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/dataset"
	hdlog "github.com/KaramelBytes/habitdash/internal/log"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "habitdash",
	Short: "Habitdash: charts on how smoking and drinking relate to health markers",
	Long: `Habitdash loads a health-survey CSV, recodes its smoking and drinking
columns, and serves an interactive chart dashboard. It can also print the
grouped summary, profile the dataset, and export a static HTML page.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.habitdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func loadConfig() {
	if noColor {
		color.NoColor = true
	}
	logger = hdlog.Setup(verbose, quiet)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		warnf("failed to load config: %v", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
}

// settings returns the loaded configuration, or defaults when a command runs
// without the root initializer.
func settings() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}

func currentLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// dataPathFlag returns the --data flag value when set, the configured path otherwise.
func dataPathFlag(cmd *cobra.Command, flagVal string) string {
	if cmd.Flags().Changed("data") && flagVal != "" {
		return flagVal
	}
	return settings().DataPath
}

// buildDashboard loads the CSV at path and runs the full pipeline on it.
func buildDashboard(path string) (*dashboard.Dashboard, error) {
	raw, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	d, err := dashboard.Build(raw, dashboardOptions(path))
	if err != nil {
		return nil, fmt.Errorf("build dashboard from %s: %w", path, err)
	}
	currentLogger().Debug("dashboard built", "source", path, "rows", d.Rows, "build", d.BuildID)
	return d, nil
}

func dashboardOptions(path string) dashboard.Options {
	return dashboard.Options{Limits: settings().Limits, Source: path}
}
