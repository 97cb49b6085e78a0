package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/habitdash/internal/analysis"
	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/dataset"
	"github.com/KaramelBytes/habitdash/internal/utils"
)

var (
	anaOutputPath string
	anaSampleRows int
	anaGroupBy    []string
	anaCorr       bool
	anaOutliers   bool
	anaOutlierThr float64
	anaRecoded    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Profile the survey CSV and produce a Markdown summary",
	Long: `Profile every column of the survey CSV: kinds, missing values, numeric
statistics with quartiles and robust outlier counts, and the most frequent
categories. Optional group-by means and Pearson correlations. The file
defaults to the configured data_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settings().DataPath
		if len(args) == 1 {
			path = args[0]
		}
		opt := analysis.DefaultOptions()
		if anaSampleRows < 0 {
			return fmt.Errorf("invalid --sample-rows: %d", anaSampleRows)
		}
		opt.SampleRows = anaSampleRows
		opt.GroupBy = anaGroupBy
		opt.Correlations = anaCorr
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = anaOutliers
		}
		if anaOutlierThr > 0 {
			opt.OutlierThreshold = anaOutlierThr
		}

		t, err := dataset.Load(path)
		if err != nil {
			return err
		}
		if anaRecoded {
			if t, err = dashboard.Recode(t); err != nil {
				return err
			}
		}
		rep, err := analysis.Profile(t, filepath.Base(path), opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			okf(cmd.OutOrStdout(), "Wrote analysis of %s rows to %s", count(rep.Rows), anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include (0 = none)")
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	analyzeCmd.Flags().BoolVar(&anaRecoded, "recoded", false, "profile after replacing smoking/drinking codes with labels")
}
