package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/utils"
	"github.com/KaramelBytes/habitdash/internal/web"
)

var (
	renderData       string
	renderOut        string
	renderFiguresDir string
	renderGroups     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the dashboard as a static HTML file",
	Long: `Build the dashboard and write it as one HTML document with the selected
groups expanded (all of them by default). With --figures-dir every chart is
also written as a Plotly JSON file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toggles, err := dashboard.ParseToggles(renderGroups)
		if err != nil {
			return err
		}
		path := dataPathFlag(cmd, renderData)
		d, err := buildDashboard(path)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := web.RenderStatic(cmd.Context(), &buf, d, toggles); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
		if err := utils.SafeWriteFile(renderOut, buf.Bytes()); err != nil {
			return fmt.Errorf("write %s: %w", renderOut, err)
		}
		okf(cmd.OutOrStdout(), "Wrote dashboard for %s records to %s", count(d.Rows), renderOut)

		if renderFiguresDir == "" {
			return nil
		}
		n := 0
		for _, g := range d.Active(toggles) {
			for _, f := range g.Figures {
				b, err := f.JSON()
				if err != nil {
					return fmt.Errorf("encode figure %s: %w", f.ID, err)
				}
				out := filepath.Join(renderFiguresDir, utils.SafeFileName(f.ID)+".json")
				if err := utils.SafeWriteFile(out, b); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				n++
			}
		}
		okf(cmd.OutOrStdout(), "Wrote %d figures to %s", n, renderFiguresDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderData, "data", "", "survey CSV path (overrides config data_path)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "habitdash.html", "output HTML path")
	renderCmd.Flags().StringVar(&renderFiguresDir, "figures-dir", "", "optional directory for per-figure Plotly JSON")
	renderCmd.Flags().StringVar(&renderGroups, "groups", "all", "comma-separated groups to expand: respondents,pressure,cholesterol,organs or all")
}
