package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/dataset"
	"github.com/KaramelBytes/habitdash/internal/utils"
)

var (
	sumData   string
	sumFormat string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the average age per sex, smoking and drinking group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPathFlag(cmd, sumData)
		raw, err := dataset.Load(path)
		if err != nil {
			return err
		}
		labeled, err := dashboard.Recode(raw)
		if err != nil {
			return err
		}
		sum, err := dashboard.Summary(labeled)
		if err != nil {
			return err
		}
		return renderSummary(cmd.OutOrStdout(), sum, sumFormat)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumData, "data", "", "survey CSV path (overrides config data_path)")
	summaryCmd.Flags().StringVarP(&sumFormat, "format", "f", "table", "output format: table|markdown|csv|json")
}

func renderSummary(w io.Writer, t *dataset.Table, format string) error {
	cols := t.Columns()
	switch format {
	case "json":
		rows := make([]map[string]dataset.Value, t.Len())
		for i := range rows {
			row := make(map[string]dataset.Value, len(cols))
			for j, v := range t.Row(i) {
				row[cols[j]] = v
			}
			rows[i] = row
		}
		b, err := utils.PrettyJSON(rows)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "table", "markdown", "md", "csv":
	default:
		return fmt.Errorf("unsupported --format: %s (use table|markdown|csv|json)", format)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	tw.AppendHeader(header)
	for i := 0; i < t.Len(); i++ {
		vals := t.Row(i)
		row := make(table.Row, len(vals))
		for j, v := range vals {
			row[j] = summaryCell(v)
		}
		tw.AppendRow(row)
	}

	switch format {
	case "markdown", "md":
		tw.RenderMarkdown()
	case "csv":
		tw.RenderCSV()
	default:
		tw.SetCaption("%s groups", count(t.Len()))
		tw.Render()
	}
	return nil
}

func summaryCell(v dataset.Value) string {
	if v.Kind() != dataset.KindNumber {
		return v.String()
	}
	if i, ok := v.Int(); ok {
		return fmt.Sprintf("%d", i)
	}
	f, _ := v.Float()
	return fmt.Sprintf("%.2f", f)
}
