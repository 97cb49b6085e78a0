package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/habitdash/internal/web"
)

var (
	serveData  string
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive chart dashboard",
	Long: `Load the survey CSV, build every chart group, and serve the dashboard.
Each sidebar button toggles its group for the current browser session.
With --watch the data file is re-read on change and open pages reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		path := dataPathFlag(cmd, serveData)
		addr := c.Addr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		watch := c.Watch
		if cmd.Flags().Changed("watch") {
			watch = serveWatch
		}

		d, err := buildDashboard(path)
		if err != nil {
			return err
		}
		okf(cmd.OutOrStdout(), "Loaded %s records from %s", count(d.Rows), path)

		secret := c.SessionSecret
		if secret == "" {
			// Toggle state will not survive a restart.
			secret = uuid.NewString()
			warnf("no session_secret configured; using an ephemeral one")
		}

		srv, err := web.NewServer(web.Config{
			Dashboard:     d,
			DataPath:      path,
			Options:       dashboardOptions(path),
			Addr:          addr,
			Watch:         watch,
			SessionSecret: secret,
			Logger:        currentLogger(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		okf(cmd.OutOrStdout(), "Dashboard at http://%s", addr)
		if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveData, "data", "", "survey CSV path (overrides config data_path)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "rebuild the dashboard when the data file changes")
}

