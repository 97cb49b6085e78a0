package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/habitdash/internal/greeting"
)

var helloAddr string

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Serve the static greeting page on / and /index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := settings().HelloAddr
		if cmd.Flags().Changed("addr") && helloAddr != "" {
			addr = helloAddr
		}
		if addr == "" {
			addr = greeting.DefaultAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		okf(cmd.OutOrStdout(), "Greeting page at http://%s", addr)
		return greeting.Serve(ctx, addr, currentLogger())
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
	helloCmd.Flags().StringVar(&helloAddr, "addr", "", "listen address (overrides config hello_addr)")
}
