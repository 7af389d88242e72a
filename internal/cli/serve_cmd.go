package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live-update WebSocket",
		RunE: rt.withApp(func(ctx context.Context, a *app.App, _ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		}),
	}
	cmd.Flags().String("addr", ":8080", "listen address (env SITEBOOK_ADDR)")
	cmd.Flags().Bool("require-roles", true, "enforce the X-User-Role admin guard")
	cmd.Flags().String("tracing", "none", "trace exporter: none or stdout")
	return cmd
}
