package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpiface "github.com/jhoicas/khata/internal/interfaces/http"
)

// NewServeCommand creates the serve command: the local API the UI talks to.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local API and SSO callback listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *App) error {
	app := httpiface.NewApp(a.RouterDeps())
	addr := a.Config.HTTP.Addr()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", addr).Msg("local API listening")
		errCh <- app.Listen(addr)
	}()

	ctx, stop := signalContext(ctx)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	a.Log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		a.Log.Error().Err(err).Msg("shutdown")
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
