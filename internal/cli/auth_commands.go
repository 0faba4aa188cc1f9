package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/khata/internal/application/auth"
	"github.com/jhoicas/khata/internal/application/dto"
	httpiface "github.com/jhoicas/khata/internal/interfaces/http"
)

// strategyFor accepts "google" as well as "oauth_google".
func strategyFor(provider string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(provider))
	if !strings.HasPrefix(s, "oauth_") {
		s = "oauth_" + s
	}
	if !auth.IsStrategy(s) {
		return "", fmt.Errorf("unsupported provider %q (google, apple or facebook)", provider)
	}
	return s, nil
}

// NewLoginCommand signs in through a provider. The callback listener runs only for the
// duration of the flow.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <google|apple|facebook>",
		Short: "Sign in with a social provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := strategyFor(args[0])
			if err != nil {
				return err
			}
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			app := httpiface.NewApp(a.RouterDeps())
			go func() {
				if err := app.Listen(a.Config.HTTP.Addr()); err != nil {
					a.Log.Error().Err(err).Msg("callback listener")
				}
			}()
			defer func() { _ = app.Shutdown() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, httpiface.DefaultSignInTimeout)
			defer cancel()

			res := a.Social.Start(ctx, strategy)
			out := dto.SocialSignInResponse{Outcome: string(res.Outcome), Route: res.Route}
			if res.Notice != nil {
				out.Notice = &dto.Notice{Title: res.Notice.Title, Message: res.Notice.Message}
			}
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if res.Outcome == auth.OutcomeFailed {
				return errors.New(res.Notice.Message)
			}
			return nil
		},
	}
}

// NewLogoutCommand clears the persisted session.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Sessions.SignOut(cmd.Context())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return err
		},
	}
}
