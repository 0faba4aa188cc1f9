// Package cli is the khata command line: the local API server plus ledger and sign-in commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/khata/pkg/config"
	"github.com/jhoicas/khata/pkg/logger"
)

// Builder opens the application graph for one command run.
type Builder func(ctx context.Context, opts *RootOptions) (*App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool

	build Builder
}

// NewRootCommand creates the khata root command wired from config and env.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultBuilder)
}

func newRootCommand(build Builder) *cobra.Command {
	opts := &RootOptions{build: build}

	cmd := &cobra.Command{
		Use:           "khata",
		Short:         "Khata bookkeeping core",
		Long:          "Business ledger for stocks, customers and suppliers backed by Supabase.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewBusinessCommand(opts))
	cmd.AddCommand(NewStockCommand(opts))
	cmd.AddCommand(NewPartyCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))

	return cmd
}

func defaultBuilder(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.App.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: os.Stderr})
	return Build(ctx, cfg, log)
}

// open builds the graph for cmd; the caller must Close it.
func (o *RootOptions) open(cmd *cobra.Command) (*App, error) {
	return o.build(cmd.Context(), o)
}

func printJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
