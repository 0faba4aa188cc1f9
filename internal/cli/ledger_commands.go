package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/application/ledger"
	"github.com/jhoicas/khata/pkg/amount"
)

// NewBusinessCommand prints the caller's business, creating it on first use.
func NewBusinessCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "business",
		Short: "Show (and provision) your business",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			b, err := a.Ledger.GetOrCreateBusiness(ctx, a.Session(ctx))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
}

// NewStockCommand groups the stock subcommands.
func NewStockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Manage stock items"}
	cmd.AddCommand(newStockListCommand(rootOpts), newStockAddCommand(rootOpts))
	return cmd
}

func newStockListCommand(rootOpts *RootOptions) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active stocks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			if summary {
				s, err := a.Ledger.StockSummary(ctx, a.Session(ctx))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), s)
			}
			list, err := a.Ledger.GetStocks(ctx, a.Session(ctx))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.NewList(list))
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print totals instead of rows")
	return cmd
}

type stockAddOptions struct {
	name, unit, cost, opening string
}

func newStockAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &stockAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stock item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cost, err := amount.Parse(opts.cost)
			if err != nil {
				return fmt.Errorf("--cost: %w", err)
			}
			opening, err := amount.Parse(opts.opening)
			if err != nil {
				return fmt.Errorf("--opening: %w", err)
			}

			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			out, err := a.Ledger.CreateStock(ctx, a.Session(ctx), dto.CreateStockRequest{
				Name:         opts.name,
				Unit:         opts.unit,
				CostPerUnit:  cost,
				OpeningStock: opening,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "item name")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "unit, e.g. kg")
	cmd.Flags().StringVar(&opts.cost, "cost", "", "cost per unit")
	cmd.Flags().StringVar(&opts.opening, "opening", "0", "opening stock")
	return cmd
}

// NewPartyCommand groups the customer/supplier subcommands.
func NewPartyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "party", Short: "Manage customers and suppliers"}
	cmd.AddCommand(newPartyListCommand(rootOpts), newPartyAddCommand(rootOpts), newPartyDeleteCommand(rootOpts))
	return cmd
}

func newPartyListCommand(rootOpts *RootOptions) *cobra.Command {
	var partyType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active customers and suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			list, err := a.Ledger.GetCustomerSuppliers(ctx, a.Session(ctx))
			if err != nil {
				return err
			}
			if partyType != "" {
				filtered := make([]dto.CustomerSupplierResponse, 0, len(list))
				for _, p := range list {
					if p.PartyType == partyType {
						filtered = append(filtered, p)
					}
				}
				list = filtered
			}
			return printJSON(cmd.OutOrStdout(), dto.NewList(list))
		},
	}
	cmd.Flags().StringVar(&partyType, "type", "", "customer or supplier")
	return cmd
}

type partyAddOptions struct {
	partyType, name, phone    string
	payable, receivable       string
	description, date, avatar string
}

func newPartyAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &partyAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer or supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := dto.CreateCustomerSupplierRequest{
				PartyType:       opts.partyType,
				Name:            opts.name,
				Phone:           opts.phone,
				TotalPayable:    amount.ParseOrZero(opts.payable),
				TotalReceivable: amount.ParseOrZero(opts.receivable),
			}
			flags := cmd.Flags()
			if flags.Changed("description") {
				in.Description = &opts.description
			}
			if flags.Changed("date") {
				in.RecordDate = &opts.date
			}
			avatar := opts.avatar
			if !flags.Changed("avatar") {
				avatar = ledger.DefaultAvatarURL(opts.name)
			}
			in.AvatarURL = &avatar

			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			out, err := a.Ledger.CreateCustomerSupplier(ctx, a.Session(ctx), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.partyType, "type", "customer", "customer or supplier")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.phone, "phone", "", "mobile number")
	cmd.Flags().StringVar(&opts.payable, "payable", "", "amount you owe them")
	cmd.Flags().StringVar(&opts.receivable, "receivable", "", "amount they owe you")
	cmd.Flags().StringVar(&opts.description, "description", "", "note")
	cmd.Flags().StringVar(&opts.date, "date", "", "record date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.avatar, "avatar", "", "avatar URL (default generated from the name)")
	return cmd
}

func newPartyDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a customer or supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			if err := a.Ledger.DeleteCustomerSupplier(ctx, a.Session(ctx), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}
