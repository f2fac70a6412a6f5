package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/bnema/fin/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(a),
		newAccountCreateCmd(a),
		newAccountRemoveCmd(a),
	)

	return cmd
}

func newAccountListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := loadWithProgress(cmd, "accounts", asJSON, func(ctx context.Context) ([]domain.Account, error) {
				return call(ctx, a, func(cb func([]domain.Account, error)) {
					a.client.Accounts().List(ctx, cb)
				})
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, accounts)
			}
			rendered, err := ledger.RenderAccounts(accounts, a.renderOptions())
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON output")

	return cmd
}

func newAccountCreateCmd(a *app) *cobra.Command {
	var (
		name   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := call(cmd.Context(), a, func(cb func(domain.Account, error)) {
				a.client.Accounts().Create(cmd.Context(), name, cb)
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, account)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s).\n", account.Name, account.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON output")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAccountRemoveCmd(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an account and its transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := callErr(cmd.Context(), a, func(cb func(error)) {
				a.client.Accounts().Remove(cmd.Context(), domain.ID(id), cb)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s.\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
