package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/fin/internal/adapters/api"
	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/bnema/fin/internal/domain"
	"github.com/spf13/cobra"
)

func newTransactionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Manage income and expense transactions",
	}

	cmd.AddCommand(
		newTransactionListCmd(a),
		newTransactionCreateCmd(a),
		newTransactionRemoveCmd(a),
	)

	return cmd
}

type accountTransactions struct {
	Account      domain.Account       `json:"account"`
	Transactions []domain.Transaction `json:"transactions"`
}

func newTransactionListCmd(a *app) *cobra.Command {
	var (
		accountID string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := domain.ID(accountID)

			result, err := loadWithProgress(cmd, "transactions of account "+id.String(), asJSON, func(ctx context.Context) (accountTransactions, error) {
				return call(ctx, a, func(cb func(accountTransactions, error)) {
					a.client.Accounts().Get(ctx, id, func(account domain.Account, err error) {
						if err != nil {
							cb(accountTransactions{}, err)
							return
						}
						a.client.Transactions().List(ctx, id, func(items []domain.Transaction, err error) {
							cb(accountTransactions{Account: account, Transactions: items}, err)
						})
					})
				})
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, result)
			}
			rendered, err := ledger.RenderTransactions(result.Account.Name, result.Transactions, a.renderOptions())
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON output")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newTransactionCreateCmd(a *app) *cobra.Command {
	var (
		accountID string
		kind      string
		name      string
		sum       string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an income or an expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txKind, err := domain.ParseTransactionKind(kind)
			if err != nil {
				return err
			}
			amount, err := domain.ParseAmount(sum)
			if err != nil {
				return err
			}

			in := api.TransactionInput{AccountID: domain.ID(accountID), Kind: txKind, Name: name, Amount: amount}
			tx, err := call(cmd.Context(), a, func(cb func(domain.Transaction, error)) {
				a.client.Transactions().Create(cmd.Context(), in, cb)
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, tx)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s: %s.\n", tx.Kind, tx.ID, ledger.FormatAmount(tx.Amount, a.renderOptions().Currency))
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account id")
	cmd.Flags().StringVar(&kind, "type", "", "Transaction type: income or expense")
	cmd.Flags().StringVar(&name, "name", "", "Transaction name")
	cmd.Flags().StringVar(&sum, "sum", "", "Amount, e.g. 12.34 or 12,34")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON output")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("sum")

	return cmd
}

func newTransactionRemoveCmd(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := callErr(cmd.Context(), a, func(cb func(error)) {
				a.client.Transactions().Remove(cmd.Context(), domain.ID(id), cb)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed transaction %s.\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Transaction id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
