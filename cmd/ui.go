package cmd

import (
	"github.com/bnema/fin/internal/adapters/tui"
	"github.com/bnema/fin/internal/bus"
	"github.com/spf13/cobra"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "ui",
		Short:       "Open the interactive terminal UI",
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduler := tui.NewScheduler()
			a.dispatch.use(scheduler)

			model := tui.New(cmd.Context(), tui.Options{
				Session:      a.session,
				Accounts:     a.client.Accounts(),
				Transactions: a.client.Transactions(),
				Bus:          bus.New(),
				Logger:       a.log,
				Currency:     a.cfg.UI.Currency,
				Endpoint:     a.cfg.API.BaseURL,
			})
			return tui.Run(cmd.Context(), model, scheduler)
		},
	}
}
