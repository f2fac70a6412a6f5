package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRendered(cmd *cobra.Command, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func (a *app) renderOptions() ledger.RenderOptions {
	return ledger.RenderOptions{Currency: a.cfg.UI.Currency}
}
