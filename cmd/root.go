package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// annotationNoWire marks commands that run without a configured app.
const annotationNoWire = "fin/no-wire"

// annotationLogToFile marks commands that own the terminal, so logs go to a
// file unless one is configured.
const annotationLogToFile = "fin/log-to-file"

type rootOptions struct {
	configPath string
	envFile    string
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "fin",
		Short:         "fin: personal finance accounts and transactions",
		Long:          "fin signs you in to the finance API, manages accounts and their income and expense transactions, and offers an interactive terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			}
			if cmd.Annotations[annotationNoWire] != "" {
				return nil
			}
			return a.wire(cmd.Context(), opts, cmd.Annotations[annotationLogToFile] != "")
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fin/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment variables from this file first")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAccountCmd(a),
		newTransactionCmd(a),
		newUICmd(a),
		newConfigCmd(a),
		newDebugCmd(a),
	)

	return rootCmd
}
