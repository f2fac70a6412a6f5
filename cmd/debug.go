package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fin/internal/fakeapi"
	"github.com/bnema/fin/internal/metrics"
	"github.com/bnema/fin/internal/ports"
	"github.com/spf13/cobra"
)

func newDebugCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "debug",
		Short:  "Diagnostics for the API connection",
		Hidden: true,
	}

	cmd.AddCommand(
		newDebugMetricsCmd(a),
		newDebugFakeAPICmd(),
	)

	return cmd
}

func newDebugMetricsCmd(a *app) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print the transport metrics of this process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if probe {
				// The outcome lands in the metrics either way.
				_, _ = call(cmd.Context(), a, func(cb func(ports.AuthReply, error)) {
					a.session.FetchCurrent(cmd.Context(), cb)
				})
			}

			samples, err := metrics.Snapshot(a.registry)
			if err != nil {
				return err
			}
			for _, sample := range samples {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), sample.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", true, "Ask the server for the current user before printing")

	return cmd
}

func newDebugFakeAPICmd() *cobra.Command {
	var (
		addr  string
		users []string
	)

	cmd := &cobra.Command{
		Use:         "fakeapi",
		Short:       "Serve an in-memory finance API for local experiments",
		Annotations: map[string]string{annotationNoWire: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := fakeapi.New()
			for _, entry := range users {
				email, password, ok := strings.Cut(entry, ":")
				if !ok {
					return fmt.Errorf("invalid --user %q: want email:password", entry)
				}
				name, _, _ := strings.Cut(email, "@")
				server.AddUser(name, email, password)
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fake API listening on http://%s\n", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().StringSliceVar(&users, "user", nil, "Seed a user as email:password (repeatable)")

	return cmd
}
