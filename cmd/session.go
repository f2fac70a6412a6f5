package cmd

import (
	"fmt"

	"github.com/bnema/fin/internal/application"
	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reply, err := call(cmd.Context(), a, func(cb func(ports.AuthReply, error)) {
				a.session.Login(cmd.Context(), creds, cb)
			})
			if err := application.ReplyErr("login", reply, err); err != nil {
				return err
			}
			return printSignedIn(cmd, reply)
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var profile domain.Profile

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reply, err := call(cmd.Context(), a, func(cb func(ports.AuthReply, error)) {
				a.session.Register(cmd.Context(), profile, cb)
			})
			if err := application.ReplyErr("register", reply, err); err != nil {
				return err
			}
			return printSignedIn(cmd, reply)
		},
	}

	cmd.Flags().StringVar(&profile.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&profile.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&profile.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reply, err := call(cmd.Context(), a, func(cb func(ports.AuthReply, error)) {
				a.session.Logout(cmd.Context(), cb)
			})
			if err := application.ReplyErr("logout", reply, err); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var (
		cached bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long:  "whoami asks the server who is signed in and refreshes the cached session. With --cached it only reads the cache.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				session domain.Session
				ok      bool
			)
			if cached {
				session, ok = a.session.Current(cmd.Context())
			} else {
				reply, err := call(cmd.Context(), a, func(cb func(ports.AuthReply, error)) {
					a.session.FetchCurrent(cmd.Context(), cb)
				})
				if err != nil {
					return err
				}
				if reply.Success && reply.Session != nil {
					session, ok = *reply.Session, true
				}
			}
			if !ok {
				return fmt.Errorf("whoami: %w", domain.ErrSessionNotFound)
			}

			if asJSON {
				return writeJSON(cmd, session)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %s)\n", session.DisplayName(), session.Email, session.ID)
			return err
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read the cached session without asking the server")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON output")

	return cmd
}

func printSignedIn(cmd *cobra.Command, reply ports.AuthReply) error {
	name := "unknown user"
	if reply.Session != nil {
		name = reply.Session.DisplayName()
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", name)
	return err
}
