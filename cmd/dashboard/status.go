package main

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/bloodlink/dashboard/adapters/tokenizer"
	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
	"github.com/bloodlink/dashboard/service"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			rt, err := wire(cmd.Context(), cfg)
			if err != nil {
				return oops.In("main").Wrapf(err, "Failed to wire the session store")
			}
			defer rt.Close()

			session := rt.sessions.Restore(cmd.Context())
			return printStatus(cmd.OutOrStdout(), session, tokenizer.NewJWTInspector(), service.NewDispatcher(), time.Now())
		},
	}
}

func printStatus(w io.Writer, session core.Session, inspector ports.TokenInspector, dispatcher *service.Dispatcher, now time.Time) error {
	if !session.Authenticated() {
		_, err := fmt.Fprintln(w, "Not logged in")
		return err
	}

	if _, err := fmt.Fprintf(w, "Logged in as %s %s\n", dispatcher.Icon(session.Role), session.Role); err != nil {
		return err
	}

	claims, err := inspector.Inspect(session.Token)
	if err != nil {
		_, err = fmt.Fprintln(w, "Token: opaque")
		return err
	}

	if claims.UserID != 0 {
		if _, err := fmt.Fprintf(w, "User: %d\n", claims.UserID); err != nil {
			return err
		}
	}
	if !claims.ExpiresAt.IsZero() {
		state := "valid"
		if now.After(claims.ExpiresAt) {
			state = "expired"
		}
		if _, err := fmt.Fprintf(w, "Token expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), state); err != nil {
			return err
		}
	}

	return nil
}
