package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the persisted session",
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

			rt.sessions.Restore(cmd.Context())
			if err := rt.sessions.Logout(cmd.Context()); err != nil {
				return oops.In("main").Wrapf(err, "Failed to log out")
			}
			if err := rt.browser.Revoke(cmd.Context()); err != nil {
				return oops.In("main").Wrapf(err, "Failed to revoke the browser binding")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}
