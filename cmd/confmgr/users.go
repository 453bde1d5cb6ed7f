package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/conference-manager/internal/application"
	"github.com/example/conference-manager/internal/directory"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the account directory.",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an organizer, speaker, or attendee account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		displayName, _ := cmd.Flags().GetString("display-name")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			user, err := engine.Directory.CreateUser(ctx, username, displayName, password, directory.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (id %s)\n", user.Role, user.Username, user.ID)
			return nil
		})
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts, optionally filtered by role.",
	RunE: func(cmd *cobra.Command, args []string) error {
		roleFilter, _ := cmd.Flags().GetString("role")

		return withEngine(false, func(ctx context.Context, engine *application.Engine) error {
			var users []directory.User
			if roleFilter == "" {
				users = engine.Directory.Export()
			} else {
				var err error
				users, err = engine.Directory.ListByRole(ctx, directory.Role(roleFilter))
				if err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tROLE")
			for _, user := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.Username, user.DisplayName, user.Role)
			}
			return w.Flush()
		})
	},
}

func init() {
	usersAddCmd.Flags().String("username", "", "unique username (required)")
	usersAddCmd.Flags().String("display-name", "", "display name, defaults to the username")
	usersAddCmd.Flags().String("password", "", "account password (required)")
	usersAddCmd.Flags().String("role", string(directory.RoleAttendee), "role: organizer, speaker, or attendee")
	usersAddCmd.MarkFlagRequired("username")
	usersAddCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(usersAddCmd, usersListCmd)
	rootCmd.AddCommand(usersCmd)
}
