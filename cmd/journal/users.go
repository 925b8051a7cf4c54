package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/accounts"
)

func printUsers(w io.Writer, users ...accounts.User) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tSTATUS\tTIER\tEXPIRES\tAUTO-RENEW")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			u.ID, u.Email, u.Name, u.Role, u.Status, u.Subscription.Tier,
			ago(u.Subscription.ExpiresAt), u.Subscription.AutoRenew)
	}
	return tw.Flush()
}

func newRegisterCmd(a *app) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Register(cmd.Context(), email, name)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			return printUsers(a.out, u)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			return printUsers(a.out, u)
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts (admin only)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := a.client.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("list users: %w", err)
				}
				return printUsers(a.out, users...)
			},
		},
		newCreateAdminCmd(a),
		userAction(a, "suspend", "Suspend a user", func(cmd *cobra.Command, id uint) (accounts.User, error) {
			return a.client.UpdateStatus(cmd.Context(), id, accounts.StatusSuspended)
		}),
		userAction(a, "activate", "Reactivate a suspended user", func(cmd *cobra.Command, id uint) (accounts.User, error) {
			return a.client.UpdateStatus(cmd.Context(), id, accounts.StatusActive)
		}),
		userAction(a, "promote", "Grant the admin role", func(cmd *cobra.Command, id uint) (accounts.User, error) {
			return a.client.Promote(cmd.Context(), id)
		}),
		userAction(a, "demote", "Remove the admin role", func(cmd *cobra.Command, id uint) (accounts.User, error) {
			return a.client.Demote(cmd.Context(), id)
		}),
		newSubscriptionCmd(a),
		newDeleteUserCmd(a),
	)
	return cmd
}

func userID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return uint(id), nil
}

func userAction(a *app, use, short string, fn func(*cobra.Command, uint) (accounts.User, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			u, err := fn(cmd, id)
			if err != nil {
				return fmt.Errorf("%s user: %w", use, err)
			}
			return printUsers(a.out, u)
		},
	}
}

func newCreateAdminCmd(a *app) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.CreateAdmin(cmd.Context(), email, name)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			return printUsers(a.out, u)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSubscriptionCmd(a *app) *cobra.Command {
	var autoRenew bool

	cmd := &cobra.Command{
		Use:   "subscription <user-id> <free|premium>",
		Short: "Move a user onto a subscription tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			tier, err := accounts.ParseTier(args[1])
			if err != nil {
				return err
			}
			u, err := a.client.UpdateSubscription(cmd.Context(), id, tier, autoRenew)
			if err != nil {
				return fmt.Errorf("update subscription: %w", err)
			}
			return printUsers(a.out, u)
		},
	}
	cmd.Flags().BoolVar(&autoRenew, "auto-renew", false, "renew the subscription automatically")
	return cmd
}

func newDeleteUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user and all of their journal data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteUser(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(a.out, "Deleted user %d\n", id)
			return nil
		},
	}
}
