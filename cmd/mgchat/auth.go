package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/mindguide/internal/client"
)

var signupCmd = &cobra.Command{
	Use:   "signup <email> <password> <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		sess, err := apiClient().Signup(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		printSession(cmd, sess)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and print a bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		sess, err := apiClient().Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printSession(cmd, sess)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Record a logout for --user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		if err := apiClient().Logout(ctx, flags.userID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd)
}

func printSession(cmd *cobra.Command, s *client.Session) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "user %d  %s <%s>\n", s.User.ID, s.User.Name, s.User.Email)
	fmt.Fprintf(out, "export MGCHAT_TOKEN=%s\n", s.Token)
}
