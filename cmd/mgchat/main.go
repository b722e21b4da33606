// Command mgchat is a terminal client for the MindGuide API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/mindguide/internal/client"
)

type globalFlags struct {
	server         string
	token          string
	userID         uint64
	conversationID uint64
	timeout        time.Duration
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "mgchat",
	Short:         "MindGuide terminal client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.server, "server", "s", envOr("MGCHAT_SERVER", "http://localhost:8080"), "API base URL")
	pf.StringVar(&flags.token, "token", os.Getenv("MGCHAT_TOKEN"), "bearer token from signup or login")
	pf.Uint64VarP(&flags.userID, "user", "u", 1, "user id")
	pf.Uint64VarP(&flags.conversationID, "conversation", "c", 1, "conversation id")
	pf.DurationVar(&flags.timeout, "timeout", 30*time.Second, "per-request timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func apiClient() *client.Client {
	c := client.New(flags.server)
	if flags.token != "" {
		c = c.WithToken(flags.token)
	}
	return c
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), flags.timeout)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
