package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/mindguide/internal/client"
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		_, bot, err := apiClient().SendMessage(ctx, flags.conversationID, flags.userID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printMessage(cmd.OutOrStdout(), bot)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the conversation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		msgs, err := apiClient().GetChats(ctx, flags.userID, flags.conversationID)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			printMessage(cmd.OutOrStdout(), m)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat; /retry resends the last failed message, /quit exits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sendCmd, historyCmd, chatCmd)
}

func runChat(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	st := client.NewChatState(apiClient(), flags.userID, flags.conversationID)

	ctx, cancel := requestContext(cmd)
	err := st.Load(ctx)
	cancel()
	if err != nil {
		return err
	}
	for _, m := range st.Messages() {
		printMessage(out, m)
	}

	var lastFailed string
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line == "/quit":
			return nil
		case line == "/retry":
			if lastFailed == "" {
				fmt.Fprintln(out, "nothing to retry")
				break
			}
			ctx, cancel := requestContext(cmd)
			bot, err := st.Retry(ctx, lastFailed)
			cancel()
			if err != nil {
				fmt.Fprintln(out, "still failing:", err)
				break
			}
			lastFailed = ""
			printMessage(out, bot)
		default:
			ctx, cancel := requestContext(cmd)
			bot, err := st.Send(ctx, line)
			cancel()
			if err != nil {
				msgs := st.Messages()
				if n := len(msgs); n > 0 && msgs[n-1].Status == client.StatusFailed {
					lastFailed = msgs[n-1].ID
				}
				fmt.Fprintln(out, "not delivered (/retry to resend):", err)
				break
			}
			printMessage(out, bot)
		}
		fmt.Fprint(out, "> ")
	}
	return sc.Err()
}

func printMessage(out io.Writer, m client.Message) {
	who := "you"
	if m.Sender == "bot" {
		who = "bot"
	}
	status := ""
	if m.Status != client.StatusDelivered {
		status = " [" + m.Status + "]"
	}
	fmt.Fprintf(out, "%s  %-3s: %s%s\n", m.Timestamp, who, m.Content, status)
}
