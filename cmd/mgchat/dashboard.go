package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/mindguide/internal/client"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard stats for --user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		st, err := apiClient().GetStats(ctx, flags.userID)
		if err != nil {
			return err
		}
		last := "never"
		if st.LastSessionDate != nil {
			last = *st.LastSessionDate
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "sessions\t%d\n", st.TotalSessions)
		fmt.Fprintf(w, "streak\t%d\n", st.CurrentStreak)
		fmt.Fprintf(w, "badges\t%d\n", st.BadgesEarned)
		fmt.Fprintf(w, "last session\t%s\n", last)
		return w.Flush()
	},
}

var moodDays int

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List mood logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		logs, err := apiClient().GetMoodLogs(ctx, flags.userID, moodDays)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tMOOD\tACTIVITY")
		for _, l := range logs {
			act := ""
			if l.Activity != nil {
				act = *l.Activity
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Date, strings.Repeat("*", l.Mood), act)
		}
		return w.Flush()
	},
}

var moodEntry client.MoodEntry

var logMoodCmd = &cobra.Command{
	Use:   "log-mood",
	Short: "Record a mood entry (1-5)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		l, err := apiClient().LogMood(ctx, flags.userID, moodEntry)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s logged for %s\n", l.ID, l.Date)
		return nil
	},
}

var contactForm client.ContactForm

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the support inbox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		id, err := apiClient().Contact(ctx, contactForm)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "submitted", id)
		return nil
	},
}

func init() {
	moodsCmd.Flags().IntVar(&moodDays, "days", 30, "look back this many days")

	logMoodCmd.Flags().IntVar(&moodEntry.Mood, "mood", 0, "mood from 1 to 5")
	logMoodCmd.Flags().StringVar(&moodEntry.Activity, "activity", "", "what you were doing")
	logMoodCmd.Flags().StringVar(&moodEntry.Date, "date", "", "YYYY-MM-DD, default today")
	_ = logMoodCmd.MarkFlagRequired("mood")

	cf := contactCmd.Flags()
	cf.StringVar(&contactForm.Name, "name", "", "your name")
	cf.StringVar(&contactForm.Email, "email", "", "reply address")
	cf.StringVar(&contactForm.Subject, "subject", "", "subject")
	cf.StringVar(&contactForm.Message, "message", "", "message body")

	rootCmd.AddCommand(statsCmd, moodsCmd, logMoodCmd, contactCmd)
}
