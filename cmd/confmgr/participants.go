package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/conference-manager/internal/application"
)

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Manage event speakers.",
}

var speakersAssignCmd = &cobra.Command{
	Use:   "assign <event-id> <speaker-id>",
	Short: "Set the sole speaker of a one-speaker event.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.SpeakerService.AssignSoleSpeaker(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assigned %s to event %s\n", args[1], args[0])
			return nil
		})
	},
}

var speakersAddCmd = &cobra.Command{
	Use:   "add <event-id> <speaker-id>",
	Short: "Add a speaker to a multi-speaker event.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.SpeakerService.AddSpeaker(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to event %s\n", args[1], args[0])
			return nil
		})
	},
}

var speakersRemoveCmd = &cobra.Command{
	Use:   "remove <event-id> <speaker-id>",
	Short: "Remove a speaker from an event.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.SpeakerService.RemoveSpeaker(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s from event %s\n", args[1], args[0])
			return nil
		})
	},
}

var attendeesCmd = &cobra.Command{
	Use:   "attendees",
	Short: "Manage event enrollment.",
}

var attendeesSignupCmd = &cobra.Command{
	Use:   "signup <event-id> <attendee-id>",
	Short: "Enroll an attendee in an event.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EnrollmentService.Signup(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enrolled %s in event %s\n", args[1], args[0])
			return nil
		})
	},
}

var attendeesCancelCmd = &cobra.Command{
	Use:   "cancel <event-id> <attendee-id>",
	Short: "Cancel an attendee's enrollment.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EnrollmentService.Cancel(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s from event %s\n", args[1], args[0])
			return nil
		})
	},
}

func init() {
	speakersCmd.AddCommand(speakersAssignCmd, speakersAddCmd, speakersRemoveCmd)
	attendeesCmd.AddCommand(attendeesSignupCmd, attendeesCancelCmd)
	rootCmd.AddCommand(speakersCmd, attendeesCmd)
}
