package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/conference-manager/internal/application"
	"github.com/example/conference-manager/internal/registry"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage scheduled events.",
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a new event.",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		startStr, _ := cmd.Flags().GetString("start")
		duration, _ := cmd.Flags().GetDuration("duration")
		roomNumber, _ := cmd.Flags().GetInt("room")
		typeStr, _ := cmd.Flags().GetString("type")
		capacity, _ := cmd.Flags().GetInt("capacity")

		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("invalid --start value %q: %w", startStr, err)
		}

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			event, err := engine.EventService.CreateEvent(ctx, application.EventInput{
				Title:      title,
				Start:      start,
				Duration:   duration,
				RoomNumber: roomNumber,
				Type:       registry.EventType(typeStr),
				Capacity:   capacity,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scheduled %q (id %s)\n", event.Title, event.ID)
			return nil
		})
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events ordered by start time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(false, func(ctx context.Context, engine *application.Engine) error {
			events, err := engine.EventService.ListEvents(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTART\tDURATION\tTYPE\tCAPACITY\tENROLLED")
			for _, event := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					event.ID, event.Title,
					event.Start.Format(time.RFC3339), event.Duration,
					event.Type, event.Capacity, len(event.AttendeeIDs))
			}
			return w.Flush()
		})
	},
}

var eventsRemoveCmd = &cobra.Command{
	Use:   "remove <event-id>",
	Short: "Remove an event and free its room slot.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EventService.RemoveEvent(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed event %s\n", args[0])
			return nil
		})
	},
}

var eventsRescheduleCmd = &cobra.Command{
	Use:   "reschedule <event-id>",
	Short: "Move an event to a new start time in its current room.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startStr, _ := cmd.Flags().GetString("start")
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("invalid --start value %q: %w", startStr, err)
		}

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EventService.UpdateTime(ctx, args[0], start); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rescheduled event %s to %s\n", args[0], start.Format(time.RFC3339))
			return nil
		})
	},
}

var eventsMoveCmd = &cobra.Command{
	Use:   "move <event-id>",
	Short: "Move an event to a different room at the same time.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomNumber, _ := cmd.Flags().GetInt("room")

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EventService.UpdateRoom(ctx, args[0], roomNumber); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved event %s to room %d\n", args[0], roomNumber)
			return nil
		})
	},
}

var eventsResizeCmd = &cobra.Command{
	Use:   "resize <event-id>",
	Short: "Change an event's attendee capacity.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capacity, _ := cmd.Flags().GetInt("capacity")

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.EventService.UpdateCapacity(ctx, args[0], capacity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resized event %s to %d seats\n", args[0], capacity)
			return nil
		})
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <room-number>",
	Short: "Show a room's reservations ordered by start time.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseRoomNumber(args[0])
		if err != nil {
			return err
		}

		return withEngine(false, func(ctx context.Context, engine *application.Engine) error {
			reservations, err := engine.EventService.RoomSchedule(ctx, number)
			if err != nil {
				return err
			}
			if len(reservations) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "room %d is free\n", number)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "START\tEND\tEVENT")
			for _, res := range reservations {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					res.Start.Format(time.RFC3339), res.End.Format(time.RFC3339), res.EventID)
			}
			return w.Flush()
		})
	},
}

func init() {
	eventsAddCmd.Flags().String("title", "", "event title (required)")
	eventsAddCmd.Flags().String("start", "", "start time in RFC3339 (required)")
	eventsAddCmd.Flags().Duration("duration", time.Hour, "event duration")
	eventsAddCmd.Flags().Int("room", 0, "room number (required)")
	eventsAddCmd.Flags().String("type", string(registry.EventTypeNoSpeaker), "event type: no_speaker, one_speaker, or multi_speaker")
	eventsAddCmd.Flags().Int("capacity", 0, "attendee capacity (required)")
	eventsAddCmd.MarkFlagRequired("title")
	eventsAddCmd.MarkFlagRequired("start")
	eventsAddCmd.MarkFlagRequired("room")
	eventsAddCmd.MarkFlagRequired("capacity")

	eventsRescheduleCmd.Flags().String("start", "", "new start time in RFC3339 (required)")
	eventsRescheduleCmd.MarkFlagRequired("start")

	eventsMoveCmd.Flags().Int("room", 0, "target room number (required)")
	eventsMoveCmd.MarkFlagRequired("room")

	eventsResizeCmd.Flags().Int("capacity", 0, "new attendee capacity (required)")
	eventsResizeCmd.MarkFlagRequired("capacity")

	eventsCmd.AddCommand(eventsAddCmd, eventsListCmd, eventsRemoveCmd, eventsRescheduleCmd, eventsMoveCmd, eventsResizeCmd)
	rootCmd.AddCommand(eventsCmd, scheduleCmd)
}
