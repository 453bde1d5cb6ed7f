package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/conference-manager/internal/application"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Manage the room catalog.",
}

var roomsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a room to the catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		number, _ := cmd.Flags().GetInt("number")
		capacity, _ := cmd.Flags().GetInt("capacity")
		hasTech, _ := cmd.Flags().GetBool("tech")
		hasTable, _ := cmd.Flags().GetBool("table")
		hasStage, _ := cmd.Flags().GetBool("stage")

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			room, err := engine.RoomService.CreateRoom(ctx, application.RoomInput{
				Number:   number,
				Capacity: capacity,
				HasTech:  hasTech,
				HasTable: hasTable,
				HasStage: hasStage,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added room %d (id %s)\n", room.Number, room.ID)
			return nil
		})
	},
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms ordered by number.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(false, func(ctx context.Context, engine *application.Engine) error {
			rooms, err := engine.RoomService.ListRooms(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tCAPACITY\tFEATURES\tCONSTRAINTS")
			for _, room := range rooms {
				var features []string
				if room.HasTech {
					features = append(features, "tech")
				}
				if room.HasTable {
					features = append(features, "table")
				}
				if room.HasStage {
					features = append(features, "stage")
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
					room.Number, room.Capacity,
					strings.Join(features, ","), strings.Join(room.Constraints, ","))
			}
			return w.Flush()
		})
	},
}

var roomsConstrainCmd = &cobra.Command{
	Use:   "constrain <number> [tag]...",
	Short: "Replace a room's constraint tags.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseRoomNumber(args[0])
		if err != nil {
			return err
		}
		tags := args[1:]

		return withEngine(true, func(ctx context.Context, engine *application.Engine) error {
			if err := engine.RoomService.SetRoomConstraints(ctx, number, tags); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated constraints for room %d\n", number)
			return nil
		})
	},
}

var roomsSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest free rooms for a time window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		startStr, _ := cmd.Flags().GetString("start")
		duration, _ := cmd.Flags().GetDuration("duration")
		capacity, _ := cmd.Flags().GetInt("capacity")
		constraints, _ := cmd.Flags().GetStringSlice("constraint")

		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("invalid --start value %q: %w", startStr, err)
		}

		return withEngine(false, func(ctx context.Context, engine *application.Engine) error {
			rooms, err := engine.EventService.SuggestRooms(ctx, application.SuggestRoomsParams{
				Start:       start,
				Duration:    duration,
				Capacity:    capacity,
				Constraints: constraints,
			})
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no rooms available")
				return nil
			}
			for _, room := range rooms {
				fmt.Fprintf(cmd.OutOrStdout(), "room %d (capacity %d)\n", room.Number, room.Capacity)
			}
			return nil
		})
	},
}

func parseRoomNumber(arg string) (int, error) {
	var number int
	if _, err := fmt.Sscanf(arg, "%d", &number); err != nil {
		return 0, fmt.Errorf("invalid room number %q", arg)
	}
	return number, nil
}

func init() {
	roomsAddCmd.Flags().Int("number", 0, "room number (required)")
	roomsAddCmd.Flags().Int("capacity", 0, "maximum occupancy (required)")
	roomsAddCmd.Flags().Bool("tech", false, "room has presentation tech")
	roomsAddCmd.Flags().Bool("table", false, "room has a conference table")
	roomsAddCmd.Flags().Bool("stage", false, "room has a stage")
	roomsAddCmd.MarkFlagRequired("number")
	roomsAddCmd.MarkFlagRequired("capacity")

	roomsSuggestCmd.Flags().String("start", "", "window start in RFC3339 (required)")
	roomsSuggestCmd.Flags().Duration("duration", time.Hour, "window duration")
	roomsSuggestCmd.Flags().Int("capacity", 1, "required capacity")
	roomsSuggestCmd.Flags().StringSlice("constraint", nil, "required constraint tag (repeatable)")
	roomsSuggestCmd.MarkFlagRequired("start")

	roomsCmd.AddCommand(roomsAddCmd, roomsListCmd, roomsConstrainCmd, roomsSuggestCmd)
	rootCmd.AddCommand(roomsCmd)
}
