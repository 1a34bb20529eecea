package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/lifecycle"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// StatusCmd creates the status command
func StatusCmd(app *AppContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status <id> <status|action>",
		Short: "Move an event request to a new status",
		Long: `Move an event request to a status (new, in_process, scheduled, completed, declined)
or run a named action (start_processing, schedule, complete, decline, reactivate).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			opts := lifecycle.Options{DeclineReason: reason, ChangedBy: app.ActingUserID}

			var result *services.TransitionResult
			action := lifecycle.Action(args[1])
			if _, ok := lifecycle.Target(action); ok {
				result, err = services.PerformAction(app.Ctx, app.Database, app.Cfg, app.Logger, id, action, opts)
			} else if status := model.Status(args[1]); status.IsValid() {
				result, err = services.ChangeStatus(app.Ctx, app.Database, app.Cfg, app.Logger, id, status, opts)
			} else {
				return fmt.Errorf("unknown status or action: %s", args[1])
			}
			if err != nil {
				return err
			}

			r := result.Result
			if !r.Accepted {
				fmt.Printf("\n%s✗ %s%s\n", colorRed, r.Message, colorReset)
				return nil
			}

			fmt.Printf("\n%s✓ %s → %s%s\n", colorGreen, r.From, r.To, colorReset)
			if !r.Standard {
				fmt.Printf("%sNote: %s → %s is outside the usual lifecycle%s\n", colorYellow, r.From, r.To, colorReset)
			}
			if r.Reversal {
				fmt.Println("Event reactivated.")
			}
			if r.To == model.StatusScheduled {
				fmt.Printf("Scheduled for %s\n", formatDate(result.EventRequest.ScheduledEventDate))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Decline reason")

	return cmd
}
