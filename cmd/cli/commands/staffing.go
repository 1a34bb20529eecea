package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/capacity"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// StaffingCmd creates the staffing command
func StaffingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "staffing <id>",
		Short: "Show who is assigned to an event request and what is still needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			result, err := services.GetStaffing(app.Ctx, app.Database, app.Resolver, app.Logger, id)
			if err != nil {
				return err
			}

			er := result.EventRequest
			fmt.Printf("\n%s (#%d) - %s - %s\n\n", er.OrganizationName, er.ID, er.Status, formatDate(eventDate(er)))

			gaps := map[model.Role]capacity.Gap{
				model.RoleDriver:    result.Report.Drivers,
				model.RoleSpeaker:   result.Report.Speakers,
				model.RoleVolunteer: result.Report.Volunteers,
			}

			for _, role := range model.AllRoles {
				var summary string
				var state capacity.FillState
				if gap, ok := gaps[role]; ok {
					summary, state = formatGap(gap), gap.State
				} else {
					state = result.Report.VanDriver
					summary = state.String()
				}

				color := stateColor(state, colorGreen, colorYellow, colorRed, colorDim)
				fmt.Printf("%-12s %s%s%s\n", role, color, summary, colorReset)

				for _, a := range result.Assignees[role] {
					marker := ""
					switch {
					case a.Custom:
						marker = " (custom)"
					case a.SelfAssigned:
						marker = " (self sign-up)"
					}
					fmt.Printf("  - %s%s%s%s\n", a.Name, colorDim, marker, colorReset)
				}
			}

			if result.Report.FullyStaffed() {
				fmt.Printf("\n%s✓ Fully staffed%s\n", colorGreen, colorReset)
			} else {
				fmt.Printf("\n%s%d still needed%s\n", colorRed, result.Report.TotalShortfall(), colorReset)
			}
			return nil
		},
	}
}
