package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// FollowUpsCmd creates the followups command
func FollowUpsCmd(app *AppContext) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "followups",
		Short: "List in-process event requests whose organizer is due a follow-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if asOf != "" {
				day, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return fmt.Errorf("as-of must be YYYY-MM-DD, got: %s", asOf)
				}
				at = day.Add(24*time.Hour - time.Nanosecond)
			}

			due, err := services.FollowUpsDue(app.Ctx, app.Database, app.Cfg, app.Logger, at)
			if err != nil {
				return err
			}

			if len(due) == 0 {
				fmt.Println("No follow-ups due.")
				return nil
			}

			fmt.Printf("\n%d follow-up(s) due\n\n", len(due))
			fmt.Printf("%-5s %-30s %-25s %-16s %s\n", "ID", "Organization", "Contact", "Last contact", "Due")
			fmt.Println(strings.Repeat("-", 95))
			for _, f := range due {
				er := f.EventRequest
				contact := strings.TrimSpace(er.FirstName + " " + er.LastName)
				if er.Email != "" {
					contact += " <" + er.Email + ">"
				}
				fmt.Printf("%-5d %-30s %-25s %-16s %s\n",
					er.ID,
					truncate(er.OrganizationName, 30),
					truncate(contact, 25),
					formatDate(&f.Anchor),
					formatDate(&f.DueAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Report follow-ups due by the end of this day, YYYY-MM-DD (default today)")

	return cmd
}
