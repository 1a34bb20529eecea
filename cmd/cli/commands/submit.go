package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// SubmitCmd creates the submit command
func SubmitCmd(app *AppContext) *cobra.Command {
	var (
		req  services.SubmitRequest
		date string

		drivers, speakers, volunteers int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a new event request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				desired, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD, got: %s", date)
				}
				req.DesiredEventDate = &desired
			}

			// Only counts given on the command line are requirements
			if cmd.Flags().Changed("drivers") {
				req.DriversNeeded = &drivers
			}
			if cmd.Flags().Changed("speakers") {
				req.SpeakersNeeded = &speakers
			}
			if cmd.Flags().Changed("volunteers") {
				req.VolunteersNeeded = &volunteers
			}

			er, err := services.SubmitEventRequest(app.Ctx, app.Database, app.Logger, req)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Event request created successfully!\n\n")
			fmt.Printf("ID:           %d\n", er.ID)
			fmt.Printf("Organization: %s\n", er.OrganizationName)
			fmt.Printf("Desired date: %s\n", formatDate(er.DesiredEventDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.OrganizationName, "org", "", "Organization name (required)")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "Contact first name (required)")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Contact last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Contact email (required)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&req.EventAddress, "address", "", "Event address")
	cmd.Flags().StringVar(&date, "date", "", "Desired event date, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&drivers, "drivers", 0, "Drivers needed")
	cmd.Flags().IntVar(&speakers, "speakers", 0, "Speakers needed")
	cmd.Flags().IntVar(&volunteers, "volunteers", 0, "Volunteers needed")
	cmd.Flags().BoolVar(&req.VanDriverNeeded, "van-driver", false, "A van driver is needed")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes")

	return cmd
}
