package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show every recorded change to an event request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			entries, err := services.AuditTrail(app.Ctx, app.Database, app.Logger, id)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No changes recorded.")
				return nil
			}

			for _, e := range entries {
				status := ""
				if e.FromStatus != e.ToStatus {
					status = fmt.Sprintf(" %s → %s", e.FromStatus, e.ToStatus)
				}
				by := e.ChangedBy
				if by == "" {
					by = "unknown"
				}
				fmt.Printf("v%-3d %s  %-14s%s %sby %s: %s%s\n",
					e.Version,
					e.ChangedAt.Local().Format("2006-01-02 15:04"),
					e.Action,
					status,
					colorDim,
					by,
					strings.Join(e.Fields, ", "),
					colorReset)
			}
			return nil
		},
	}
}
