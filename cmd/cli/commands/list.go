package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/capacity"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/query"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

// ListCmd creates the list command
func ListCmd(app *AppContext) *cobra.Command {
	var (
		search   string
		status   string
		sortKey  string
		page     int
		pageSize int
		email    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search, filter and page through event requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := query.Params{
				SearchQuery:  search,
				StatusFilter: status,
				SortKey:      query.SortKey(sortKey),
				Page:         page,
				PageSize:     pageSize,
			}

			var viewer *query.Viewer
			if app.ActingUserID != "" || email != "" {
				viewer = &query.Viewer{UserID: app.ActingUserID, Email: email}
			}

			app.Logger.Debug("list command",
				zap.String("search", search),
				zap.String("status", status),
				zap.String("sort", sortKey))

			result, err := services.ListEventRequests(app.Ctx, app.Database, app.Cfg, app.Logger, params, viewer)
			if err != nil {
				return err
			}

			printCounts(result.Counts)

			if len(result.Items) == 0 {
				fmt.Println("No event requests match.")
				return nil
			}

			fmt.Printf("%-5s %-30s %-16s %-12s %s\n", "ID", "Organization", "Event date", "Status", "Staffing")
			fmt.Println(strings.Repeat("-", 90))
			for i := range result.Items {
				er := &result.Items[i]
				report := capacity.Report(er)

				staffing := colorGreen + "Fully staffed" + colorReset
				if shortfall := report.TotalShortfall(); shortfall > 0 {
					staffing = fmt.Sprintf("%sShort %d%s", colorRed, shortfall, colorReset)
				}

				fmt.Printf("%-5d %-30s %-16s %-12s %s\n",
					er.ID,
					truncate(er.OrganizationName, 30),
					formatDate(eventDate(er)),
					er.Status,
					staffing)
			}

			fmt.Printf("\nPage %d of %d (%d matching)\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search organization, contact, email, address or date")
	cmd.Flags().StringVar(&status, "status", "", "Status filter: all, my_assignments, new, in_process, scheduled, completed, declined")
	cmd.Flags().StringVar(&sortKey, "sort", string(query.DefaultSortKey), "Sort key, e.g. event_date_asc or organization_asc")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Page size (0 uses the configured default, negative shows all)")
	cmd.Flags().StringVar(&email, "email", "", "Email of the viewer, for my_assignments")

	return cmd
}

func printCounts(counts map[string]int) {
	parts := []string{fmt.Sprintf("all %d", counts[query.FilterAll])}
	for _, s := range model.AllStatuses {
		parts = append(parts, fmt.Sprintf("%s %d", s, counts[string(s)]))
	}
	parts = append(parts, fmt.Sprintf("mine %d", counts[query.FilterMyAssignments]))
	fmt.Printf("%s%s%s\n\n", colorDim, strings.Join(parts, " · "), colorReset)
}
