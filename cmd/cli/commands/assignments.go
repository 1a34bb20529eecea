package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/tsp-event-requests/pkg/core/assignment"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
)

func parseRole(raw string) (model.Role, error) {
	role := model.Role(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("role must be one of driver, speaker, volunteer, van_driver, got: %s", raw)
	}
	return role, nil
}

// printOutcome reports an assignment decision. Rejections are not command errors.
func printOutcome(result *services.AssignmentResult) {
	if result.Outcome.Accepted {
		fmt.Printf("\n%s✓ %s%s\n", colorGreen, result.Outcome.Message, colorReset)
		return
	}
	fmt.Printf("\n%s✗ %s%s %s(%s)%s\n", colorRed, result.Outcome.Message, colorReset, colorDim, result.Outcome.Reason, colorReset)
}

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <id> <role>",
		Short: "Sign the acting user up for a role on an event request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			var actor *assignment.Actor
			if app.ActingUserID != "" {
				actor = &assignment.Actor{ID: app.ActingUserID, Name: app.ActingUserName}
			}

			result, err := services.SelfSignup(app.Ctx, app.Database, app.Cfg, app.Logger, id, role, actor)
			if err != nil {
				return err
			}

			printOutcome(result)
			return nil
		},
	}
}

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	var (
		name   string
		custom bool
	)

	cmd := &cobra.Command{
		Use:   "assign <id> <role> [assignee]",
		Short: "Assign someone to a role, ignoring capacity",
		Long:  `Assign a directory person by ID or email, or with --custom assign a named person who is not in any directory.`,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			var result *services.AssignmentResult
			if custom {
				if name == "" {
					return fmt.Errorf("--name is required with --custom")
				}
				result, err = services.AssignCustom(app.Ctx, app.Database, app.Cfg, app.Logger, id, role, name, app.ActingUserID)
			} else {
				if len(args) < 3 {
					return fmt.Errorf("an assignee is required unless --custom is set")
				}
				result, err = services.AssignRole(app.Ctx, app.Database, app.Cfg, app.Logger, id, role, args[2], name, app.ActingUserID)
			}
			if err != nil {
				return err
			}

			printOutcome(result)
			if result.Outcome.Accepted && custom {
				fmt.Printf("Assignee ID: %s\n", result.Outcome.AssigneeID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name of the assignee")
	cmd.Flags().BoolVar(&custom, "custom", false, "Assign a person who is not in any directory")

	return cmd
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <id> <role> <assignee>",
		Short: "Remove someone from a role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			result, err := services.RemoveRole(app.Ctx, app.Database, app.Cfg, app.Logger, id, role, args[2], app.ActingUserID)
			if err != nil {
				return err
			}

			printOutcome(result)
			return nil
		},
	}
}

// RenameCmd creates the rename command
func RenameCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <role> <custom-assignee> <new name>",
		Short: "Rename a custom assignee",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			result, err := services.EditCustomAssignee(app.Ctx, app.Database, app.Cfg, app.Logger, id, role, args[2], args[3], app.ActingUserID)
			if err != nil {
				return err
			}

			printOutcome(result)
			if result.Outcome.Accepted {
				fmt.Printf("Assignee ID: %s\n", result.Outcome.AssigneeID)
			}
			return nil
		},
	}
}
