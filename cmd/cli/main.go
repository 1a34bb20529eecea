package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/cmd/cli/commands"
	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/clients/sheetsclient"
	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
	"github.com/jakechorley/tsp-event-requests/pkg/postgres"
	"github.com/jakechorley/tsp-event-requests/pkg/sqlite"
	"github.com/jakechorley/tsp-event-requests/pkg/utils/logging"
)

var (
	env     string
	verbose bool
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Event requests CLI - track sandwich-delivery events and their volunteers",
		Long:  `A CLI tool for moving event requests through their lifecycle, staffing drivers, speakers and volunteers, and finding follow-ups that are due.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVar(&app.ActingUserID, "as", os.Getenv("USER"), "ID of the user performing the action")
	rootCmd.PersistentFlags().StringVar(&app.ActingUserName, "as-name", "", "Display name of the user performing the action")

	rootCmd.AddCommand(commands.ListCmd(app))
	rootCmd.AddCommand(commands.StaffingCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.UnassignCmd(app))
	rootCmd.AddCommand(commands.RenameCmd(app))
	rootCmd.AddCommand(commands.StatusCmd(app))
	rootCmd.AddCommand(commands.SubmitCmd(app))
	rootCmd.AddCommand(commands.FollowUpsCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the optional people directory
func initApp(app *commands.AppContext) error {
	var err error
	app.Env = env

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database)
	if err != nil {
		return err
	}

	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database initialized successfully", zap.String("driver", app.Cfg.Database.Driver))

	app.Resolver, err = loadResolver(app)
	if err != nil {
		return err
	}

	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (db.Database, error) {
	switch cfg.Driver {
	case "postgres":
		database, err := postgres.NewDB(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil
	case "sqlite":
		database, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// loadResolver reads the people directory from Google Sheets when one is
// configured. Without it names fall back to stored details.
func loadResolver(app *commands.AppContext) (*identifier.Resolver, error) {
	if !app.Cfg.Directory.Enabled() {
		app.Logger.Debug("No directory configured, names resolve from stored details only")
		return identifier.NewResolver(nil), nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	sheetsClient, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	index, err := sheetsclient.LoadDirectory(sheetsClient, app.Cfg.Directory, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}

	return identifier.NewResolver(index), nil
}
