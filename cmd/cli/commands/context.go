package commands

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Resolver *identifier.Resolver
	Logger   *zap.Logger
	Ctx      context.Context

	// Acting user for mutating commands
	ActingUserID   string
	ActingUserName string
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("event request id must be a positive integer, got: %s", raw)
	}
	return id, nil
}
