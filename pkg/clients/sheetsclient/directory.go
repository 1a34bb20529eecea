package sheetsclient

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Expected column names in each directory tab
var requiredFields = []string{
	"ID",
	"First name",
}

var optionalFields = []string{
	"Last name",
	"Display name",
	"Email",
}

// ValueReader reads a range of cells. *Client satisfies it.
type ValueReader interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// LoadDirectory reads the user, driver and volunteer tabs into a lookup index
func LoadDirectory(reader ValueReader, cfg config.DirectoryConfig, logger *zap.Logger) (*identifier.Index, error) {
	users, err := listPeople(reader, cfg.SheetID, cfg.UsersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	drivers, err := listPeople(reader, cfg.SheetID, cfg.DriversTab)
	if err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}

	volunteers, err := listPeople(reader, cfg.SheetID, cfg.VolunteersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to load volunteers: %w", err)
	}

	logger.Info("Loaded directory",
		zap.Int("users", len(users)),
		zap.Int("drivers", len(drivers)),
		zap.Int("volunteers", len(volunteers)))

	return identifier.NewIndex(users, drivers, volunteers), nil
}

func listPeople(reader ValueReader, sheetID, tab string) ([]model.Person, error) {
	values, err := reader.GetValues(sheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s data: %w", tab, err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("tab %s is empty", tab)
	}

	people, err := parsePeople(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tab, err)
	}

	return people, nil
}

// parsePeople converts raw spreadsheet data into people. The first row is the header.
func parsePeople(raw [][]interface{}) ([]model.Person, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	header := raw[0]
	indexOf := func(field string) int {
		for i, cell := range header {
			if s, ok := cell.(string); ok && strings.EqualFold(strings.TrimSpace(s), field) {
				return i
			}
		}
		return -1
	}

	for _, field := range requiredFields {
		index := indexOf(field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalFields {
		if index := indexOf(field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		// Numeric IDs come back as float64 when the sheet stores them as numbers
		switch v := row[index].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return fmt.Sprintf("%.0f", v)
		default:
			return ""
		}
	}

	people := make([]model.Person, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("ID", row)
		firstName := getField("First name", row)
		// Skip blank rows
		if id == "" && firstName == "" {
			continue
		}
		if id == "" {
			return nil, fmt.Errorf("missing ID in row %d", i+1)
		}

		people = append(people, model.Person{
			ID:          id,
			FirstName:   firstName,
			LastName:    getField("Last name", row),
			DisplayName: getField("Display name", row),
			Email:       getField("Email", row),
		})
	}

	return people, nil
}
