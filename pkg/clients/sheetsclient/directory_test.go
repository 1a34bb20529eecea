package sheetsclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

type fakeReader struct {
	tabs map[string][][]interface{}
	err  error
}

func (f *fakeReader) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tabs[sheetRange], nil
}

func TestParsePeople(t *testing.T) {
	raw := [][]interface{}{
		{"Email", "ID", "First name", "Last name", "Display name"},
		{"Dana@Example.org", float64(42), "Dana", "Lee", ""},
		{"", "", "", "", ""},
		{"", "user_7", "Sam", "", "Sammy"},
		{"pat@example.org", "user_8", "Pat"},
	}

	people, err := parsePeople(raw)
	require.NoError(t, err)

	require.Len(t, people, 3)
	assert.Equal(t, model.Person{ID: "42", FirstName: "Dana", LastName: "Lee", Email: "Dana@Example.org"}, people[0])
	assert.Equal(t, "Sammy", people[1].FullName())
	assert.Equal(t, "Pat", people[2].FullName())
}

func TestParsePeople_OptionalColumnsAbsent(t *testing.T) {
	people, err := parsePeople([][]interface{}{
		{"ID", "First name"},
		{"1", "Alex"},
	})
	require.NoError(t, err)

	require.Len(t, people, 1)
	assert.Equal(t, "Alex", people[0].FullName())
	assert.Empty(t, people[0].Email)
}

func TestParsePeople_Errors(t *testing.T) {
	_, err := parsePeople([][]interface{}{{"First name", "Email"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field in header: ID")

	_, err = parsePeople([][]interface{}{
		{"ID", "First name"},
		{"", "NoID"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing ID in row 2")

	_, err = parsePeople(nil)
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	reader := &fakeReader{tabs: map[string][][]interface{}{
		"Users":      {{"ID", "First name", "Last name", "Email"}, {"user_1", "Alex", "Admin", "alex@example.org"}},
		"Drivers":    {{"ID", "First name", "Last name"}, {"42", "Dana", "Lee"}},
		"Volunteers": {{"ID", "First name"}, {"77", "Robin"}, {"78", "Kim"}},
	}}
	cfg := config.DirectoryConfig{SheetID: "sheet", UsersTab: "Users", DriversTab: "Drivers", VolunteersTab: "Volunteers"}

	index, err := LoadDirectory(reader, cfg, zap.NewNop())
	require.NoError(t, err)

	users, drivers, volunteers := index.Size()
	assert.Equal(t, []int{1, 1, 2}, []int{users, drivers, volunteers})

	person, ok := index.UserByEmail("ALEX@example.org")
	require.True(t, ok)
	assert.Equal(t, "user_1", person.ID)

	person, ok = index.DriverByID("42")
	require.True(t, ok)
	assert.Equal(t, "Dana Lee", person.FullName())
}

func TestLoadDirectory_Errors(t *testing.T) {
	cfg := config.DirectoryConfig{SheetID: "sheet", UsersTab: "Users", DriversTab: "Drivers", VolunteersTab: "Volunteers"}

	_, err := LoadDirectory(&fakeReader{err: errors.New("quota exceeded")}, cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load users")

	_, err = LoadDirectory(&fakeReader{tabs: map[string][][]interface{}{
		"Users": {{"ID", "First name"}},
	}}, cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab Drivers is empty")
}
