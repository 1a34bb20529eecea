package identifier

import (
	"strings"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Index is an in-memory Directory snapshot
type Index struct {
	users      collection
	drivers    collection
	volunteers collection
}

type collection struct {
	byID    map[string]model.Person
	byEmail map[string]model.Person
}

func newCollection(people []model.Person) collection {
	c := collection{
		byID:    make(map[string]model.Person, len(people)),
		byEmail: make(map[string]model.Person, len(people)),
	}
	for _, p := range people {
		if p.ID != "" {
			c.byID[p.ID] = p
		}
		if email := normalizeEmail(p.Email); email != "" {
			// First entry wins for shared addresses
			if _, exists := c.byEmail[email]; !exists {
				c.byEmail[email] = p
			}
		}
	}
	return c
}

// NewIndex builds a Directory from the three people collections
func NewIndex(users, drivers, volunteers []model.Person) *Index {
	return &Index{
		users:      newCollection(users),
		drivers:    newCollection(drivers),
		volunteers: newCollection(volunteers),
	}
}

// Size returns the number of people in each collection
func (ix *Index) Size() (users, drivers, volunteers int) {
	return len(ix.users.byID), len(ix.drivers.byID), len(ix.volunteers.byID)
}

func (ix *Index) UserByID(id string) (model.Person, bool) {
	p, ok := ix.users.byID[id]
	return p, ok
}

func (ix *Index) UserByEmail(email string) (model.Person, bool) {
	p, ok := ix.users.byEmail[normalizeEmail(email)]
	return p, ok
}

func (ix *Index) DriverByID(id string) (model.Person, bool) {
	p, ok := ix.drivers.byID[id]
	return p, ok
}

func (ix *Index) DriverByEmail(email string) (model.Person, bool) {
	p, ok := ix.drivers.byEmail[normalizeEmail(email)]
	return p, ok
}

func (ix *Index) VolunteerByID(id string) (model.Person, bool) {
	p, ok := ix.volunteers.byID[id]
	return p, ok
}

func (ix *Index) VolunteerByEmail(email string) (model.Person, bool) {
	p, ok := ix.volunteers.byEmail[normalizeEmail(email)]
	return p, ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
