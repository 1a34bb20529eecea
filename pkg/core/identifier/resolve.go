package identifier

import (
	"strings"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Directory looks people up in the user, driver and volunteer collections
type Directory interface {
	UserByID(id string) (model.Person, bool)
	UserByEmail(email string) (model.Person, bool)
	DriverByID(id string) (model.Person, bool)
	DriverByEmail(email string) (model.Person, bool)
	VolunteerByID(id string) (model.Person, bool)
	VolunteerByEmail(email string) (model.Person, bool)
}

// Resolver turns assignee identifiers into display names
type Resolver struct {
	dir Directory
}

// NewResolver creates a resolver backed by dir. A nil dir resolves only
// custom tokens and detail names.
func NewResolver(dir Directory) *Resolver {
	if dir == nil {
		dir = NewIndex(nil, nil, nil)
	}
	return &Resolver{dir: dir}
}

// DisplayName resolves raw to a human-readable name. It never fails: unknown
// identifiers come back as "Person #<id>".
func (r *Resolver) DisplayName(raw string, details map[string]model.AssignmentDetail) string {
	id := Parse(raw)

	if id.Kind == KindCustom && id.Name != "" {
		return id.Name
	}

	if detail, ok := details[id.Raw]; ok {
		name := strings.TrimSpace(detail.Name)
		if name != "" && !IsNumeric(name) {
			return name
		}
	}

	if person, ok := r.lookup(id); ok {
		if name := strings.TrimSpace(person.FullName()); name != "" {
			return name
		}
	}

	return "Person #" + id.Raw
}

// DisplayNames resolves every identifier in ids
func (r *Resolver) DisplayNames(ids []string, details map[string]model.AssignmentDetail) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.DisplayName(id, details)
	}
	return names
}

func (r *Resolver) lookup(id ID) (model.Person, bool) {
	var probes []func(string) (model.Person, bool)
	switch id.Kind {
	case KindEmail:
		probes = append(probes, r.dir.UserByEmail, r.dir.DriverByEmail, r.dir.VolunteerByEmail)
	case KindNumeric:
		probes = append(probes, r.dir.DriverByID, r.dir.VolunteerByID, r.dir.UserByID)
	case KindDirectory:
		probes = append(probes, r.dir.UserByID, r.dir.DriverByID, r.dir.VolunteerByID)
	}

	for _, probe := range probes {
		if person, ok := probe(id.Raw); ok {
			return person, true
		}
	}
	return model.Person{}, false
}
