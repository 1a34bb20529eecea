package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CustomPrefix starts every custom-person token: custom-<unix millis>-<Name-With-Dashes>
const CustomPrefix = "custom-"

var (
	customPattern  = regexp.MustCompile(`^custom-(\d+)-(.+)$`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// Kind classifies which identifier scheme an ID belongs to
type Kind int

const (
	// KindDirectory is an opaque user ID (e.g. "user_1699_abc")
	KindDirectory Kind = iota
	KindEmail
	KindNumeric
	// KindCustom is an ad hoc person who is in no directory
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindNumeric:
		return "numeric"
	case KindCustom:
		return "custom"
	default:
		return "directory"
	}
}

// ID is an assignee identifier parsed once into its scheme
type ID struct {
	Kind Kind
	Raw  string

	// Set for KindCustom only
	Timestamp int64
	Name      string
}

// Parse classifies a raw identifier
func Parse(raw string) ID {
	raw = strings.TrimSpace(raw)

	if m := customPattern.FindStringSubmatch(raw); m != nil {
		ts, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			return ID{Kind: KindCustom, Raw: raw, Timestamp: ts, Name: decodeName(m[2])}
		}
	}
	if strings.Contains(raw, "@") && !strings.ContainsAny(raw, " \t") {
		return ID{Kind: KindEmail, Raw: raw}
	}
	if numericPattern.MatchString(raw) {
		return ID{Kind: KindNumeric, Raw: raw}
	}
	return ID{Kind: KindDirectory, Raw: raw}
}

// NewCustom builds a custom-person token for name, stamped with at
func NewCustom(name string, at time.Time) (ID, error) {
	return newCustomAt(name, at.UnixMilli())
}

// Rename returns a custom token with the same timestamp and a new name
func (id ID) Rename(name string) (ID, error) {
	if id.Kind != KindCustom {
		return ID{}, fmt.Errorf("identifier %q is not a custom person", id.Raw)
	}
	return newCustomAt(name, id.Timestamp)
}

func (id ID) String() string {
	return id.Raw
}

func (id ID) IsCustom() bool {
	return id.Kind == KindCustom
}

func newCustomAt(name string, millis int64) (ID, error) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ID{}, fmt.Errorf("custom person name must not be empty")
	}
	encoded := strings.Join(parts, "-")
	decoded := decodeName(encoded)
	if decoded == "" {
		return ID{}, fmt.Errorf("custom person name must contain more than dashes")
	}
	raw := fmt.Sprintf("%s%d-%s", CustomPrefix, millis, encoded)
	return ID{Kind: KindCustom, Raw: raw, Timestamp: millis, Name: decoded}, nil
}

func decodeName(segment string) string {
	return strings.TrimSpace(strings.ReplaceAll(segment, "-", " "))
}

// IsNumeric reports whether s consists only of digits
func IsNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}
