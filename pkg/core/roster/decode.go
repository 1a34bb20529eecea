package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// idKeys are the fields older records used to carry the assignee ID inside
// array-shaped detail lists
var idKeys = []string{"id", "driverId", "userId", "volunteerId", "speakerId"}

// DecodeDetails decodes a stored detail structure. Besides the canonical
// {"<id>": {"name": ..., "assignedAt": ...}} it accepts the older shapes:
//   - {"<id>": "<name>"}
//   - [{"id": "<id>", "name": ...}, ...] (also driverId / userId / volunteerId / speakerId)
//   - ["<id>", ...]
func DecodeDetails(data []byte) (map[string]model.AssignmentDetail, error) {
	out := map[string]model.AssignmentDetail{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode assignment details: %w", err)
	}

	switch v := raw.(type) {
	case map[string]any:
		for id, entry := range v {
			switch e := entry.(type) {
			case map[string]any:
				out[id] = detailFromObject(e)
			case string:
				out[id] = model.AssignmentDetail{Name: e}
			default:
				out[id] = model.AssignmentDetail{}
			}
		}
	case []any:
		for _, entry := range v {
			switch e := entry.(type) {
			case map[string]any:
				if id := idFromObject(e); id != "" {
					out[id] = detailFromObject(e)
				}
			case string:
				if e != "" {
					out[e] = model.AssignmentDetail{}
				}
			case float64:
				out[strconv.FormatFloat(e, 'f', -1, 64)] = model.AssignmentDetail{}
			}
		}
	}

	return out, nil
}

// EncodeDetails encodes details in the canonical keyed-object shape
func EncodeDetails(details map[string]model.AssignmentDetail) ([]byte, error) {
	if details == nil {
		details = map[string]model.AssignmentDetail{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assignment details: %w", err)
	}
	return data, nil
}

func idFromObject(obj map[string]any) string {
	for _, key := range idKeys {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func detailFromObject(obj map[string]any) model.AssignmentDetail {
	var d model.AssignmentDetail
	if name, ok := obj["name"].(string); ok {
		d.Name = name
	}
	if by, ok := obj["assignedBy"].(string); ok {
		d.AssignedBy = by
	}
	if self, ok := obj["selfAssigned"].(bool); ok {
		d.SelfAssigned = self
	}
	if at, ok := obj["assignedAt"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			d.AssignedAt = parsed
		}
	}
	return d
}
