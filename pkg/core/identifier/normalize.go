package identifier

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizeList converts the many encodings an identifier list arrives in into
// a canonical ordered list. Accepted inputs:
//   - []string or []any
//   - "" / "{}" / "[]" (empty)
//   - braced quoted tokens: {"a","b"}
//   - braced or bare unquoted tokens: {a,b} / a, b
//   - JSON arrays: ["a","b"]
//
// Entries are trimmed and empty entries dropped; duplicates keep their source
// order. Anything else yields an empty list.
func NormalizeList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanTokens(v)
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			switch t := item.(type) {
			case string:
				tokens = append(tokens, t)
			case float64:
				tokens = append(tokens, strconv.FormatFloat(t, 'f', -1, 64))
			case int:
				tokens = append(tokens, strconv.Itoa(t))
			}
		}
		return cleanTokens(tokens)
	case string:
		return parseEncoded(v)
	case *string:
		if v == nil {
			return []string{}
		}
		return parseEncoded(*v)
	default:
		return []string{}
	}
}

// EncodeList renders ids as a JSON array, the stored form of every roster list
func EncodeList(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	// a []string always marshals
	b, _ := json.Marshal(ids)
	return string(b)
}

func parseEncoded(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "{}" || s == "[]" {
		return []string{}
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return NormalizeList(items)
		}
		s = s[1 : len(s)-1]
	} else if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}

	return cleanTokens(splitTokens(s))
}

// splitTokens splits on commas outside double quotes. Quotes are dropped and
// a backslash inside quotes escapes the next character.
func splitTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			tokens = append(tokens, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(tokens, cur.String())
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
			token = strings.ReplaceAll(token[1:len(token)-1], `\"`, `"`)
			token = strings.TrimSpace(token)
		}
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
