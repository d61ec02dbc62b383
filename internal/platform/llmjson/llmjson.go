// Package llmjson pulls structured payloads out of free-form model replies.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrNoObject = errors.New("no json object found")

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// Object returns the first balanced, valid JSON object embedded in raw.
// Code fences and surrounding prose are ignored.
func Object(raw string) (string, bool) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end, ok := matchBrace(raw, start); ok {
			candidate := raw[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// Decode unmarshals the first JSON object in raw into v.
func Decode(raw string, v any) error {
	obj, ok := Object(raw)
	if !ok {
		return ErrNoObject
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("decode json object: %w", err)
	}
	return nil
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// StringList accepts either a JSON array of strings or a single string with
// one item per line.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = clean(items)
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string or list of strings")
	}
	*l = clean(strings.Split(single, "\n"))
	return nil
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(listMarker.ReplaceAllString(item, ""))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Minutes accepts 45, "45", "45 minutes" or "1.5 hours".
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*m = Minutes(n + 0.5)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number of minutes")
	}
	v, ok := ParseMinutes(s)
	if !ok {
		return fmt.Errorf("unrecognized duration %q", s)
	}
	*m = Minutes(v)
	return nil
}

// ParseMinutes reads durations such as "30", "30 min", "2 hours", "1.5h".
func ParseMinutes(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	unit := strings.TrimSpace(s[end:])
	if strings.HasPrefix(unit, "h") {
		n *= 60
	}
	return int(n + 0.5), true
}
