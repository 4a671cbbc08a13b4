// Package enum holds the closed sets of values used across the domain. Every
// enum is stored as an integer and travels over JSON as its display label.
package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

func label(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return "Unknown"
	}
	return labels[i]
}

// parse matches a label case-insensitively.
func parse(labels []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, l := range labels {
		if strings.EqualFold(l, s) {
			return i, true
		}
	}
	return 0, false
}

// decode accepts either the JSON label or the numeric value.
func decode(labels []string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(labels) {
			return 0, fmt.Errorf("enum value %d out of range", i)
		}
		return i, nil
	}
	i, ok := parse(labels, str)
	if !ok {
		return 0, fmt.Errorf("unknown value %q", str)
	}
	return i, nil
}

func scan(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	}
	return 0
}
