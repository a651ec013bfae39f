package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAssignments turns key=value and key:=json arguments into a mapping.
// A later assignment to the same key wins.
func parseAssignments(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, err := parseAssignment(arg)
		if err != nil {
			return nil, err
		}
		fields[key] = value
	}
	return fields, nil
}

func parseAssignment(arg string) (string, any, error) {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid assignment %q: expected key=value or key:=json", arg)
	}

	typed := strings.HasSuffix(key, ":")
	key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
	if key == "" {
		return "", nil, fmt.Errorf("invalid assignment %q: empty key", arg)
	}
	if !typed {
		return key, raw, nil
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON value for %s: %w", key, err)
	}
	return key, value, nil
}
