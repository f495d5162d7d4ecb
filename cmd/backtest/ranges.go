package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseRanges turns NAME=V1,V2,... args into optimizer ranges. A repeated
// name appends to its values.
func parseRanges(args []string) (map[string][]float64, error) {
	ranges := make(map[string][]float64, len(args))

	for _, arg := range args {
		name, list, found := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)

		if !found || name == "" {
			return nil, fmt.Errorf("invalid range %q, expected NAME=V1,V2", arg)
		}

		for _, raw := range strings.Split(list, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q for %s: %w", raw, name, err)
			}

			ranges[name] = append(ranges[name], value)
		}

		if len(ranges[name]) == 0 {
			return nil, fmt.Errorf("range %s has no values", name)
		}
	}

	return ranges, nil
}
