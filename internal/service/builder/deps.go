package builder

import (
	"sort"
	"strings"
)

// escapedSpaceMarker temporarily replaces "\ " so that Fields splits correctly.
const escapedSpaceMarker = "\x00"

// parseDepfile extracts the prerequisite paths from a make-style depfile
// as produced by `cc -MMD -MF`. Line continuations are joined, phony
// targets (from -MP) are skipped and duplicates are removed. The result
// is sorted for deterministic manifests.
func parseDepfile(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\\\r\n", " ")
	text = strings.ReplaceAll(text, "\\\n", " ")
	text = strings.ReplaceAll(text, "\\ ", escapedSpaceMarker)

	seen := make(map[string]struct{}, defaultMapCapacity)
	deps := make([]string, 0, defaultMapCapacity)

	for _, line := range strings.Split(text, "\n") {
		colon := strings.Index(line, ": ")
		if colon < 0 {
			// Either a phony target rule ("header.h:") or junk; skip.
			continue
		}

		for _, field := range strings.Fields(line[colon+1:]) {
			if strings.HasSuffix(field, ":") {
				continue
			}

			field = strings.ReplaceAll(field, escapedSpaceMarker, " ")
			if _, ok := seen[field]; ok {
				continue
			}

			seen[field] = struct{}{}

			deps = append(deps, field)
		}
	}

	sort.Strings(deps)

	return deps
}
