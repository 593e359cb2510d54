// internal/catalog/parse.go
//
// Order- and duplicate-preserving parse of the catalog JSON documents.
//
// The upstream data files repeat category names on purpose (each line is one
// day of play, and "Fruits" can legitimately occur in week 1 and week 7).
// encoding/json decodes objects into maps, which both drops the duplicates
// and loses document order, so the scan below walks the raw text instead.
//
// Renaming rule for duplicates:
//   - "Fruits" (1st occurrence)  → "Fruits"
//   - "Fruits" (2nd occurrence)  → "Fruits_2"
//   - "Fruits" (3rd occurrence)  → "Fruits_3"

package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// entryRe matches one `"Name": [ ... ]` pair. Names may contain letters in
// any script (the Arabic catalog), digits, underscores, hyphens, and spaces
// (e.g. "Star-anise", "Board games").
var entryRe = regexp.MustCompile(`"([\p{L}\p{N}\s_-]+)"\s*:\s*\[([^\]]+)\]`)

// Parse extracts all categories from a raw catalog document, in document
// order, renaming duplicated names with a numeric suffix.
func Parse(raw string) []Category {
	var out []Category
	seen := make(map[string]int)

	for _, m := range entryRe.FindAllStringSubmatch(raw, -1) {
		name := strings.TrimSpace(m[1])
		items := splitItems(m[2])
		if name == "" || len(items) == 0 {
			continue
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		out = append(out, Category{Name: name, Items: items})
	}
	return out
}

// splitItems turns the inside of a JSON array literal into trimmed,
// unquoted, non-empty strings.
func splitItems(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		item := strings.TrimSpace(part)
		item = strings.TrimPrefix(item, `"`)
		item = strings.TrimSuffix(item, `"`)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
