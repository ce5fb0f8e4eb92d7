package utils

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs resolves each pattern (which may use ** for recursive matches)
// to regular files. Literal paths that exist are kept even without a match.
// The result is de-duplicated and sorted; keep filters it when non-nil.
func ExpandGlobs(patterns []string, keep func(string) bool) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string
	for _, pat := range patterns {
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pat); err == nil {
				matches = []string{pat}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if keep != nil && !keep(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}
