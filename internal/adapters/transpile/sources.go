package transpile

import (
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/zerr"
)

// collectGroups returns the minified and plain script sets under root as
// slash-separated paths relative to root. Each group is sorted
// lexicographically and the plain group excludes every minified match.
//
// The group split carries execution ordering: minified scripts are
// pre-built libraries that must precede application code wherever the
// two sets are concatenated or referenced.
func collectGroups(root string, patterns domain.Patterns) (minified, plain []string, err error) {
	fsys := os.DirFS(root)

	minified, err = doublestar.Glob(fsys, patterns.Minified)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "invalid minified pattern"), "pattern", patterns.Minified)
	}

	all, err := doublestar.Glob(fsys, patterns.Scripts)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "invalid scripts pattern"), "pattern", patterns.Scripts)
	}

	slices.Sort(minified)
	slices.Sort(all)

	minSet := make(map[string]struct{}, len(minified))
	for _, m := range minified {
		minSet[m] = struct{}{}
	}

	plain = make([]string, 0, len(all))
	for _, path := range all {
		if _, ok := minSet[path]; !ok {
			plain = append(plain, path)
		}
	}

	return minified, plain, nil
}
