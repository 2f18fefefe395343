package matching

import (
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
)

// SimilarLibraries ranks candidates by Jaro-Winkler similarity between the
// original filename and each library name. It is the fallback suggestion
// source when rule-based scoring leaves the operator with an empty list, so
// the manual-selection prompt is never unordered.
func SimilarLibraries(filename string, libraries []library.Library, limit int) []library.Library {
	if filename == "" || len(libraries) == 0 || limit <= 0 {
		return nil
	}

	metric := metrics.NewJaroWinkler()
	type ranked struct {
		lib        library.Library
		similarity float64
	}
	rankings := make([]ranked, 0, len(libraries))
	for _, lib := range libraries {
		rankings = append(rankings, ranked{
			lib:        lib,
			similarity: strutil.Similarity(filename, lib.Name, metric),
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].similarity > rankings[j].similarity
	})

	if limit > len(rankings) {
		limit = len(rankings)
	}
	out := make([]library.Library, 0, limit)
	for _, r := range rankings[:limit] {
		out = append(out, r.lib)
	}
	return out
}
