// Package selector picks the most suitable remote series for a local one.
package selector

import (
	"strings"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/antzucaro/matchr"
	"go-micro.dev/v4/logger"
)

// maxDistanceDiv bounds an acceptable edit distance relative to the title
// length: a candidate further than len/maxDistanceDiv is not trusted
const maxDistanceDiv = 3

// BestMatch returns the search result whose title is the closest to the local
// series title by edit distance. Returns false when nothing is close enough.
func BestMatch(title string, matches []model.SeriesMatch) (model.SeriesMatch, bool) {
	if len(matches) == 0 {
		return model.SeriesMatch{}, false
	}

	target := strings.ToLower(title)
	best := 0
	bestDistance := -1
	for i, m := range matches {
		distance := matchr.Levenshtein(target, strings.ToLower(m.Title))
		logger.Tracef("%d distance: %d [ %s ]", i, distance, m.Title)
		if bestDistance < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	limit := len(target) / maxDistanceDiv
	if limit < 1 {
		limit = 1
	}
	if bestDistance > limit {
		return model.SeriesMatch{}, false
	}

	sel := matches[best]
	logger.Infof("Selected { ID: %d, Title: %s, Year: %d }", sel.ID, sel.Title, sel.Year)
	return sel, true
}
