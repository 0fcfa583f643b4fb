package layout

import (
	"sort"

	"github.com/paes-tools/questioncrop/internal/models"
)

// MinIntervalHeight is the smallest interval height, in points, that is kept as-is
const MinIntervalHeight = 1.0

// ResolveIntervals turns one document's markers into closed vertical intervals.
//
// Markers on invalid pages are dropped. The remaining markers are grouped by
// page and ordered by YTop (stable, so equal YTop values keep their input
// order). Each marker ends where the next marker on the same page starts; the
// last marker on a page, and any interval that would be empty or shorter than
// MinIntervalHeight, ends at pageHeight-padding instead. A marker lying within
// MinIntervalHeight of that boundary, or below it, still gets its interval;
// that interval is shorter than MinIntervalHeight and the exporter records it
// with null paths.
//
// Intervals are returned page by page in ascending page order. The function is
// pure: the same input always yields the same boundaries.
func ResolveIntervals(markers []models.QuestionMarker, invalid map[int]bool, geometry map[int]models.PageGeometry, padding float64) []models.QuestionInterval {
	byPage := make(map[int][]models.QuestionMarker)
	var pages []int
	for _, m := range markers {
		if invalid[m.Page] {
			continue
		}
		if _, seen := byPage[m.Page]; !seen {
			pages = append(pages, m.Page)
		}
		byPage[m.Page] = append(byPage[m.Page], m)
	}
	sort.Ints(pages)

	intervals := make([]models.QuestionInterval, 0, len(markers))
	for _, page := range pages {
		onPage := byPage[page]
		sort.SliceStable(onPage, func(i, j int) bool {
			return onPage[i].YTop < onPage[j].YTop
		})

		restOfPage := geometry[page].Height - padding
		for i, m := range onPage {
			bottom := restOfPage
			if i+1 < len(onPage) {
				bottom = onPage[i+1].YTop
			}
			if bottom <= m.YTop || bottom-m.YTop < MinIntervalHeight {
				bottom = restOfPage
			}

			intervals = append(intervals, models.QuestionInterval{
				Page:           page,
				QuestionNumber: m.QuestionNumber,
				YTop:           m.YTop,
				YBottom:        bottom,
			})
		}
	}

	return intervals
}
