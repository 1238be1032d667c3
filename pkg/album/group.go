package album

import (
	"sort"
	"strconv"
	"time"
)

// GroupByYear groups albums by the calendar year (UTC) of their start
// instant. Albums without a parseable start are left out of every group.
//
// The returned year list is ordered most recent first. Albums within a year
// are ordered by start instant, most recent first; ties keep input order.
func GroupByYear(albums []Album) (map[string][]Album, []string) {
	type dated struct {
		album Album
		start time.Time
	}

	buckets := make(map[int][]dated)
	for _, a := range albums {
		start, ok := a.Start()
		if !ok {
			continue
		}
		year := start.UTC().Year()
		buckets[year] = append(buckets[year], dated{album: a, start: start})
	}

	years := make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make(map[string][]Album, len(buckets))
	order := make([]string, 0, len(years))
	for _, year := range years {
		entries := buckets[year]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].start.After(entries[j].start)
		})

		key := strconv.Itoa(year)
		list := make([]Album, len(entries))
		for i, e := range entries {
			list[i] = e.album
		}
		groups[key] = list
		order = append(order, key)
	}

	return groups, order
}
