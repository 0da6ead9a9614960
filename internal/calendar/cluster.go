package calendar

import (
	"sort"
	"time"
)

// Cluster is a maximal run of consecutive non-working days inside one
// calendar month. Days are strictly consecutive and ascending.
type Cluster struct {
	Days []time.Time
}

// Start returns the first day of the cluster
func (c Cluster) Start() time.Time {
	return c.Days[0]
}

// End returns the last day of the cluster
func (c Cluster) End() time.Time {
	return c.Days[len(c.Days)-1]
}

// Len returns the number of days in the cluster
func (c Cluster) Len() int {
	return len(c.Days)
}

// FindClusters groups consecutive holidays and weekends. A cluster is closed
// by a workday, by the start of a new month, or by the end of the year, so
// no cluster crosses a month boundary.
func FindClusters(cal *YearCalendar) []Cluster {
	var clusters []Cluster
	var current []time.Time

	flush := func() {
		if len(current) > 0 {
			clusters = append(clusters, Cluster{Days: current})
			current = nil
		}
	}

	for i, day := range cal.Days {
		if day.Type.IsOff() {
			current = append(current, day.Date)
		} else {
			flush()
		}

		last := i+1 == len(cal.Days)
		if last || cal.Days[i+1].Date.Month() != day.Date.Month() {
			flush()
		}
	}

	return clusters
}

// SortByLength returns a copy of the clusters ordered longest first.
// Clusters of equal length keep their chronological order.
func SortByLength(clusters []Cluster) []Cluster {
	sorted := make([]Cluster, len(clusters))
	copy(sorted, clusters)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Len() > sorted[j].Len()
	})

	return sorted
}
