package model

// MetricSummary is a precomputed min/avg/max triple for one metric.
// A nil field means the upstream value was missing or not a number.
type MetricSummary struct {
	Min *float64
	Avg *float64
	Max *float64
}

// Reading is an optional MetricSummary: the historian returns an empty
// list when no samples fall in the window.
type Reading struct {
	summary MetricSummary
	ok      bool
}

func Some(s MetricSummary) Reading { return Reading{summary: s, ok: true} }

func None() Reading { return Reading{} }

// Get returns the summary and whether one was present.
func (r Reading) Get() (MetricSummary, bool) {
	return r.summary, r.ok
}

// AlertCount carries the raw decoded value of alertCount.count.
type AlertCount struct {
	Count any
}

// QueryResult is the decoded data object of a successful dashboard query.
type QueryResult struct {
	Readings   map[MetricType]Reading
	AlertCount *AlertCount
}

// Reading returns the reading for m, None when the query did not return it.
func (q QueryResult) Reading(m MetricType) Reading {
	if r, ok := q.Readings[m]; ok {
		return r
	}
	return None()
}
