package search

import (
	"time"

	"github.com/soundprediction/kgview/pkg/types"
)

// FilterBySource keeps records carrying source either as a source type or
// as a citation source. An empty source keeps everything.
func FilterBySource(records []types.QARecord, source types.SourceType) []types.QARecord {
	if source == "" {
		return records
	}
	filtered := make([]types.QARecord, 0, len(records))
	for i := range records {
		if records[i].HasSource(source) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// FilterByDateRange keeps records dated within [StartOfDay(start),
// EndOfDay(end)]. A nil bound is unbounded on that side.
func FilterByDateRange(records []types.QARecord, start, end *time.Time) []types.QARecord {
	if start == nil && end == nil {
		return records
	}

	var lo, hi time.Time
	if start != nil {
		lo = StartOfDay(*start)
	}
	if end != nil {
		hi = EndOfDay(*end)
	}

	filtered := make([]types.QARecord, 0, len(records))
	for i := range records {
		d := records[i].Date
		if start != nil && d.Before(lo) {
			continue
		}
		if end != nil && d.After(hi) {
			continue
		}
		filtered = append(filtered, records[i])
	}
	return filtered
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
