package core

import (
	"sort"
	"strings"
	"time"
)

// Category is a fixed date bucket for the derived display view.
type Category string

const (
	CategoryToday     Category = "Today"
	CategoryYesterday Category = "Yesterday"
	CategoryThisWeek  Category = "This week"
	CategoryThisMonth Category = "This month"
	CategoryOlder     Category = "Older"
)

// Categories lists the buckets in display order.
var Categories = []Category{
	CategoryToday,
	CategoryYesterday,
	CategoryThisWeek,
	CategoryThisMonth,
	CategoryOlder,
}

// CategorizedView maps each bucket to its notes, newest-UpdatedAt-first.
// It is derived and ephemeral: recomputed from the collection and the
// current search term on every read, never persisted.
type CategorizedView map[Category][]Note

// Total returns the number of notes across all buckets.
func (v CategorizedView) Total() int {
	n := 0
	for _, notes := range v {
		n += len(notes)
	}
	return n
}

// Categorize filters, buckets, and sorts notes for display. It is pure and
// deterministic: same inputs, same output, no memory of prior calls.
//
// Workflow:
//  1. Filter: empty (trimmed) term keeps everything; otherwise keep notes
//     whose title or content contains the term, case-insensitively.
//  2. Bucket by calendar-day distance between each note's UpdatedAt and
//     now, compared at date granularity (see daysBetween).
//  3. Sort each bucket descending by UpdatedAt; the sort is stable so ties
//     keep their prior relative order.
func Categorize(notes []Note, searchTerm string, now time.Time) CategorizedView {
	view := make(CategorizedView, len(Categories))
	for _, c := range Categories {
		view[c] = nil
	}

	term := strings.ToLower(strings.TrimSpace(searchTerm))
	for _, n := range notes {
		if term != "" &&
			!strings.Contains(strings.ToLower(n.Title), term) &&
			!strings.Contains(strings.ToLower(n.Content), term) {
			continue
		}
		c := categoryFor(n.UpdatedAt, now)
		view[c] = append(view[c], n)
	}

	for _, c := range Categories {
		bucket := view[c]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].UpdatedAt.After(bucket[j].UpdatedAt)
		})
	}

	return view
}

// categoryFor maps a note's UpdatedAt to its bucket relative to now.
func categoryFor(updated, now time.Time) Category {
	switch d := daysBetween(updated, now); {
	case d <= 0:
		return CategoryToday
	case d == 1:
		return CategoryYesterday
	case d <= 7:
		return CategoryThisWeek
	case d <= 30:
		return CategoryThisMonth
	default:
		return CategoryOlder
	}
}

// daysBetween counts whole calendar days between the local dates of a and b.
// Only the date components matter: a note updated at 23:59 yesterday is one
// day away from 00:01 today even though two minutes elapsed. This matches
// the ceiling semantics of the display layer and is intentional, including
// the quirk that a note from just after midnight can outrank an older note
// from just before it.
func daysBetween(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)
	aMid := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bMid := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	// DST can shift a midnight delta off 24h multiples; Round restores whole days.
	return int(bMid.Sub(aMid).Round(24*time.Hour) / (24 * time.Hour))
}
