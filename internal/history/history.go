// Package history reads and writes the update log kept in category notes.
//
// Notes hold one entry per applied update, newest first:
//
//	2024-03 Monthly IPC: 0.3%: 1000.00€ -> 1003.00€
//	2024 Annual IPC: 3.5%: 1000.00€ -> 1035.00€
//
// Any other text in the notes is preserved verbatim and never matched.
package history

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"ipcynab/internal/core"
)

var (
	entryPattern = regexp.MustCompile(
		`^(\d{4}(?:-\d{2})?) (Monthly|Annual) IPC: (-?\d+(?:\.\d+)?)%: (-?\d+\.\d{2})€ -> (-?\d+\.\d{2})€$`)

	// Entries written before the basis label was introduced.
	legacyPattern = regexp.MustCompile(`^(\d{4}(?:-\d{2})?) IPC: (-?\d+(?:\.\d+)?)%:`)
)

// Entry is one parsed update line.
type Entry struct {
	Period string
	Basis  core.Basis // empty for legacy entries
	Rate   decimal.Decimal
	Old    string // amounts as written, e.g. "1000.00"
	New    string
	Legacy bool
}

// Line is a single line of the notes, parsed or opaque.
type Line struct {
	Text  string
	Entry *Entry
}

// History is the structured view of a notes text.
type History struct {
	Lines []Line
}

// ParseLine parses a single notes line into an Entry.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r")
	if m := entryPattern.FindStringSubmatch(line); m != nil {
		rate, err := decimal.NewFromString(m[3])
		if err != nil {
			return Entry{}, false
		}
		basis := core.PeriodOverPeriod
		if m[2] == "Annual" {
			basis = core.YearOverYear
		}
		return Entry{Period: m[1], Basis: basis, Rate: rate, Old: m[4], New: m[5]}, true
	}
	if m := legacyPattern.FindStringSubmatch(line); m != nil {
		rate, err := decimal.NewFromString(m[2])
		if err != nil {
			return Entry{}, false
		}
		return Entry{Period: m[1], Rate: rate, Legacy: true}, true
	}
	return Entry{}, false
}

// Parse splits notes into lines, attaching an Entry to every line that matches
// the entry format.
func Parse(notes string) History {
	if notes == "" {
		return History{}
	}
	raw := strings.Split(notes, "\n")
	lines := make([]Line, 0, len(raw))
	for _, text := range raw {
		l := Line{Text: text}
		if e, ok := ParseLine(text); ok {
			l.Entry = &e
		}
		lines = append(lines, l)
	}
	return History{Lines: lines}
}

// Find returns the first line recording an update for period. The period
// must match the entry's label exactly: "2024" never matches "2024-03".
func (h History) Find(period string) (Line, bool) {
	for _, l := range h.Lines {
		if l.Entry != nil && l.Entry.Period == period {
			return l, true
		}
	}
	return Line{}, false
}

// HasEntryForPeriod reports whether notes already record an update for period.
func HasEntryForPeriod(notes, period string) bool {
	_, ok := Parse(notes).Find(period)
	return ok
}

// EntryForPeriod returns the notes line that already records an update for
// period, if any.
func EntryForPeriod(notes, period string) (string, bool) {
	l, ok := Parse(notes).Find(period)
	return l.Text, ok
}

// FormatEntry renders the entry line for an update from oldAmount to newAmount
// millicents at rate.
func FormatEntry(rate core.Rate, oldAmount, newAmount int64) string {
	return fmt.Sprintf("%s %s IPC: %s%%: %s -> %s",
		rate.Period,
		rate.Basis.Label(),
		rate.Display(),
		core.FormatEuros(oldAmount),
		core.FormatEuros(newAmount))
}

// Prepend puts entry on top of notes, keeping everything else verbatim.
func Prepend(notes, entry string) string {
	return entry + "\n" + notes
}
