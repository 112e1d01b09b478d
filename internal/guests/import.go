package guests

import (
	"fmt"
	"strings"

	"seating-planner/internal/models"
)

// Raw is a parsed guest row before deduplication and plus-one expansion.
type Raw struct {
	Name        string
	Group       string
	RSVP        string
	PlusOnes    int
	SourceSheet string
	Phone       string
}

// Clamp trims the row's name and limits its name length and plus-one count
// to what a stored guest allows. It reports whether anything was cut.
func Clamp(row Raw) (Raw, bool) {
	out := row
	out.Name = truncate(strings.TrimSpace(row.Name), models.MaxNameLength)
	out.PlusOnes = min(max(row.PlusOnes, 0), models.MaxPlusOnes)
	cut := out.PlusOnes != max(row.PlusOnes, 0) || out.Name != strings.TrimSpace(row.Name)
	return out, cut
}

// Clamped returns the names of the rows Clamp would cut.
func Clamped(rows []Raw) []string {
	var names []string
	for _, row := range rows {
		if _, cut := Clamp(row); cut {
			names = append(names, strings.TrimSpace(row.Name))
		}
	}
	return names
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func plusOneName(name string, n int) string {
	suffix := fmt.Sprintf("'s Guest %d", n)
	return truncate(name, models.MaxNameLength-len(suffix)) + suffix
}

// Expand deduplicates rows by case-insensitive trimmed name, keeping the
// first occurrence, and expands plus-ones into "<name>'s Guest N" records.
// Rows are clamped first, so every result passes Validate. Identifiers are
// assigned sequentially from zero.
func Expand(rows []Raw) []models.Guest {
	seen := make(map[string]struct{})
	var result []models.Guest
	id := 0
	for _, row := range rows {
		row, _ = Clamp(row)
		key := strings.ToLower(row.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		plusOnes := row.PlusOnes
		rsvp := NormalizeRSVP(row.RSVP)
		result = append(result, models.Guest{
			ID:          id,
			Name:        row.Name,
			Group:       row.Group,
			RSVP:        rsvp,
			PlusOnes:    plusOnes,
			SourceSheet: row.SourceSheet,
			Phone:       row.Phone,
		})
		id++
		for i := 0; i < plusOnes; i++ {
			result = append(result, models.Guest{
				ID:          id,
				Name:        plusOneName(row.Name, i+1),
				Group:       row.Group,
				RSVP:        rsvp,
				SourceSheet: row.SourceSheet,
			})
			id++
		}
	}
	return result
}

// Duplicates returns the names that occur more than once, compared
// case-insensitively, each reported once.
func Duplicates(guests []models.Guest) []string {
	counts := make(map[string]int)
	var dups []string
	for _, g := range guests {
		key := strings.ToLower(strings.TrimSpace(g.Name))
		counts[key]++
		if counts[key] == 2 {
			dups = append(dups, g.Name)
		}
	}
	return dups
}

var (
	attendingKeywords    = []string{"attending", "yes", "y", "true", "참석", "o", "출석", "1", "confirmed"}
	notAttendingKeywords = []string{"not attending", "no", "n", "false", "불참", "x", "결석", "0", "declined"}
)

// NormalizeRSVP maps free-form RSVP values onto an RSVPStatus. Negative
// phrases are checked first so that "not attending" is not read as attending.
// Unknown values are Pending.
func NormalizeRSVP(value string) models.RSVPStatus {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return models.RSVPPending
	}
	switch v {
	case "pending", "maybe", "미정", "uncertain", "undecided", "tbd":
		return models.RSVPPending
	}
	if matchesAny(v, notAttendingKeywords) {
		return models.RSVPNotAttending
	}
	if matchesAny(v, attendingKeywords) {
		return models.RSVPAttending
	}
	return models.RSVPPending
}

// matchesAny reports whether v equals a short keyword or contains a long one.
// Single letters only match whole values, otherwise "yes" would contain "y"
// and "no" would hit "n" inside unrelated words.
func matchesAny(v string, keywords []string) bool {
	for _, k := range keywords {
		if len([]rune(k)) <= 1 {
			if v == k {
				return true
			}
			continue
		}
		if strings.Contains(v, k) {
			return true
		}
	}
	return false
}

// Stats summarises RSVP answers.
type Stats struct {
	Total                 int
	Attending             int
	NotAttending          int
	Pending               int
	AttendingWithPlusOnes int
	PercentAttending      int
	PercentResponded      int
}

// Statistics computes RSVP statistics for the guest list.
func Statistics(guests []models.Guest) Stats {
	var st Stats
	st.Total = len(guests)
	for _, g := range guests {
		switch g.RSVP {
		case models.RSVPAttending:
			st.Attending++
			st.AttendingWithPlusOnes += 1 + g.PlusOnes
		case models.RSVPNotAttending:
			st.NotAttending++
		case models.RSVPPending:
			st.Pending++
		}
	}
	if st.Total > 0 {
		st.PercentAttending = roundPercent(st.Attending, st.Total)
		st.PercentResponded = roundPercent(st.Attending+st.NotAttending, st.Total)
	}
	return st
}

func roundPercent(n, total int) int {
	return (n*200 + total) / (2 * total)
}

// SheetNames returns the distinct source sheets in first-seen order.
func SheetNames(guests []models.Guest) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, g := range guests {
		if g.SourceSheet == "" {
			continue
		}
		if _, ok := seen[g.SourceSheet]; ok {
			continue
		}
		seen[g.SourceSheet] = struct{}{}
		names = append(names, g.SourceSheet)
	}
	return names
}

// CapacityReport compares attending headcount with available seats.
type CapacityReport struct {
	Guests  int
	Seats   int
	Message string
}

// OK reports whether there are enough seats.
func (r CapacityReport) OK() bool {
	return r.Seats >= r.Guests
}

// CheckCapacity counts attending guests including their plus-ones against
// the total capacity of tables.
func CheckCapacity(guests []models.Guest, tables models.Tables) CapacityReport {
	r := CapacityReport{Seats: tables.Capacity()}
	for _, g := range guests {
		if g.Seatable() {
			r.Guests += 1 + g.PlusOnes
		}
	}
	if !r.OK() {
		r.Message = fmt.Sprintf("Not enough seats! Need %d seats but only have %d", r.Guests, r.Seats)
	}
	return r
}
