package autoseat

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

// Affiliation names one side of the event and the marker that identifies its
// guests in the group or source-sheet label.
type Affiliation struct {
	Name   string
	Marker string
}

// Matches reports whether the guest carries the affiliation marker.
func (a Affiliation) Matches(g models.Guest) bool {
	if a.Marker == "" {
		return false
	}
	return strings.Contains(g.SourceSheet, a.Marker) || strings.Contains(g.Group, a.Marker)
}

// Sides configures affiliation seating.
type Sides struct {
	A Affiliation
	B Affiliation
}

// DefaultSides matches the groom and bride sheets of a Korean guest list.
var DefaultSides = Sides{
	A: Affiliation{Name: "Groom", Marker: "신랑"},
	B: Affiliation{Name: "Bride", Marker: "신부"},
}

// AffiliationResult is the outcome of ByAffiliation.
type AffiliationResult struct {
	Tables      models.Tables
	Summary     string
	GuestsA     int
	GuestsB     int
	GuestsOther int
	SeatedA     int
	SeatedB     int
	SeatedOther int
	SplitGroups []string
}

// Classify splits guests into side A, side B and the rest. A guest matching
// both markers belongs to side A.
func (s Sides) Classify(guests []models.Guest) (a, b, other []models.Guest) {
	for _, g := range guests {
		switch {
		case s.A.Matches(g):
			a = append(a, g)
		case s.B.Matches(g):
			b = append(b, g)
		default:
			other = append(other, g)
		}
	}
	return a, b, other
}

// ByAffiliation clears all assignments and seats each side on its own half
// of the tables: the first ceil(n/2) tables go to side A, the rest to side
// B. Each half is seated with ByGroup, then the remaining guests fill
// whatever seats are left anywhere. Table order of the result matches the
// input. With fewer than two tables everyone is seated with ByGroup.
func ByAffiliation(rng *rand.Rand, sides Sides, guests []models.Guest, tables models.Tables) AffiliationResult {
	cleared := seating.ClearAll(tables)

	if len(cleared) < 2 {
		res := ByGroup(guests, cleared)
		summary := "Seated all guests. Not enough tables to split by affiliation."
		if short := len(guests) - res.Tables.Occupied(); short > 0 {
			summary = fmt.Sprintf("Not enough tables to split by affiliation. Could not seat %d guest(s) due to lack of space.", short)
		}
		if len(res.SplitGroups) > 0 {
			summary += fmt.Sprintf(" Groups split: %s.", strings.Join(res.SplitGroups, ", "))
		}
		return AffiliationResult{
			Tables:      res.Tables,
			Summary:     summary,
			SplitGroups: res.SplitGroups,
		}
	}

	a, b, other := sides.Classify(guests)

	mid := (len(cleared) + 1) / 2
	left := ByGroup(a, cleared[:mid])
	right := ByGroup(b, cleared[mid:])

	combined := make(models.Tables, 0, len(cleared))
	combined = append(combined, left.Tables...)
	combined = append(combined, right.Tables...)
	filled := FillVacancies(rng, other, combined)

	res := AffiliationResult{
		Tables:      restoreOrder(tables, filled.Tables),
		GuestsA:     len(a),
		GuestsB:     len(b),
		GuestsOther: len(other),
		SeatedA:     left.Tables.Occupied(),
		SeatedB:     right.Tables.Occupied(),
		SeatedOther: filled.Seated,
		SplitGroups: dedupe(append(left.SplitGroups, right.SplitGroups...)),
	}
	res.Summary = res.summary(sides)
	return res
}

func (r AffiliationResult) summary(sides Sides) string {
	parts := []string{fmt.Sprintf("Seated %d/%d from %s's side and %d/%d from %s's side.",
		r.SeatedA, r.GuestsA, sides.A.Name, r.SeatedB, r.GuestsB, sides.B.Name)}
	if r.SeatedOther > 0 {
		parts = append(parts, fmt.Sprintf("Seated %d/%d other guests.", r.SeatedOther, r.GuestsOther))
	}
	if len(r.SplitGroups) > 0 {
		parts = append(parts, fmt.Sprintf("Groups split: %s.", strings.Join(r.SplitGroups, ", ")))
	}
	return strings.Join(parts, " ")
}

// restoreOrder returns the tables of seated in the order of original.
func restoreOrder(original, seated models.Tables) models.Tables {
	byID := make(map[int64]models.Table, len(seated))
	for _, t := range seated {
		byID[t.ID] = t
	}
	out := make(models.Tables, 0, len(original))
	for _, t := range original {
		out = append(out, byID[t.ID])
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
