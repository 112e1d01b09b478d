// Package autoseat implements the bulk seating strategies. Each strategy is
// a pure function of a guest list and a table snapshot; it returns a new
// snapshot and never modifies its inputs.
//
// The strategies only add assignments. Seats that already reference guests
// missing from the guest list are left alone, so callers that need a clean
// result clear the snapshot first.
package autoseat

import (
	"math/rand/v2"
	"slices"
	"sort"

	"seating-planner/internal/models"
)

// GroupResult is the outcome of ByGroup.
type GroupResult struct {
	Tables      models.Tables
	SplitGroups []string
}

// FillResult is the outcome of FillVacancies. Seated may be lower than the
// number of requested guests when seats run out.
type FillResult struct {
	Tables models.Tables
	Seated int
}

type group struct {
	name    string
	members []models.Guest
}

// partition buckets guests by group label in encounter order. Guests without
// a label go to the Individual bucket, which is returned separately.
func partition(guests []models.Guest) ([]group, []models.Guest) {
	index := make(map[string]int)
	var groups []group
	var individuals []models.Guest
	for _, g := range guests {
		name := g.GroupName()
		if name == models.IndividualGroup {
			individuals = append(individuals, g)
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, group{name: name})
		}
		groups[i].members = append(groups[i].members, g)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return len(groups[a].members) > len(groups[b].members)
	})
	return groups, individuals
}

// ByGroup seats guests keeping groups together. Groups are handled largest
// first; each goes to the table with the fewest vacant seats that still
// holds the whole group. A group that fits nowhere is split over tables in
// order, first fit, and reported. Guests without a group are seated last,
// one by one, at the table with the most vacant seats.
func ByGroup(guests []models.Guest, tables models.Tables) GroupResult {
	next := tables.Clone()
	groups, individuals := partition(guests)
	var split []string

	for _, g := range groups {
		if t := tightestFit(next, len(g.members)); t >= 0 {
			fillTable(&next[t], g.members)
			continue
		}
		split = append(split, g.name)
		for _, m := range g.members {
			firstFit(next, m.ID)
		}
	}

	for _, m := range individuals {
		t := mostVacant(next)
		if t < 0 {
			break
		}
		fillTable(&next[t], []models.Guest{m})
	}

	return GroupResult{Tables: next, SplitGroups: split}
}

// tightestFit returns the index of the table with the least vacancies that
// can still take n guests, or -1. Ties keep table order.
func tightestFit(tables models.Tables, n int) int {
	best, bestVacant := -1, 0
	for i, t := range tables {
		v := t.Vacancies()
		if v < n {
			continue
		}
		if best < 0 || v < bestVacant {
			best, bestVacant = i, v
		}
	}
	return best
}

// mostVacant returns the index of the table with the most vacancies, or -1
// when every table is full. Ties keep table order.
func mostVacant(tables models.Tables) int {
	best, bestVacant := -1, 0
	for i, t := range tables {
		if v := t.Vacancies(); v > bestVacant {
			best, bestVacant = i, v
		}
	}
	return best
}

// firstFit places the guest in the first vacant seat of the first table
// that has one.
func firstFit(tables models.Tables, guestID int) bool {
	for i := range tables {
		if s := tables[i].FirstVacant(); s >= 0 {
			tables[i].Seats[s].GuestID = models.GuestRef(guestID)
			return true
		}
	}
	return false
}

// fillTable writes members into vacant seats in seat order.
func fillTable(t *models.Table, members []models.Guest) {
	for si := range t.Seats {
		if len(members) == 0 {
			return
		}
		if t.Seats[si].Vacant() {
			t.Seats[si].GuestID = models.GuestRef(members[0].ID)
			members = members[1:]
		}
	}
}

// FillVacancies seats the given guests in random order. Each guest goes to
// the first vacant seat of the table with the most vacancies, which spreads
// guests evenly. It stops as soon as no seat is left.
func FillVacancies(rng *rand.Rand, guests []models.Guest, tables models.Tables) FillResult {
	next := tables.Clone()
	order := slices.Clone(guests)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	seated := 0
	for _, g := range order {
		t := mostVacant(next)
		if t < 0 {
			break
		}
		fillTable(&next[t], []models.Guest{g})
		seated++
	}
	return FillResult{Tables: next, Seated: seated}
}
