package planner

import (
	"fmt"
	"strings"

	"seating-planner/internal/autoseat"
	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

// AutoSeatByGroup clears all seats and reseats every guest keeping groups
// together. It returns the user-facing summary.
func (p *Planner) AutoSeatByGroup() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := p.guests.All()
	res := autoseat.ByGroup(all, seating.ClearAll(p.current()))
	if _, err := p.commit("autoseat-group", res.Tables); err != nil {
		return p.rejected(err)
	}

	short := len(all) - res.Tables.Occupied()
	switch {
	case len(res.SplitGroups) > 0:
		p.notification = fmt.Sprintf("Groups split: %s.", strings.Join(res.SplitGroups, ", "))
	case short > 0:
		p.notification = "Groups kept together."
	case len(all) > 0:
		p.notification = "All guests seated without splitting groups."
	default:
		p.notification = ""
	}
	if short > 0 {
		p.notification += fmt.Sprintf(" Could not seat %d guest(s) due to lack of space.", short)
	}
	p.log.Info().Strs("split", res.SplitGroups).Int("seated", res.Tables.Occupied()).Msg("Auto-seated by group")
	return p.notification
}

// AutoSeatAll fills vacant seats with the guests that have none.
func (p *Planner) AutoSeatAll() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.unassigned()
	res := autoseat.FillVacancies(p.rng, pending, p.current())
	if _, err := p.commit("autoseat-all", res.Tables); err != nil {
		return p.rejected(err)
	}

	if res.Seated > 0 {
		p.notification = fmt.Sprintf("Seated %d remaining guest(s).", res.Seated)
		if short := len(pending) - res.Seated; short > 0 {
			p.notification += fmt.Sprintf(" Could not seat %d guest(s) due to lack of space.", short)
		}
	} else if len(pending) > 0 {
		p.notification = fmt.Sprintf("No vacant seats for %d unassigned guest(s).", len(pending))
	} else {
		p.notification = "No unassigned guests to seat."
	}
	p.log.Info().Int("requested", len(pending)).Int("seated", res.Seated).Msg("Auto-seated remaining guests")
	return p.notification
}

// AutoSeatBySheet fills vacant seats with the unassigned guests imported
// from one source sheet.
func (p *Planner) AutoSeatBySheet(sheet string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var pending []models.Guest
	for _, g := range p.unassigned() {
		if g.SourceSheet == sheet {
			pending = append(pending, g)
		}
	}
	if len(pending) == 0 {
		p.notification = fmt.Sprintf("All guests from %q are already seated or there are no guests from this sheet.", sheet)
		return p.notification
	}

	res := autoseat.FillVacancies(p.rng, pending, p.current())
	if _, err := p.commit("autoseat-sheet", res.Tables); err != nil {
		return p.rejected(err)
	}

	p.notification = fmt.Sprintf("Seated %d guest(s) from %q.", res.Seated, sheet)
	if res.Seated < len(pending) {
		p.notification += fmt.Sprintf(" Could not seat %d guest(s) due to lack of space.", len(pending)-res.Seated)
	}
	p.log.Info().Str("sheet", sheet).Int("requested", len(pending)).Int("seated", res.Seated).Msg("Auto-seated sheet")
	return p.notification
}

// AutoSeatByAffiliation reseats everyone, giving each side its own half of
// the tables.
func (p *Planner) AutoSeatByAffiliation() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := autoseat.ByAffiliation(p.rng, p.sides, p.guests.All(), p.current())
	if _, err := p.commit("autoseat-affiliation", res.Tables); err != nil {
		return p.rejected(err)
	}
	p.notification = res.Summary
	p.log.Info().
		Int("seated_a", res.SeatedA).
		Int("seated_b", res.SeatedB).
		Int("seated_other", res.SeatedOther).
		Msg("Auto-seated by affiliation")
	return p.notification
}

func (p *Planner) rejected(err error) string {
	p.notification = "Auto-seating failed: " + err.Error()
	return p.notification
}
