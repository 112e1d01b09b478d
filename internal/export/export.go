// Package export renders read-only views of a seating plan. Exporters work
// on a Snapshot taken at call time and never modify guests or seats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seating-planner/internal/models"
)

// Snapshot is an immutable copy of a plan handed to exporters.
type Snapshot struct {
	EventName string
	EventDate string
	Guests    []models.Guest
	Tables    models.Tables
}

func (s Snapshot) guestsByID() map[int]models.Guest {
	byID := make(map[int]models.Guest, len(s.Guests))
	for _, g := range s.Guests {
		byID[g.ID] = g
	}
	return byID
}

// Chart writes a plain-text seating chart, one block per table.
func Chart(w io.Writer, s Snapshot) error {
	byID := s.guestsByID()
	var b strings.Builder
	if s.EventName != "" {
		fmt.Fprintf(&b, "%s\n", s.EventName)
		if s.EventDate != "" {
			fmt.Fprintf(&b, "%s\n", s.EventDate)
		}
		b.WriteString(strings.Repeat("=", 60) + "\n")
	}
	for _, t := range s.Tables {
		fmt.Fprintf(&b, "%s (%d/%d, %s)\n", t.Name, t.Occupied(), t.Capacity, t.Shape)
		for i, seat := range t.Seats {
			name := "-"
			if !seat.Vacant() {
				if g, ok := byID[*seat.GuestID]; ok {
					name = g.Name
				} else {
					name = fmt.Sprintf("unknown guest %d", *seat.GuestID)
				}
			}
			fmt.Fprintf(&b, "  %2d. %s\n", i+1, name)
		}
		b.WriteString(strings.Repeat("-", 60) + "\n")
	}

	assigned := s.Tables.AssignedIDs()
	var unassigned []string
	for _, g := range s.Guests {
		if _, ok := assigned[g.ID]; !ok {
			unassigned = append(unassigned, g.Name)
		}
	}
	fmt.Fprintf(&b, "Unassigned (%d)\n", len(unassigned))
	for _, name := range unassigned {
		fmt.Fprintf(&b, "  %s\n", name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CSV writes one row per guest with its table and seat number. Unseated
// guests have empty table and seat columns.
func CSV(w io.Writer, s Snapshot) error {
	type place struct {
		table string
		seat  int
	}
	places := make(map[int]place)
	for _, t := range s.Tables {
		for i, seat := range t.Seats {
			if !seat.Vacant() {
				places[*seat.GuestID] = place{table: t.Name, seat: i + 1}
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Group", "RSVP", "Source Sheet", "Table", "Seat"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, g := range s.Guests {
		row := []string{g.Name, g.Group, string(g.RSVP), g.SourceSheet, "", ""}
		if p, ok := places[g.ID]; ok {
			row[4] = p.table
			row[5] = strconv.Itoa(p.seat)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Card is a single guest's seat assignment.
type Card struct {
	Guest      models.Guest
	Table      models.Table
	Seat       int
	Tablemates []string
}

// Cards returns one card per seated guest, in table and seat order.
func Cards(s Snapshot) []Card {
	byID := s.guestsByID()
	var cards []Card
	for _, t := range s.Tables {
		var names []string
		for _, seat := range t.Seats {
			if !seat.Vacant() {
				if g, ok := byID[*seat.GuestID]; ok {
					names = append(names, g.Name)
				}
			}
		}
		for i, seat := range t.Seats {
			if seat.Vacant() {
				continue
			}
			g, ok := byID[*seat.GuestID]
			if !ok {
				continue
			}
			var mates []string
			for _, n := range names {
				if n != g.Name {
					mates = append(mates, n)
				}
			}
			cards = append(cards, Card{Guest: g, Table: t, Seat: i + 1, Tablemates: mates})
		}
	}
	return cards
}

// Text formats the card as a short message.
func (c Card) Text(eventName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", c.Guest.Name)
	if eventName != "" {
		fmt.Fprintf(&b, "Your seat at %s:\n", eventName)
	} else {
		b.WriteString("Your seat:\n")
	}
	fmt.Fprintf(&b, "Table: %s\nSeat: %d\n", c.Table.Name, c.Seat)
	if len(c.Tablemates) > 0 {
		fmt.Fprintf(&b, "\nYou are sitting with %s.", strings.Join(c.Tablemates, ", "))
	}
	return b.String()
}
