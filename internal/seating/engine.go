// Package seating computes new table collections from an old one plus a
// single user intent. Every function is pure: the input is never modified,
// and a changed result shares no seat memory with the input so the caller
// may keep the input as a history entry. When an intent changes nothing the
// original value is returned as is.
package seating

import (
	"fmt"
	"strconv"
	"strings"

	"seating-planner/internal/models"
)

// Grid placement of new tables.
const (
	TablesPerRow = 3
	GridSpacing  = 400
	GridMargin   = 20
)

// TableSpec describes a table to add.
type TableSpec struct {
	Name     string
	Capacity int
	Shape    models.Shape
}

// Outcome tells which case a Move was routed to.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMoved
	OutcomeSwapped
	OutcomeBumped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeSwapped:
		return "swapped"
	case OutcomeBumped:
		return "bumped"
	default:
		return "none"
	}
}

// Result of a Move. Displaced is the guest that lost the target seat, if any.
type Result struct {
	Tables    models.Tables
	Outcome   Outcome
	Displaced *int
}

// Move is the single dispatcher for placing a guest into a seat. A vacant
// target is a plain move, an occupied one a swap or bump. Dropping a guest
// on its own seat or on an unknown seat returns the original collection.
func Move(tables models.Tables, guestID int, seatID string) Result {
	target, ok := tables.FindSeat(seatID)
	if !ok {
		return Result{Tables: tables}
	}
	if source, seated := tables.SeatOf(guestID); seated && source == target {
		return Result{Tables: tables}
	}
	if tables.At(target).Vacant() {
		return Result{Tables: MoveToVacant(tables, guestID, seatID), Outcome: OutcomeMoved}
	}
	return Swap(tables, guestID, seatID)
}

// MoveToVacant vacates the guest's current seat and places it in the
// target. An occupied or unknown target leaves the collection unchanged.
func MoveToVacant(tables models.Tables, guestID int, seatID string) models.Tables {
	target, ok := tables.FindSeat(seatID)
	if !ok || !tables.At(target).Vacant() {
		return tables
	}
	next := tables.Clone()
	if source, seated := next.SeatOf(guestID); seated {
		next[source.Table].Seats[source.Seat].GuestID = nil
	}
	next[target.Table].Seats[target.Seat].GuestID = models.GuestRef(guestID)
	return next
}

// Swap places the guest into an occupied seat. The source seat is vacated
// before the target is touched. With a source seat the displaced guest takes
// it over; without one the displaced guest is left unassigned.
func Swap(tables models.Tables, guestID int, seatID string) Result {
	target, ok := tables.FindSeat(seatID)
	if !ok {
		return Result{Tables: tables}
	}
	source, seated := tables.SeatOf(guestID)
	if seated && source == target {
		return Result{Tables: tables}
	}

	next := tables.Clone()
	if seated {
		next[source.Table].Seats[source.Seat].GuestID = nil
	}

	targetSeat := &next[target.Table].Seats[target.Seat]
	displaced := targetSeat.GuestID
	outcome := OutcomeMoved
	if displaced != nil {
		// target is vacated before the displaced guest moves
		targetSeat.GuestID = nil
		if seated {
			next[source.Table].Seats[source.Seat].GuestID = models.GuestRef(*displaced)
			outcome = OutcomeSwapped
		} else {
			outcome = OutcomeBumped
		}
	}
	targetSeat.GuestID = models.GuestRef(guestID)
	return Result{Tables: next, Outcome: outcome, Displaced: displaced}
}

// Unassign returns the guest to the unassigned list.
func Unassign(tables models.Tables, guestID int) models.Tables {
	ref, ok := tables.SeatOf(guestID)
	if !ok {
		return tables
	}
	next := tables.Clone()
	next[ref.Table].Seats[ref.Seat].GuestID = nil
	return next
}

// RemoveGuest vacates every seat that references the guest. It is the seat
// half of a guest deletion.
func RemoveGuest(tables models.Tables, guestID int) models.Tables {
	if _, ok := tables.SeatOf(guestID); !ok {
		return tables
	}
	next := tables.Clone()
	for ti := range next {
		for si := range next[ti].Seats {
			if next[ti].Seats[si].Holds(guestID) {
				next[ti].Seats[si].GuestID = nil
			}
		}
	}
	return next
}

// ClearAll vacates every seat of every table.
func ClearAll(tables models.Tables) models.Tables {
	next := tables.Clone()
	for ti := range next {
		for si := range next[ti].Seats {
			next[ti].Seats[si].GuestID = nil
		}
	}
	return next
}

// RenameTable sets the table name. A name that is blank after trimming
// keeps the old one.
func RenameTable(tables models.Tables, tableID int64, name string) models.Tables {
	name = strings.TrimSpace(name)
	i := tables.FindTable(tableID)
	if i < 0 || name == "" || tables[i].Name == name {
		return tables
	}
	next := tables.Clone()
	next[i].Name = name
	return next
}

// MoveTable shifts a table's layout position.
func MoveTable(tables models.Tables, tableID int64, dx, dy float64) models.Tables {
	i := tables.FindTable(tableID)
	if i < 0 || (dx == 0 && dy == 0) {
		return tables
	}
	next := tables.Clone()
	next[i].X += dx
	next[i].Y += dy
	return next
}

// NewTable builds a table with vacant seats placed on the grid slot that
// follows count existing tables.
func NewTable(spec TableSpec, id int64, count int) models.Table {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = fmt.Sprintf("Table %d", count+1)
	}
	shape := spec.Shape
	if shape == "" {
		shape = models.ShapeCircle
	}
	t := models.Table{
		ID:       id,
		Name:     name,
		Capacity: spec.Capacity,
		Shape:    shape,
		Seats:    make([]models.Seat, spec.Capacity),
	}
	t.X, t.Y = GridPosition(count)
	for i := range t.Seats {
		t.Seats[i] = models.Seat{ID: models.SeatID(id, i)}
	}
	return t
}

// GridPosition returns the default layout position of the n-th table.
func GridPosition(n int) (float64, float64) {
	return float64((n%TablesPerRow)*GridSpacing + GridMargin),
		float64((n/TablesPerRow)*GridSpacing + GridMargin)
}

// AddTable appends a new table. The table is validated first.
func AddTable(tables models.Tables, spec TableSpec, id int64) (models.Tables, error) {
	if tables.FindTable(id) >= 0 {
		return tables, fmt.Errorf("failed to add table: id %d already in use", id)
	}
	t := NewTable(spec, id, len(tables))
	if err := t.Validate(); err != nil {
		return tables, fmt.Errorf("failed to add table: %w", err)
	}
	next := make(models.Tables, 0, len(tables)+1)
	next = append(next, tables.Clone()...)
	return append(next, t), nil
}

// Drop target identifiers.
const (
	UnassignedArea = "unassigned-area"
	guestPrefix    = "guest-"
	tablePrefix    = "table-"
	seatPrefix     = "seat-"
)

// GuestDragID builds the drag identifier of a guest.
func GuestDragID(id int) string {
	return guestPrefix + strconv.Itoa(id)
}

// TableDragID builds the drag identifier of a table.
func TableDragID(id int64) string {
	return tablePrefix + strconv.FormatInt(id, 10)
}

// ParseGuestDragID extracts the guest id from a "guest-<id>" identifier.
func ParseGuestDragID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, guestPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

// ParseTableDragID extracts the table id from a "table-<id>" identifier.
func ParseTableDragID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, tablePrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	return n, err == nil
}

// TargetSeat resolves a drop target to a seat identifier. A seat resolves to
// itself, a guest to the seat it occupies and a table to its first vacant
// seat.
func TargetSeat(tables models.Tables, over string) (string, bool) {
	switch {
	case strings.HasPrefix(over, seatPrefix):
		if _, ok := tables.FindSeat(over); ok {
			return over, true
		}
	case strings.HasPrefix(over, guestPrefix):
		id, ok := ParseGuestDragID(over)
		if !ok {
			return "", false
		}
		if ref, ok := tables.SeatOf(id); ok {
			return tables.At(ref).ID, true
		}
	case strings.HasPrefix(over, tablePrefix):
		id, ok := ParseTableDragID(over)
		if !ok {
			return "", false
		}
		if i := tables.FindTable(id); i >= 0 {
			if s := tables[i].FirstVacant(); s >= 0 {
				return tables[i].Seats[s].ID, true
			}
		}
	}
	return "", false
}
