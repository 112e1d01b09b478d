package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape only affects layout, never assignment.
type Shape string

const (
	ShapeCircle    Shape = "Circle"
	ShapeRectangle Shape = "Rectangle"
)

// Seat is a single assignable slot of a table. GuestID is nil when vacant.
type Seat struct {
	ID      string `json:"id" validate:"required"`
	GuestID *int   `json:"guestId"`
}

// Table is a named container of a fixed number of seats
type Table struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name" validate:"required,max=50"`
	Capacity int     `json:"capacity" validate:"gte=1,lte=50"`
	Shape    Shape   `json:"shape" validate:"oneof=Circle Rectangle"`
	Seats    []Seat  `json:"seats" validate:"dive"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// SeatID builds the seat identifier for the given table and seat index.
func SeatID(tableID int64, index int) string {
	return fmt.Sprintf("seat-%d-%d", tableID, index)
}

// ParseSeatID splits a seat identifier into table id and seat index.
func ParseSeatID(id string) (int64, int, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != "seat" {
		return 0, 0, false
	}
	tableID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return tableID, index, true
}

// GuestRef returns a fresh pointer to id, for use as a seat reference.
func GuestRef(id int) *int {
	return &id
}

// Vacant reports whether no guest occupies the seat.
func (s Seat) Vacant() bool {
	return s.GuestID == nil
}

// Holds reports whether the seat is occupied by the given guest.
func (s Seat) Holds(guestID int) bool {
	return s.GuestID != nil && *s.GuestID == guestID
}

// Clone returns a copy of the seat that shares no memory with s.
func (s Seat) Clone() Seat {
	if s.GuestID == nil {
		return Seat{ID: s.ID}
	}
	return Seat{ID: s.ID, GuestID: GuestRef(*s.GuestID)}
}

// Validate checks field bounds and that the seat count matches capacity.
func (t Table) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid table %d: %w", t.ID, err)
	}
	if len(t.Seats) != t.Capacity {
		return fmt.Errorf("invalid table %d: %d seats for capacity %d", t.ID, len(t.Seats), t.Capacity)
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := t
	c.Seats = make([]Seat, len(t.Seats))
	for i, s := range t.Seats {
		c.Seats[i] = s.Clone()
	}
	return c
}

// Vacancies counts the vacant seats of the table.
func (t Table) Vacancies() int {
	n := 0
	for _, s := range t.Seats {
		if s.Vacant() {
			n++
		}
	}
	return n
}

// Occupied counts the occupied seats of the table.
func (t Table) Occupied() int {
	return len(t.Seats) - t.Vacancies()
}

// FirstVacant returns the index of the first vacant seat, or -1.
func (t Table) FirstVacant() int {
	for i, s := range t.Seats {
		if s.Vacant() {
			return i
		}
	}
	return -1
}

// Equal reports deep value equality.
func (t Table) Equal(o Table) bool {
	if t.ID != o.ID || t.Name != o.Name || t.Capacity != o.Capacity ||
		t.Shape != o.Shape || t.X != o.X || t.Y != o.Y || len(t.Seats) != len(o.Seats) {
		return false
	}
	for i := range t.Seats {
		a, b := t.Seats[i], o.Seats[i]
		if a.ID != b.ID || a.Vacant() != b.Vacant() {
			return false
		}
		if !a.Vacant() && *a.GuestID != *b.GuestID {
			return false
		}
	}
	return true
}
