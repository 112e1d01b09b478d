package models

import "fmt"

// Tables is an ordered table collection, the unit stored in the undo/redo
// timeline. Values of this type are treated as immutable once committed.
type Tables []Table

// SeatRef locates a seat inside a Tables value.
type SeatRef struct {
	Table int
	Seat  int
}

// Clone returns a deep copy that shares no seat memory with ts.
func (ts Tables) Clone() Tables {
	if ts == nil {
		return nil
	}
	c := make(Tables, len(ts))
	for i, t := range ts {
		c[i] = t.Clone()
	}
	return c
}

// Equal reports deep value equality, including table order.
func (ts Tables) Equal(o Tables) bool {
	if len(ts) != len(o) {
		return false
	}
	for i := range ts {
		if !ts[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// FindTable returns the index of the table with the given id, or -1.
func (ts Tables) FindTable(id int64) int {
	for i, t := range ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FindSeat locates a seat by identifier.
func (ts Tables) FindSeat(seatID string) (SeatRef, bool) {
	for ti, t := range ts {
		for si, s := range t.Seats {
			if s.ID == seatID {
				return SeatRef{Table: ti, Seat: si}, true
			}
		}
	}
	return SeatRef{}, false
}

// SeatOf locates the seat occupied by the guest.
func (ts Tables) SeatOf(guestID int) (SeatRef, bool) {
	for ti, t := range ts {
		for si, s := range t.Seats {
			if s.Holds(guestID) {
				return SeatRef{Table: ti, Seat: si}, true
			}
		}
	}
	return SeatRef{}, false
}

// At returns the seat referenced by ref.
func (ts Tables) At(ref SeatRef) Seat {
	return ts[ref.Table].Seats[ref.Seat]
}

// AssignedIDs returns the set of guest ids that occupy a seat.
func (ts Tables) AssignedIDs() map[int]struct{} {
	ids := make(map[int]struct{})
	for _, t := range ts {
		for _, s := range t.Seats {
			if !s.Vacant() {
				ids[*s.GuestID] = struct{}{}
			}
		}
	}
	return ids
}

// Vacancies counts vacant seats across all tables.
func (ts Tables) Vacancies() int {
	n := 0
	for _, t := range ts {
		n += t.Vacancies()
	}
	return n
}

// Occupied counts occupied seats across all tables.
func (ts Tables) Occupied() int {
	n := 0
	for _, t := range ts {
		n += t.Occupied()
	}
	return n
}

// Capacity sums table capacities.
func (ts Tables) Capacity() int {
	n := 0
	for _, t := range ts {
		n += t.Capacity
	}
	return n
}

// CheckInvariants verifies seat counts, that seat ids are unique, that no
// guest sits twice and, when known is non-nil, that every reference names a
// known guest.
func (ts Tables) CheckInvariants(known map[int]struct{}) error {
	seen := make(map[int]string)
	seats := make(map[string]int64)
	for _, t := range ts {
		if len(t.Seats) != t.Capacity {
			return fmt.Errorf("table %d has %d seats for capacity %d", t.ID, len(t.Seats), t.Capacity)
		}
		for _, s := range t.Seats {
			if owner, dup := seats[s.ID]; dup {
				return fmt.Errorf("seat %s appears in table %d and table %d", s.ID, owner, t.ID)
			}
			seats[s.ID] = t.ID
			if s.Vacant() {
				continue
			}
			id := *s.GuestID
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("guest %d seated twice: %s and %s", id, prev, s.ID)
			}
			seen[id] = s.ID
			if known != nil {
				if _, ok := known[id]; !ok {
					return fmt.Errorf("seat %s references unknown guest %d", s.ID, id)
				}
			}
		}
	}
	return nil
}
