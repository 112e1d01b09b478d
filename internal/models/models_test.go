package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(id int64, capacity int) Table {
	t := Table{ID: id, Name: "T", Capacity: capacity, Shape: ShapeCircle}
	for i := 0; i < capacity; i++ {
		t.Seats = append(t.Seats, Seat{ID: SeatID(id, i)})
	}
	return t
}

func TestSeatID(t *testing.T) {
	id := SeatID(1700000000000, 3)
	assert.Equal(t, "seat-1700000000000-3", id)

	tableID, index, ok := ParseSeatID(id)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), tableID)
	assert.Equal(t, 3, index)

	for _, bad := range []string{"", "seat-1", "guest-1-2", "seat-x-1", "seat-1-y"} {
		_, _, ok := ParseSeatID(bad)
		assert.False(t, ok, bad)
	}
}

func TestTablesCloneDoesNotAlias(t *testing.T) {
	ts := Tables{newTable(1, 2)}
	ts[0].Seats[0].GuestID = GuestRef(7)

	c := ts.Clone()
	require.True(t, ts.Equal(c))

	*c[0].Seats[0].GuestID = 8
	c[0].Seats[1].GuestID = GuestRef(9)
	assert.Equal(t, 7, *ts[0].Seats[0].GuestID)
	assert.True(t, ts[0].Seats[1].Vacant())
	assert.False(t, ts.Equal(c))
}

func TestTablesEqual(t *testing.T) {
	a := Tables{newTable(1, 2), newTable(2, 1)}
	b := Tables{newTable(1, 2), newTable(2, 1)}
	assert.True(t, a.Equal(b))

	b[1].Name = "Other"
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(Tables{newTable(2, 1), newTable(1, 2)}), "order is part of equality")
	assert.True(t, Tables(nil).Equal(Tables{}))
}

func TestTablesLookups(t *testing.T) {
	ts := Tables{newTable(1, 2), newTable(2, 3)}
	ts[1].Seats[2].GuestID = GuestRef(5)

	ref, ok := ts.SeatOf(5)
	require.True(t, ok)
	assert.Equal(t, SeatRef{Table: 1, Seat: 2}, ref)
	assert.Equal(t, "seat-2-2", ts.At(ref).ID)

	_, ok = ts.SeatOf(6)
	assert.False(t, ok)

	ref, ok = ts.FindSeat("seat-1-1")
	require.True(t, ok)
	assert.Equal(t, SeatRef{Table: 0, Seat: 1}, ref)

	assert.Equal(t, 1, ts.FindTable(2))
	assert.Equal(t, -1, ts.FindTable(3))
	assert.Equal(t, 4, ts.Vacancies())
	assert.Equal(t, 1, ts.Occupied())
	assert.Equal(t, 5, ts.Capacity())
	assert.Contains(t, ts.AssignedIDs(), 5)
}

func TestCheckInvariants(t *testing.T) {
	ts := Tables{newTable(1, 2), newTable(2, 1)}
	ts[0].Seats[0].GuestID = GuestRef(1)
	require.NoError(t, ts.CheckInvariants(map[int]struct{}{1: {}}))

	ts[1].Seats[0].GuestID = GuestRef(1)
	assert.ErrorContains(t, ts.CheckInvariants(nil), "seated twice")

	ts[1].Seats[0].GuestID = GuestRef(2)
	assert.ErrorContains(t, ts.CheckInvariants(map[int]struct{}{1: {}}), "unknown guest 2")

	ts[1].Seats = ts[1].Seats[:0]
	assert.ErrorContains(t, ts.CheckInvariants(nil), "capacity")

	dup := Tables{newTable(1, 1), newTable(2, 1)}
	dup[1].Seats[0].ID = dup[0].Seats[0].ID
	assert.ErrorContains(t, dup.CheckInvariants(nil), "seat seat-1-0 appears in table 1 and table 2")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		guest   Guest
		wantErr bool
	}{
		{name: "minimal", guest: Guest{Name: "Ann"}},
		{name: "full", guest: Guest{Name: "Ann", RSVP: RSVPNotAttending, PlusOnes: 2}},
		{name: "blank name", guest: Guest{Name: "  "}, wantErr: true},
		{name: "bad rsvp", guest: Guest{Name: "Ann", RSVP: "Maybe"}, wantErr: true},
		{name: "too many plus ones", guest: Guest{Name: "Ann", PlusOnes: 11}, wantErr: true},
		{name: "negative plus ones", guest: Guest{Name: "Ann", PlusOnes: -1}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.guest.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	table := newTable(1, 4)
	assert.NoError(t, table.Validate())
	table.Capacity = 5
	assert.Error(t, table.Validate())
	table = newTable(1, 0)
	assert.Error(t, table.Validate())
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, IndividualGroup, Guest{Name: "a"}.GroupName())
	assert.Equal(t, "Family", Guest{Name: "a", Group: "Family"}.GroupName())
}
