package seating

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"seating-planner/internal/models"
)

type EngineSuite struct {
	suite.Suite
	tables models.Tables
}

// two tables: 1 with two seats, 2 with one seat
func (s *EngineSuite) SetupTest() {
	var err error
	s.tables, err = AddTable(nil, TableSpec{Name: "One", Capacity: 2}, 1)
	s.Require().NoError(err)
	s.tables, err = AddTable(s.tables, TableSpec{Name: "Two", Capacity: 1, Shape: models.ShapeRectangle}, 2)
	s.Require().NoError(err)
}

func (s *EngineSuite) guestAt(seatID string) *int {
	ref, ok := s.tables.FindSeat(seatID)
	s.Require().True(ok, seatID)
	return s.tables.At(ref).GuestID
}

func (s *EngineSuite) seat(guestID int, seatID string) {
	s.tables = MoveToVacant(s.tables, guestID, seatID)
	s.Require().Equal(guestID, *s.guestAt(seatID))
}

func (s *EngineSuite) TestAddTable() {
	require := s.Require()
	require.Len(s.tables, 2)
	t := s.tables[0]
	require.Equal("One", t.Name)
	require.Equal(models.ShapeCircle, t.Shape)
	require.Equal([]models.Seat{{ID: "seat-1-0"}, {ID: "seat-1-1"}}, t.Seats)
	require.Equal(20.0, t.X)
	require.Equal(20.0, t.Y)
	require.Equal(420.0, s.tables[1].X)

	more := s.tables
	for i := int64(3); i <= 4; i++ {
		var err error
		more, err = AddTable(more, TableSpec{Capacity: 1}, i)
		require.NoError(err)
	}
	require.Equal("Table 4", more[3].Name)
	require.Equal(20.0, more[3].X)
	require.Equal(420.0, more[3].Y)

	_, err := AddTable(s.tables, TableSpec{Capacity: 0}, 9)
	require.Error(err)
	_, err = AddTable(s.tables, TableSpec{Capacity: 1}, 1)
	require.Error(err)
}

func (s *EngineSuite) TestMoveToVacant() {
	before := s.tables
	s.seat(10, "seat-1-0")
	s.Nil(before[0].Seats[0].GuestID, "input must stay untouched")

	s.seat(10, "seat-2-0")
	s.Nil(s.guestAt("seat-1-0"))

	s.seat(11, "seat-1-0")
	same := MoveToVacant(s.tables, 10, "seat-1-0")
	s.True(same.Equal(s.tables), "occupied target is routed elsewhere")
}

func (s *EngineSuite) TestMoveSwap() {
	s.seat(1, "seat-1-0")
	s.seat(2, "seat-2-0")

	res := Move(s.tables, 1, "seat-2-0")
	s.Equal(OutcomeSwapped, res.Outcome)
	s.Require().NotNil(res.Displaced)
	s.Equal(2, *res.Displaced)
	s.tables = res.Tables
	s.Equal(1, *s.guestAt("seat-2-0"))
	s.Equal(2, *s.guestAt("seat-1-0"))
	s.NoError(s.tables.CheckInvariants(nil))
}

func (s *EngineSuite) TestMoveBump() {
	s.seat(2, "seat-2-0")

	res := Move(s.tables, 1, "seat-2-0")
	s.Equal(OutcomeBumped, res.Outcome)
	s.tables = res.Tables
	s.Equal(1, *s.guestAt("seat-2-0"))
	_, seated := s.tables.SeatOf(2)
	s.False(seated, "bumped guest is unassigned")
	s.NoError(s.tables.CheckInvariants(nil))
}

func (s *EngineSuite) TestMoveSameSeatReturnsOriginal() {
	s.seat(1, "seat-1-0")
	res := Move(s.tables, 1, "seat-1-0")
	s.Equal(OutcomeNone, res.Outcome)
	s.Same(&s.tables[0], &res.Tables[0], "no-op must return the original reference")

	res = Move(s.tables, 1, "seat-9-9")
	s.Equal(OutcomeNone, res.Outcome)
	s.Same(&s.tables[0], &res.Tables[0])
}

func (s *EngineSuite) TestMoveThenUnassignRoundTrip() {
	s.seat(5, "seat-1-1")
	original := s.tables

	moved := Move(original, 7, "seat-1-0").Tables
	back := Unassign(moved, 7)
	s.True(back.Equal(original))

	s.Same(&original[0], &Unassign(original, 42)[0], "unassigned guest is a no-op")
}

func (s *EngineSuite) TestRemoveGuestCascade() {
	s.seat(3, "seat-1-1")
	// a corrupted duplicate reference must be cleaned as well
	s.tables[1].Seats[0].GuestID = models.GuestRef(3)

	out := RemoveGuest(s.tables, 3)
	_, seated := out.SeatOf(3)
	s.False(seated)
	s.Equal(0, out.Occupied())
}

func (s *EngineSuite) TestClearAll() {
	s.seat(1, "seat-1-0")
	s.seat(2, "seat-2-0")
	out := ClearAll(s.tables)
	s.Equal(0, out.Occupied())
	s.Equal(2, s.tables.Occupied())
}

func (s *EngineSuite) TestRenameTable() {
	out := RenameTable(s.tables, 1, "  Head table ")
	s.Equal("Head table", out[0].Name)
	s.Equal("One", s.tables[0].Name)

	s.Same(&s.tables[0], &RenameTable(s.tables, 1, "   ")[0])
	s.Same(&s.tables[0], &RenameTable(s.tables, 77, "x")[0])
}

func (s *EngineSuite) TestMoveTable() {
	out := MoveTable(s.tables, 2, 10, -5)
	s.Equal(430.0, out[1].X)
	s.Equal(15.0, out[1].Y)
	s.Same(&s.tables[0], &MoveTable(s.tables, 2, 0, 0)[0])
}

func (s *EngineSuite) TestTargetSeat() {
	s.seat(4, "seat-1-0")

	id, ok := TargetSeat(s.tables, "seat-1-1")
	s.True(ok)
	s.Equal("seat-1-1", id)

	id, ok = TargetSeat(s.tables, GuestDragID(4))
	s.True(ok)
	s.Equal("seat-1-0", id)

	id, ok = TargetSeat(s.tables, TableDragID(1))
	s.True(ok)
	s.Equal("seat-1-1", id)

	s.seat(5, "seat-2-0")
	_, ok = TargetSeat(s.tables, TableDragID(2))
	s.False(ok, "full table has no target")

	for _, bad := range []string{"seat-3-0", "guest-99", "guest-x", "table-x", "floor"} {
		_, ok = TargetSeat(s.tables, bad)
		s.False(ok, bad)
	}
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestRandomMovesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var tables models.Tables
	var err error
	for i := range 4 {
		tables, err = AddTable(tables, TableSpec{Capacity: 1 + i}, int64(i+1))
		require.NoError(t, err)
	}
	var seatIDs []string
	for _, tb := range tables {
		for _, st := range tb.Seats {
			seatIDs = append(seatIDs, st.ID)
		}
	}

	for range 2000 {
		guest := rng.IntN(15)
		switch rng.IntN(4) {
		case 0:
			tables = Unassign(tables, guest)
		default:
			tables = Move(tables, guest, seatIDs[rng.IntN(len(seatIDs))]).Tables
		}
		require.NoError(t, tables.CheckInvariants(nil))
	}
	for i, tb := range tables {
		assert.Len(t, tb.Seats, i+1)
	}
}
