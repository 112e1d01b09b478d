package autoseat

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func buildTables(t *testing.T, capacities ...int) models.Tables {
	t.Helper()
	var tables models.Tables
	for i, c := range capacities {
		var err error
		tables, err = seating.AddTable(tables, seating.TableSpec{Capacity: c}, int64(i+1))
		require.NoError(t, err)
	}
	return tables
}

func guestsAt(tables models.Tables, i int) []int {
	var ids []int
	for _, s := range tables[i].Seats {
		if !s.Vacant() {
			ids = append(ids, *s.GuestID)
		}
	}
	return ids
}

func TestByGroupExactFit(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "A", Group: "X"},
		{ID: 2, Name: "B", Group: "X"},
		{ID: 3, Name: "C", Group: "Y"},
	}
	tables := buildTables(t, 2, 1)

	res := ByGroup(guests, tables)
	assert.Empty(t, res.SplitGroups)
	assert.ElementsMatch(t, []int{1, 2}, guestsAt(res.Tables, 0))
	assert.Equal(t, []int{3}, guestsAt(res.Tables, 1))
	assert.Equal(t, 0, tables.Occupied(), "input untouched")
	require.NoError(t, res.Tables.CheckInvariants(nil))
}

func TestByGroupSplitsOversizedGroup(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "A", Group: "X"},
		{ID: 2, Name: "B", Group: "X"},
		{ID: 3, Name: "C", Group: "X"},
	}
	res := ByGroup(guests, buildTables(t, 2, 2))
	assert.Equal(t, []string{"X"}, res.SplitGroups)
	assert.Equal(t, []int{1, 2}, guestsAt(res.Tables, 0), "split members go first fit")
	assert.Equal(t, []int{3}, guestsAt(res.Tables, 1))
}

func TestByGroupPrefersTightestTable(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "A", Group: "X"},
		{ID: 2, Name: "B", Group: "X"},
	}
	res := ByGroup(guests, buildTables(t, 6, 3, 2))
	assert.Empty(t, guestsAt(res.Tables, 0))
	assert.Empty(t, guestsAt(res.Tables, 1))
	assert.Equal(t, []int{1, 2}, guestsAt(res.Tables, 2))
}

func TestByGroupLargestFirstStable(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "a", Group: "Small"},
		{ID: 2, Name: "b", Group: "Big"},
		{ID: 3, Name: "c", Group: "Big"},
		{ID: 4, Name: "d", Group: "Tie"},
	}
	// Big takes the 2-seat table, then Small and Tie compete for the single
	// seat table in encounter order.
	res := ByGroup(guests, buildTables(t, 2, 1))
	assert.Equal(t, []int{2, 3}, guestsAt(res.Tables, 0))
	assert.Equal(t, []int{1}, guestsAt(res.Tables, 1))
	assert.Equal(t, []string{"Tie"}, res.SplitGroups)
	_, seated := res.Tables.SeatOf(4)
	assert.False(t, seated, "no room left for the split member")
}

func TestByGroupIndividualsBalance(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
		{ID: 4, Name: "d", Group: "G"},
	}
	res := ByGroup(guests, buildTables(t, 3, 3))
	// G takes the first table (tie, table order), individuals then go to
	// whichever table has the most room.
	assert.Equal(t, []int{4, 2}, guestsAt(res.Tables, 0))
	assert.Equal(t, []int{1, 3}, guestsAt(res.Tables, 1))
}

func TestByGroupMoreGuestsThanSeats(t *testing.T) {
	var guests []models.Guest
	for i := range 5 {
		guests = append(guests, models.Guest{ID: i, Name: "g"})
	}
	res := ByGroup(guests, buildTables(t, 2))
	assert.Equal(t, 2, res.Tables.Occupied())
	require.NoError(t, res.Tables.CheckInvariants(nil))
}

func TestFillVacanciesShortfall(t *testing.T) {
	var guests []models.Guest
	for i := range 5 {
		guests = append(guests, models.Guest{ID: i, Name: "g"})
	}
	original := make([]models.Guest, len(guests))
	copy(original, guests)

	tables := buildTables(t, 1, 1)
	res := FillVacancies(newRand(), guests, tables)
	assert.Equal(t, 2, res.Seated)
	assert.Equal(t, 2, res.Tables.Occupied())
	assert.Equal(t, original, guests, "guest records untouched")
	assert.Equal(t, 0, tables.Occupied())
	require.NoError(t, res.Tables.CheckInvariants(nil))
}

func TestFillVacanciesSpreadsEvenly(t *testing.T) {
	var guests []models.Guest
	for i := range 4 {
		guests = append(guests, models.Guest{ID: i, Name: "g"})
	}
	res := FillVacancies(newRand(), guests, buildTables(t, 4, 4))
	assert.Equal(t, 4, res.Seated)
	assert.Equal(t, 2, res.Tables[0].Occupied())
	assert.Equal(t, 2, res.Tables[1].Occupied())
}

func TestFillVacanciesDeterministicWithSeed(t *testing.T) {
	var guests []models.Guest
	for i := range 6 {
		guests = append(guests, models.Guest{ID: i, Name: "g"})
	}
	tables := buildTables(t, 3, 3)
	a := FillVacancies(rand.New(rand.NewPCG(7, 7)), guests, tables)
	b := FillVacancies(rand.New(rand.NewPCG(7, 7)), guests, tables)
	assert.True(t, a.Tables.Equal(b.Tables))
}

func TestFillVacanciesKeepsExistingAssignments(t *testing.T) {
	tables := buildTables(t, 2)
	tables = seating.MoveToVacant(tables, 99, "seat-1-0")
	res := FillVacancies(newRand(), []models.Guest{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, tables)
	assert.Equal(t, 1, res.Seated)
	assert.Equal(t, 99, *res.Tables[0].Seats[0].GuestID)
}
