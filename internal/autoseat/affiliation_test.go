package autoseat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

var testSides = Sides{
	A: Affiliation{Name: "Groom", Marker: "groom"},
	B: Affiliation{Name: "Bride", Marker: "bride"},
}

func TestClassify(t *testing.T) {
	a, b, other := testSides.Classify([]models.Guest{
		{ID: 1, SourceSheet: "groom list"},
		{ID: 2, Group: "bride friends"},
		{ID: 3, Group: "groom", SourceSheet: "bride"},
		{ID: 4, Group: "work"},
	})
	require.Len(t, a, 2)
	assert.Equal(t, 1, a[0].ID)
	assert.Equal(t, 3, a[1].ID, "both markers count as side A")
	require.Len(t, b, 1)
	assert.Equal(t, 2, b[0].ID)
	require.Len(t, other, 1)
	assert.Equal(t, 4, other[0].ID)

	assert.False(t, Affiliation{Name: "none"}.Matches(models.Guest{Group: "anything"}))
}

func TestByAffiliationFourTables(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "g1", SourceSheet: "groom", Group: "groom family"},
		{ID: 2, Name: "g2", SourceSheet: "groom", Group: "groom family"},
		{ID: 3, Name: "g3", SourceSheet: "groom"},
		{ID: 4, Name: "b1", SourceSheet: "bride", Group: "bride family"},
		{ID: 5, Name: "b2", SourceSheet: "bride", Group: "bride family"},
		{ID: 6, Name: "b3", SourceSheet: "bride"},
		{ID: 7, Name: "o1"},
	}
	tables := buildTables(t, 2, 2, 2, 2)
	// stale assignments are cleared first
	tables = seating.MoveToVacant(tables, 7, "seat-4-1")

	res := ByAffiliation(newRand(), testSides, guests, tables)
	require.NoError(t, res.Tables.CheckInvariants(nil))

	for i, tb := range res.Tables {
		assert.Equal(t, tables[i].ID, tb.ID, "table order preserved")
	}

	groom := map[int]bool{1: true, 2: true, 3: true}
	bride := map[int]bool{4: true, 5: true, 6: true}
	for _, id := range append(guestsAt(res.Tables, 0), guestsAt(res.Tables, 1)...) {
		assert.False(t, bride[id], "bride guest %d on groom half", id)
	}
	for _, id := range append(guestsAt(res.Tables, 2), guestsAt(res.Tables, 3)...) {
		assert.False(t, groom[id], "groom guest %d on bride half", id)
	}

	assert.Equal(t, 3, res.SeatedA)
	assert.Equal(t, 3, res.SeatedB)
	assert.Equal(t, 1, res.SeatedOther)
	assert.Empty(t, res.SplitGroups)
	assert.Equal(t, "Seated 3/3 from Groom's side and 3/3 from Bride's side. Seated 1/1 other guests.", res.Summary)
	assert.Equal(t, 7, res.Tables.Occupied())
}

func TestByAffiliationOddTableCountGivesSideAMore(t *testing.T) {
	var guests []models.Guest
	for i := range 5 {
		guests = append(guests, models.Guest{ID: i, Name: "g", SourceSheet: "groom"})
	}
	res := ByAffiliation(newRand(), testSides, guests, buildTables(t, 2, 2, 2))
	assert.Equal(t, 4, res.SeatedA, "side A owns ceil(3/2) tables")
	assert.Equal(t, 0, res.Tables[2].Occupied())
	assert.Equal(t, "Seated 4/5 from Groom's side and 0/0 from Bride's side.", res.Summary)
}

func TestByAffiliationReportsSplitGroupsOnce(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "a", SourceSheet: "groom", Group: "Friends"},
		{ID: 2, Name: "b", SourceSheet: "groom", Group: "Friends"},
		{ID: 3, Name: "c", SourceSheet: "groom", Group: "Friends"},
		{ID: 4, Name: "d", SourceSheet: "bride", Group: "Friends"},
		{ID: 5, Name: "e", SourceSheet: "bride", Group: "Friends"},
		{ID: 6, Name: "f", SourceSheet: "bride", Group: "Friends"},
	}
	res := ByAffiliation(newRand(), testSides, guests, buildTables(t, 2, 2))
	assert.Equal(t, []string{"Friends"}, res.SplitGroups)
	assert.Contains(t, res.Summary, "Groups split: Friends.")
}

func TestByAffiliationSingleTableFallsBack(t *testing.T) {
	guests := []models.Guest{
		{ID: 1, Name: "a", SourceSheet: "groom"},
		{ID: 2, Name: "b", SourceSheet: "bride"},
	}
	res := ByAffiliation(newRand(), testSides, guests, buildTables(t, 3))
	assert.Equal(t, 2, res.Tables.Occupied())
	assert.Equal(t, "Seated all guests. Not enough tables to split by affiliation.", res.Summary)

	empty := ByAffiliation(newRand(), testSides, guests, nil)
	assert.Empty(t, empty.Tables)
	assert.Equal(t, "Not enough tables to split by affiliation. Could not seat 2 guest(s) due to lack of space.", empty.Summary)

	tight := ByAffiliation(newRand(), testSides, guests, buildTables(t, 1))
	assert.Equal(t, 1, tight.Tables.Occupied())
	assert.Equal(t, "Not enough tables to split by affiliation. Could not seat 1 guest(s) due to lack of space.", tight.Summary)
}
