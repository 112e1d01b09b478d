package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

func sample(t *testing.T) Snapshot {
	t.Helper()
	tables, err := seating.AddTable(nil, seating.TableSpec{Name: "Head", Capacity: 3}, 1)
	require.NoError(t, err)
	tables = seating.MoveToVacant(tables, 1, "seat-1-0")
	tables = seating.MoveToVacant(tables, 2, "seat-1-2")
	return Snapshot{
		EventName: "Ann & Bob",
		Guests: []models.Guest{
			{ID: 1, Name: "Ann", Group: "Family", RSVP: models.RSVPAttending},
			{ID: 2, Name: "Bob", RSVP: models.RSVPPending},
			{ID: 3, Name: "Cid", SourceSheet: "Sheet1"},
		},
		Tables: tables,
	}
}

func TestChart(t *testing.T) {
	s := sample(t)
	before := s.Tables.Clone()

	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "Ann & Bob\n")
	assert.Contains(t, out, "Head (2/3, Circle)\n")
	assert.Contains(t, out, "   1. Ann\n")
	assert.Contains(t, out, "   2. -\n")
	assert.Contains(t, out, "   3. Bob\n")
	assert.Contains(t, out, "Unassigned (1)\n  Cid\n")
	assert.True(t, before.Equal(s.Tables))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sample(t)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name,Group,RSVP,Source Sheet,Table,Seat", lines[0])
	assert.Equal(t, "Ann,Family,Attending,,Head,1", lines[1])
	assert.Equal(t, "Bob,,Pending,,Head,3", lines[2])
	assert.Equal(t, "Cid,,,Sheet1,,", lines[3])
}

func TestCards(t *testing.T) {
	cards := Cards(sample(t))
	require.Len(t, cards, 2)
	assert.Equal(t, "Ann", cards[0].Guest.Name)
	assert.Equal(t, 1, cards[0].Seat)
	assert.Equal(t, []string{"Bob"}, cards[0].Tablemates)
	assert.Equal(t, 3, cards[1].Seat)

	text := cards[0].Text("Ann & Bob")
	assert.Equal(t, "Dear Ann,\n\nYour seat at Ann & Bob:\nTable: Head\nSeat: 1\n\nYou are sitting with Bob.", text)
}
