package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
)

// CurrentVersion is written into every saved project.
const CurrentVersion = "1.2"

// ErrMalformedSnapshot is returned for project documents that cannot be
// adapted. Nothing of such a document is applied.
var ErrMalformedSnapshot = errors.New("malformed project snapshot")

// Metadata is optional descriptive data of a project.
type Metadata struct {
	EventName    string `json:"eventName,omitempty"`
	EventDate    string `json:"eventDate,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// Project is a complete saved plan: the guest list and the tables.
type Project struct {
	Version  string         `json:"version"`
	Guests   []models.Guest `json:"guests"`
	Tables   models.Tables  `json:"tables"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

// Schema tells which table shape a stored table uses.
type Schema int

const (
	// SchemaCurrent tables carry a seat array.
	SchemaCurrent Schema = iota
	// SchemaLegacy tables carry assignedGuestIds, indexed by seat.
	SchemaLegacy
)

// storedTable is the union of both table shapes as found on disk.
type storedTable struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Capacity         int            `json:"capacity"`
	Shape            models.Shape   `json:"shape"`
	Seats            *[]models.Seat `json:"seats"`
	AssignedGuestIDs []*int         `json:"assignedGuestIds"`
	X                *float64       `json:"x"`
	Y                *float64       `json:"y"`
}

func (t storedTable) schema() Schema {
	if t.AssignedGuestIDs != nil {
		return SchemaLegacy
	}
	return SchemaCurrent
}

type storedProject struct {
	Version  string          `json:"version"`
	Guests   json.RawMessage `json:"guests"`
	Tables   json.RawMessage `json:"tables"`
	Metadata *Metadata       `json:"metadata"`
}

// Encode writes the project as indented JSON.
func Encode(w io.Writer, p Project) error {
	if p.Version == "" {
		p.Version = CurrentVersion
	}
	if p.Guests == nil {
		p.Guests = []models.Guest{}
	}
	if p.Tables == nil {
		p.Tables = models.Tables{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return nil
}

// Decode reads a project document, translating legacy tables into the
// current shape, and checks the seating invariants. Either the whole
// document is returned or an error wrapping ErrMalformedSnapshot.
func Decode(r io.Reader) (Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	var doc storedProject
	if err := json.Unmarshal(data, &doc); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if !isArray(doc.Guests) || !isArray(doc.Tables) {
		return Project{}, fmt.Errorf("%w: guests and tables must be arrays", ErrMalformedSnapshot)
	}

	var guests []models.Guest
	if err := json.Unmarshal(doc.Guests, &guests); err != nil {
		return Project{}, fmt.Errorf("%w: guests: %v", ErrMalformedSnapshot, err)
	}
	var stored []storedTable
	if err := json.Unmarshal(doc.Tables, &stored); err != nil {
		return Project{}, fmt.Errorf("%w: tables: %v", ErrMalformedSnapshot, err)
	}

	known := make(map[int]struct{}, len(guests))
	for i := range guests {
		g := &guests[i]
		if _, dup := known[g.ID]; dup {
			return Project{}, fmt.Errorf("%w: duplicate guest id %d", ErrMalformedSnapshot, g.ID)
		}
		// a missing rsvp field means Attending
		if g.RSVP == "" {
			g.RSVP = models.RSVPAttending
		}
		if err := g.Validate(); err != nil {
			return Project{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		known[g.ID] = struct{}{}
	}

	tables := make(models.Tables, 0, len(stored))
	seen := make(map[int64]struct{}, len(stored))
	for i, st := range stored {
		t, err := adapt(st, i)
		if err != nil {
			return Project{}, err
		}
		if _, dup := seen[t.ID]; dup {
			return Project{}, fmt.Errorf("%w: duplicate table id %d", ErrMalformedSnapshot, t.ID)
		}
		seen[t.ID] = struct{}{}
		tables = append(tables, t)
	}
	if err := tables.CheckInvariants(known); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	version := doc.Version
	if version == "" {
		version = CurrentVersion
	}
	return Project{Version: version, Guests: guests, Tables: tables, Metadata: doc.Metadata}, nil
}

// adapt converts a stored table of either schema into the current shape.
// index is the table's position, used for a missing layout position.
func adapt(st storedTable, index int) (models.Table, error) {
	t := models.Table{
		ID:       st.ID,
		Name:     st.Name,
		Capacity: st.Capacity,
		Shape:    st.Shape,
	}
	if t.Shape == "" {
		t.Shape = models.ShapeCircle
	}
	t.X, t.Y = seating.GridPosition(index)
	if st.X != nil {
		t.X = *st.X
	}
	if st.Y != nil {
		t.Y = *st.Y
	}

	switch st.schema() {
	case SchemaLegacy:
		t.Seats = legacySeats(st)
	default:
		if st.Seats == nil {
			return models.Table{}, fmt.Errorf("%w: table %d has no seats", ErrMalformedSnapshot, st.ID)
		}
		t.Seats = *st.Seats
	}

	if err := t.Validate(); err != nil {
		return models.Table{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return t, nil
}

// legacySeats synthesizes a seat array of capacity length from the legacy
// assignedGuestIds field. Missing or null entries are vacant seats.
func legacySeats(st storedTable) []models.Seat {
	if st.Capacity < 0 {
		return nil
	}
	seats := make([]models.Seat, st.Capacity)
	for i := range seats {
		seats[i].ID = models.SeatID(st.ID, i)
		if i < len(st.AssignedGuestIDs) && st.AssignedGuestIDs[i] != nil {
			seats[i].GuestID = models.GuestRef(*st.AssignedGuestIDs[i])
		}
	}
	return seats
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
