// Package planner ties the guest store, the seating engine, the auto-seating
// strategies and the undo/redo history together. All mutations go through a
// single mutex, so each request runs to completion before the next starts.
package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"seating-planner/internal/autoseat"
	"seating-planner/internal/export"
	"seating-planner/internal/guests"
	"seating-planner/internal/history"
	"seating-planner/internal/models"
	"seating-planner/internal/seating"
	"seating-planner/internal/storage"
)

var (
	// ErrUnknownGuest is returned for operations on a guest id that is not in
	// the guest list.
	ErrUnknownGuest = errors.New("unknown guest")
	// ErrRejected is returned when a change would leave the seating
	// inconsistent with the guest list. The plan is left unchanged.
	ErrRejected = errors.New("change rejected")
)

// Planner is the seating plan of one event.
type Planner struct {
	mu           sync.Mutex
	guests       *guests.Store
	history      *history.History
	rng          *rand.Rand
	sides        autoseat.Sides
	ids          *tableIDs
	log          zerolog.Logger
	active       string
	notification string
}

// Option configures a Planner.
type Option func(*Planner)

// WithRand sets the random source used by capacity filling.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) { p.rng = rng }
}

// WithSides sets the affiliations used by ByAffiliation.
func WithSides(sides autoseat.Sides) Option {
	return func(p *Planner) { p.sides = sides }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Planner) { p.log = log.With().Str("component", "Planner").Logger() }
}

// WithClock sets the time source used for table identifiers.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.ids.now = now }
}

// New creates an empty planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		guests:  guests.NewStore(nil),
		history: history.New(nil),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		sides:   autoseat.DefaultSides,
		ids:     &tableIDs{now: time.Now},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// tableIDs hands out time based table ids that are strictly increasing.
type tableIDs struct {
	now  func() time.Time
	last int64
}

func (t *tableIDs) next(existing models.Tables) int64 {
	id := t.now().UnixMilli()
	if id <= t.last {
		id = t.last + 1
	}
	for existing.FindTable(id) >= 0 {
		id++
	}
	t.last = id
	return id
}

// commit pushes next onto the history after checking the seating
// invariants against the guest list. It reports whether the timeline grew.
func (p *Planner) commit(op string, next models.Tables) (bool, error) {
	if err := next.CheckInvariants(p.guests.IDs()); err != nil {
		p.log.Error().Err(err).Str("op", op).Msg("Rejected snapshot")
		return false, fmt.Errorf("%w: %s: %v", ErrRejected, op, err)
	}
	changed := p.history.Commit(next)
	p.log.Debug().Str("op", op).Bool("changed", changed).Int("index", p.history.Index()).Msg("Commit")
	return changed, nil
}

func (p *Planner) current() models.Tables {
	return p.history.Current()
}

// ImportGuests replaces the guest list with deduplicated, plus-one expanded
// rows and starts a fresh history with no tables. It returns the names that
// were dropped as duplicates.
func (p *Planner) ImportGuests(rows []guests.Raw) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw := make([]models.Guest, 0, len(rows))
	for _, r := range rows {
		raw = append(raw, models.Guest{Name: r.Name})
	}
	dups := guests.Duplicates(raw)
	if clamped := guests.Clamped(rows); len(clamped) > 0 {
		p.log.Warn().Strs("names", clamped).Msg("Clamped guest rows to name and plus-one limits")
	}

	imported := guests.Expand(rows)
	p.guests.Replace(imported)
	p.history.Reset(nil)
	p.notification = ""
	p.log.Info().Int("guests", len(imported)).Int("duplicates", len(dups)).Msg("Imported guests")
	return dups
}

// AddGuest adds a guest with a fresh id.
func (p *Planner) AddGuest(g models.Guest) (models.Guest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	added, err := p.guests.Add(g)
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to add guest: %w", err)
	}
	p.log.Info().Int("guest", added.ID).Str("name", added.Name).Msg("Added guest")
	return added, nil
}

// UpdateGuest edits a guest. Guest edits are not recorded in the undo
// history; only seat assignments are.
func (p *Planner) UpdateGuest(g models.Guest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guests.Update(g)
}

// SetRSVP changes a guest's RSVP status.
func (p *Planner) SetRSVP(id int, status models.RSVPStatus) (models.Guest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, err := p.guests.Get(id)
	if err != nil {
		return models.Guest{}, err
	}
	g.RSVP = status
	if err := p.guests.Update(g); err != nil {
		return models.Guest{}, err
	}
	return g, nil
}

// DeleteGuest removes the guest and vacates its seat in one step. The seat
// is vacated in every history entry as well, so undo and redo never bring
// the deleted guest back onto a table.
func (p *Planner) DeleteGuest(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.guests.Delete(id) {
		return fmt.Errorf("failed to delete guest %d: %w", id, ErrUnknownGuest)
	}
	p.history.Rewrite(func(tables models.Tables) models.Tables {
		return seating.RemoveGuest(tables, id)
	})
	p.log.Info().Int("guest", id).Int("history", p.history.Len()).Msg("Deleted guest")
	return nil
}

// AddTable appends a table and returns it.
func (p *Planner) AddTable(spec seating.TableSpec) (models.Table, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.current()
	next, err := seating.AddTable(cur, spec, p.ids.next(cur))
	if err != nil {
		return models.Table{}, err
	}
	if _, err := p.commit("add-table", next); err != nil {
		return models.Table{}, err
	}
	p.notification = ""
	return next[len(next)-1], nil
}

// RenameTable renames a table. Blank names are ignored.
func (p *Planner) RenameTable(id int64, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commit("rename-table", seating.RenameTable(p.current(), id, name))
}

// Place moves a guest onto a seat, swapping or bumping its occupant.
func (p *Planner) Place(guestID int, seatID string) (seating.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.place(guestID, seatID)
}

func (p *Planner) place(guestID int, seatID string) (seating.Outcome, error) {
	if _, err := p.guests.Get(guestID); err != nil {
		return seating.OutcomeNone, fmt.Errorf("failed to place guest %d: %w", guestID, ErrUnknownGuest)
	}
	res := seating.Move(p.current(), guestID, seatID)
	if res.Outcome == seating.OutcomeNone {
		return seating.OutcomeNone, nil
	}
	if _, err := p.commit(res.Outcome.String(), res.Tables); err != nil {
		return seating.OutcomeNone, fmt.Errorf("failed to place guest %d: %w", guestID, err)
	}
	return res.Outcome, nil
}

// Unassign returns a guest to the unassigned list.
func (p *Planner) Unassign(guestID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commit("unassign", seating.Unassign(p.current(), guestID))
}

// DragStart records the dragged entity, a "guest-<id>" or "table-<id>".
func (p *Planner) DragStart(activeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = activeID
	p.notification = ""
}

// DragEnd resolves the drop of the entity recorded by DragStart. over is the
// drop target id, empty when released over nothing; dx and dy are the drag
// distance, used for tables. Cancelled drags change nothing.
func (p *Planner) DragEnd(over string, dx, dy float64) (seating.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	active := p.active
	p.active = ""

	if tableID, ok := seating.ParseTableDragID(active); ok {
		_, err := p.commit("move-table", seating.MoveTable(p.current(), tableID, dx, dy))
		return seating.OutcomeNone, err
	}

	guestID, ok := seating.ParseGuestDragID(active)
	if !ok || over == "" {
		return seating.OutcomeNone, nil
	}
	if over == seating.UnassignedArea {
		_, err := p.commit("unassign", seating.Unassign(p.current(), guestID))
		return seating.OutcomeNone, err
	}
	seatID, ok := seating.TargetSeat(p.current(), over)
	if !ok {
		return seating.OutcomeNone, nil
	}
	return p.place(guestID, seatID)
}

// ClearAll vacates every seat.
func (p *Planner) ClearAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commit("clear-all", seating.ClearAll(p.current()))
	p.notification = ""
}

// Undo steps back in the seating history.
func (p *Planner) Undo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Undo()
}

// Redo steps forward in the seating history.
func (p *Planner) Redo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Redo()
}

// CanUndo reports whether Undo would change anything.
func (p *Planner) CanUndo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (p *Planner) CanRedo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.CanRedo()
}

// Tables returns a copy of the current table collection.
func (p *Planner) Tables() models.Tables {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current()
}

// Guests returns a copy of the guest list.
func (p *Planner) Guests() []models.Guest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guests.All()
}

// GuestByPhone finds a guest by phone number.
func (p *Planner) GuestByPhone(phone string) (models.Guest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guests.FindByPhone(phone)
}

// Unassigned returns the guests without a seat, in guest list order.
func (p *Planner) Unassigned() []models.Guest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unassigned()
}

func (p *Planner) unassigned() []models.Guest {
	assigned := p.current().AssignedIDs()
	return p.guests.Filter(func(g models.Guest) bool {
		_, ok := assigned[g.ID]
		return !ok
	})
}

// Notification returns the message of the last auto-seating run.
func (p *Planner) Notification() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notification
}

// Snapshot returns an immutable copy of the plan for exporters.
func (p *Planner) Snapshot() export.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return export.Snapshot{Guests: p.guests.All(), Tables: p.current()}
}

// Project returns the plan as a saveable project document.
func (p *Planner) Project() storage.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	return storage.Project{Version: storage.CurrentVersion, Guests: p.guests.All(), Tables: p.current()}
}

// Load replaces guests and tables with the project and starts a fresh
// history. An inconsistent project is rejected and the plan kept as it was.
func (p *Planner) Load(project storage.Project) error {
	known := make(map[int]struct{}, len(project.Guests))
	for _, g := range project.Guests {
		if _, dup := known[g.ID]; dup {
			return fmt.Errorf("failed to load project: %w: duplicate guest id %d", storage.ErrMalformedSnapshot, g.ID)
		}
		known[g.ID] = struct{}{}
	}
	if err := project.Tables.CheckInvariants(known); err != nil {
		return fmt.Errorf("failed to load project: %w: %v", storage.ErrMalformedSnapshot, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.guests.Replace(project.Guests)
	p.history.Reset(project.Tables)
	p.notification = ""
	p.log.Info().Int("guests", len(project.Guests)).Int("tables", len(project.Tables)).Msg("Loaded project")
	return nil
}
