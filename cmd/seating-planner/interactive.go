package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seating-planner/internal/models"
	"seating-planner/internal/seating"
	"seating-planner/internal/whatsapp"
)

type session struct {
	ctx     context.Context
	app     *app
	scanner *bufio.Scanner
	out     io.Writer
}

func runInteractive(cmd *cobra.Command, args []string) error {
	s := &session{
		ctx:     cmd.Context(),
		app:     current,
		scanner: bufio.NewScanner(os.Stdin),
		out:     cmd.OutOrStdout(),
	}
	fmt.Fprintln(s.out, boxed(title("🪑 Seating Planner")+"\n"+muted("Project: "+current.cfg.Project)))
	s.loop()
	return nil
}

func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *session) promptInt(label string) (int, bool) {
	text, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Fprintln(s.out, failure(fmt.Sprintf("%q is not a number.", text)))
		return 0, false
	}
	return n, true
}

func (s *session) loop() {
	for {
		fmt.Fprintln(s.out, "\nCommands:")
		fmt.Fprintln(s.out, "  1. Import guest sheets (CSV)")
		fmt.Fprintln(s.out, "  2. Add guest")
		fmt.Fprintln(s.out, "  3. Set RSVP")
		fmt.Fprintln(s.out, "  4. Delete guest")
		fmt.Fprintln(s.out, "  5. Add table")
		fmt.Fprintln(s.out, "  6. Rename table")
		fmt.Fprintln(s.out, "  7. Seat guest")
		fmt.Fprintln(s.out, "  8. Unassign guest")
		fmt.Fprintln(s.out, "  9. Auto-seat")
		fmt.Fprintln(s.out, "  10. Clear all seats")
		fmt.Fprintln(s.out, "  11. Undo")
		fmt.Fprintln(s.out, "  12. Redo")
		fmt.Fprintln(s.out, "  13. Show chart")
		fmt.Fprintln(s.out, "  14. Show unassigned guests")
		fmt.Fprintln(s.out, "  15. Save project")
		fmt.Fprintln(s.out, "  16. Load project")
		fmt.Fprintln(s.out, "  17. Delete project")
		fmt.Fprintln(s.out, "  18. Exit")

		command, ok := s.prompt("\nEnter command (1-18): ")
		if !ok {
			return
		}

		switch command {
		case "1":
			s.importGuests()
		case "2":
			s.addGuest()
		case "3":
			s.setRSVP()
		case "4":
			s.deleteGuest()
		case "5":
			s.addTable()
		case "6":
			s.renameTable()
		case "7":
			s.seatGuest()
		case "8":
			s.unassignGuest()
		case "9":
			s.autoSeat()
		case "10":
			s.app.planner.ClearAll()
			fmt.Fprintln(s.out, success("All seats cleared."))
		case "11":
			s.report(s.app.planner.Undo(), "Undone.", "Nothing to undo.")
		case "12":
			s.report(s.app.planner.Redo(), "Redone.", "Nothing to redo.")
		case "13":
			if err := printChart(s.app, s.out); err != nil {
				fmt.Fprintln(s.out, failure(err.Error()))
			}
		case "14":
			s.showUnassigned()
		case "15":
			s.saveProject()
		case "16":
			s.loadProject()
		case "17":
			s.deleteProject()
		case "18":
			fmt.Fprintln(s.out, "Exiting...")
			return
		default:
			fmt.Fprintln(s.out, "Invalid command. Please try again.")
		}
	}
}

func (s *session) report(ok bool, done, nothing string) {
	if ok {
		fmt.Fprintln(s.out, success(done))
	} else {
		fmt.Fprintln(s.out, muted(nothing))
	}
}

func (s *session) importGuests() {
	text, ok := s.prompt("CSV files (space separated): ")
	if !ok || text == "" {
		return
	}
	if err := importSheets(s.app, s.out, strings.Fields(text)); err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
	}
}

func (s *session) addGuest() {
	name, ok := s.prompt("Name: ")
	if !ok {
		return
	}
	group, ok := s.prompt("Group (empty for none): ")
	if !ok {
		return
	}
	phone, ok := s.prompt("Phone (empty for none): ")
	if !ok {
		return
	}
	g := models.Guest{Name: name, Group: group}
	if phone != "" {
		g.Phone = whatsapp.NormalizePhoneNumber(phone, s.app.cfg.CountryCode)
	}
	added, err := s.app.planner.AddGuest(g)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success(fmt.Sprintf("Added %s (#%d).", added.Name, added.ID)))
}

func (s *session) setRSVP() {
	id, ok := s.promptInt("Guest #: ")
	if !ok {
		return
	}
	fmt.Fprintln(s.out, "  1. Attending\n  2. Not Attending\n  3. Pending")
	choice, ok := s.prompt("Enter choice (1-3): ")
	if !ok {
		return
	}
	var status models.RSVPStatus
	switch choice {
	case "1":
		status = models.RSVPAttending
	case "2":
		status = models.RSVPNotAttending
	case "3":
		status = models.RSVPPending
	default:
		fmt.Fprintln(s.out, "Invalid choice.")
		return
	}
	g, err := s.app.planner.SetRSVP(id, status)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success(fmt.Sprintf("%s is now %s.", g.Name, g.RSVP)))
}

func (s *session) deleteGuest() {
	id, ok := s.promptInt("Guest #: ")
	if !ok {
		return
	}
	if err := s.app.planner.DeleteGuest(id); err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success("Guest deleted."))
}

func (s *session) addTable() {
	name, ok := s.prompt("Table name (empty for default): ")
	if !ok {
		return
	}
	capacity, ok := s.promptInt("Capacity: ")
	if !ok {
		return
	}
	shape, ok := s.prompt("Shape (circle/rectangle): ")
	if !ok {
		return
	}
	spec := seating.TableSpec{Name: name, Capacity: capacity, Shape: models.ShapeCircle}
	if strings.HasPrefix(strings.ToLower(shape), "r") {
		spec.Shape = models.ShapeRectangle
	}
	t, err := s.app.planner.AddTable(spec)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success(fmt.Sprintf("Added %s (table-%d) with %d seats.", t.Name, t.ID, t.Capacity)))
}

func (s *session) renameTable() {
	text, ok := s.prompt("Table id: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(text, "table-"), 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, failure(fmt.Sprintf("%q is not a table id.", text)))
		return
	}
	name, ok := s.prompt("New name: ")
	if !ok {
		return
	}
	s.app.planner.RenameTable(id, name)
}

// seatGuest drops a guest on a seat, a table or another guest.
func (s *session) seatGuest() {
	id, ok := s.promptInt("Guest #: ")
	if !ok {
		return
	}
	target, ok := s.prompt("Target (seat-<table>-<n>, table-<id> or guest-<id>): ")
	if !ok {
		return
	}
	if n, err := strconv.Atoi(target); err == nil {
		target = seating.GuestDragID(n)
	}

	s.app.planner.DragStart(seating.GuestDragID(id))
	outcome, err := s.app.planner.DragEnd(target, 0, 0)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	if outcome == seating.OutcomeNone {
		fmt.Fprintln(s.out, muted("Nothing changed."))
		return
	}
	fmt.Fprintln(s.out, success("Guest "+outcome.String()+"."))
}

func (s *session) unassignGuest() {
	id, ok := s.promptInt("Guest #: ")
	if !ok {
		return
	}
	s.app.planner.Unassign(id)
}

func (s *session) autoSeat() {
	fmt.Fprintln(s.out, "  1. By group (reseats everyone)")
	fmt.Fprintln(s.out, "  2. Fill remaining seats")
	fmt.Fprintln(s.out, "  3. By source sheet")
	fmt.Fprintf(s.out, "  4. By side (%s / %s)\n", s.app.cfg.AffiliationA.Name, s.app.cfg.AffiliationB.Name)
	choice, ok := s.prompt("Enter choice (1-4): ")
	if !ok {
		return
	}

	var kind, sheet string
	switch choice {
	case "1":
		kind = "group"
	case "2":
		kind = "fill"
	case "3":
		kind = "sheet"
		if sheet, ok = s.prompt("Sheet name: "); !ok {
			return
		}
	case "4":
		kind = "affiliation"
	default:
		fmt.Fprintln(s.out, "Invalid choice.")
		return
	}
	msg, err := autoSeat(s.app, kind, sheet)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, msg)
}

func (s *session) showUnassigned() {
	pending := s.app.planner.Unassigned()
	if len(pending) == 0 {
		fmt.Fprintln(s.out, "\nEvery guest has a seat.")
		return
	}
	fmt.Fprintln(s.out, title(fmt.Sprintf("\n📋 Unassigned (%d):", len(pending))))
	for _, g := range pending {
		fmt.Fprintf(s.out, "  #%d %s  %s\n", g.ID, g.Name, muted(g.GroupName()+", "+string(g.RSVP)))
	}
}

func (s *session) saveProject() {
	if err := s.app.save(s.ctx); err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success("Saved "+s.app.cfg.Project+"."))
}

func (s *session) loadProject() {
	names, err := s.app.store.List(s.ctx)
	if err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(s.out, muted("No saved projects."))
		return
	}
	fmt.Fprintln(s.out, "Projects: "+strings.Join(names, ", "))
	name, ok := s.prompt("Project name: ")
	if !ok || name == "" {
		return
	}
	if err := s.app.load(s.ctx, name); err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success("Loaded "+name+"."))
}

func (s *session) deleteProject() {
	name, ok := s.prompt("Project name: ")
	if !ok || name == "" {
		return
	}
	if name == s.app.cfg.Project {
		fmt.Fprintln(s.out, failure("Cannot delete the open project."))
		return
	}
	if err := s.app.store.Delete(s.ctx, name); err != nil {
		fmt.Fprintln(s.out, failure(err.Error()))
		return
	}
	fmt.Fprintln(s.out, success("Deleted "+name+"."))
}
