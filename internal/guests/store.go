// Package guests holds the guest list, independent of seating.
package guests

import (
	"errors"
	"fmt"
	"strings"

	"seating-planner/internal/models"
)

// ErrNotFound is returned when no guest has the requested id.
var ErrNotFound = errors.New("guest not found")

// Store is a flat, ordered guest list. Identifiers handed out by Add are
// never reused within the lifetime of the store, even after deletion.
type Store struct {
	guests []models.Guest
	nextID int
}

// NewStore creates a store holding a copy of the given guests.
func NewStore(guests []models.Guest) *Store {
	s := &Store{}
	s.Replace(guests)
	return s
}

// Replace swaps the whole guest list, as done on import or project load.
func (s *Store) Replace(guests []models.Guest) {
	s.guests = make([]models.Guest, len(guests))
	copy(s.guests, guests)
	for _, g := range guests {
		if g.ID >= s.nextID {
			s.nextID = g.ID + 1
		}
	}
}

// Add assigns a fresh id to the guest and appends it.
func (s *Store) Add(guest models.Guest) (models.Guest, error) {
	guest.Name = strings.TrimSpace(guest.Name)
	if guest.RSVP == "" {
		guest.RSVP = models.RSVPPending
	}
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	guest.ID = s.nextID
	s.nextID++
	s.guests = append(s.guests, guest)
	return guest, nil
}

// Update replaces the guest with the same id.
func (s *Store) Update(guest models.Guest) error {
	guest.Name = strings.TrimSpace(guest.Name)
	if err := guest.Validate(); err != nil {
		return err
	}
	for i, g := range s.guests {
		if g.ID == guest.ID {
			s.guests[i] = guest
			return nil
		}
	}
	return fmt.Errorf("failed to update guest %d: %w", guest.ID, ErrNotFound)
}

// Delete removes the guest. Seats still referencing it must be vacated by
// the caller in the same transaction.
func (s *Store) Delete(id int) bool {
	for i, g := range s.guests {
		if g.ID == id {
			s.guests = append(s.guests[:i:i], s.guests[i+1:]...)
			return true
		}
	}
	return false
}

// Get retrieves a guest by id
func (s *Store) Get(id int) (models.Guest, error) {
	for _, g := range s.guests {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Guest{}, fmt.Errorf("guest %d: %w", id, ErrNotFound)
}

// FindByPhone returns the first guest whose phone number matches.
func (s *Store) FindByPhone(phone string) (models.Guest, bool) {
	if phone == "" {
		return models.Guest{}, false
	}
	for _, g := range s.guests {
		if g.Phone == phone {
			return g, true
		}
	}
	return models.Guest{}, false
}

// All returns a copy of the guest list.
func (s *Store) All() []models.Guest {
	guests := make([]models.Guest, len(s.guests))
	copy(guests, s.guests)
	return guests
}

// IDs returns the set of known guest ids.
func (s *Store) IDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(s.guests))
	for _, g := range s.guests {
		ids[g.ID] = struct{}{}
	}
	return ids
}

// Len returns the number of guests.
func (s *Store) Len() int {
	return len(s.guests)
}

// Filter returns the guests for which keep returns true.
func (s *Store) Filter(keep func(models.Guest) bool) []models.Guest {
	var result []models.Guest
	for _, g := range s.guests {
		if keep(g) {
			result = append(result, g)
		}
	}
	return result
}
