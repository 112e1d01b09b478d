package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Guest represents a person to be seated
type Guest struct {
	ID          int        `json:"id"`
	Name        string     `json:"name" validate:"required,max=100"`
	Group       string     `json:"group,omitempty"`
	RSVP        RSVPStatus `json:"rsvp,omitempty" validate:"omitempty,oneof=Attending 'Not Attending' Pending"`
	PlusOnes    int        `json:"plusOnes,omitempty" validate:"gte=0,lte=10"`
	SourceSheet string     `json:"sourceSheet,omitempty"`
	Phone       string     `json:"phone,omitempty"`
}

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "Attending"
	RSVPNotAttending RSVPStatus = "Not Attending"
	RSVPPending      RSVPStatus = "Pending"
)

// Field bounds enforced by Validate.
const (
	MaxNameLength = 100
	MaxPlusOnes   = 10
)

// IndividualGroup is the bucket used for guests without a group label.
const IndividualGroup = "Individual"

var validate = validator.New()

// Validate checks the guest fields against their allowed ranges.
func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("invalid guest: name is required")
	}
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("invalid guest %q: %w", g.Name, err)
	}
	return nil
}

// GroupName returns the guest's group label, or IndividualGroup when it has none.
func (g Guest) GroupName() string {
	if g.Group == "" {
		return IndividualGroup
	}
	return g.Group
}

// Seatable reports whether the guest confirmed attendance.
func (g Guest) Seatable() bool {
	return g.RSVP == RSVPAttending
}
