package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow/types/events"

	"seating-planner/internal/export"
	"seating-planner/internal/guests"
	"seating-planner/internal/models"
	"seating-planner/internal/whatsapp"
)

// Planner is the part of the seating plan the RSVP handler works on.
type Planner interface {
	GuestByPhone(phone string) (models.Guest, bool)
	SetRSVP(id int, status models.RSVPStatus) (models.Guest, error)
	Snapshot() export.Snapshot
}

type RSVPHandler struct {
	sender  whatsapp.Sender
	planner Planner
	config  *Config
	log     zerolog.Logger
}

type Config struct {
	EventName   string
	EventDate   string
	CountryCode string
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(sender whatsapp.Sender, planner Planner, cfg *Config, log zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		sender:  sender,
		planner: planner,
		config:  cfg,
		log:     log.With().Str("component", "RSVP").Logger(),
	}
}

// HandleMessage processes incoming WhatsApp messages for RSVP responses
func (h *RSVPHandler) HandleMessage(msg *events.Message) error {
	text := whatsapp.MessageText(msg)
	if text == "" {
		return nil
	}
	return h.HandleReply(context.Background(), msg.Info.Sender.User, text)
}

// HandleReply updates the RSVP of the guest with the given phone number and
// answers with a confirmation. Unknown senders and replies that are neither
// yes nor no are ignored.
func (h *RSVPHandler) HandleReply(ctx context.Context, phoneNumber, text string) error {
	phoneNumber = whatsapp.NormalizePhoneNumber(phoneNumber, h.config.CountryCode)

	guest, ok := h.planner.GuestByPhone(phoneNumber)
	if !ok {
		h.log.Debug().Str("phone", phoneNumber).Msg("Message from unknown sender")
		return nil
	}

	status := guests.NormalizeRSVP(text)
	var response string
	switch status {
	case models.RSVPAttending:
		response = h.attendingMessage(guest)
	case models.RSVPNotAttending:
		response = fmt.Sprintf(
			"Thank you for letting us know, %s. We're sorry you won't be able to join us for %s.\n\nWe'll miss you! 💕",
			guest.Name, h.config.EventName,
		)
	default:
		return nil
	}

	if _, err := h.planner.SetRSVP(guest.ID, status); err != nil {
		return fmt.Errorf("failed to update RSVP: %w", err)
	}
	h.log.Info().Int("guest", guest.ID).Str("rsvp", string(status)).Msg("RSVP updated")

	if err := h.sender.SendMessage(ctx, phoneNumber, response); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

func (h *RSVPHandler) attendingMessage(guest models.Guest) string {
	msg := fmt.Sprintf("🎉 Wonderful! We've confirmed your attendance for %s", h.config.EventName)
	if h.config.EventDate != "" {
		msg += " on " + h.config.EventDate
	}
	msg += "."

	for _, card := range export.Cards(h.planner.Snapshot()) {
		if card.Guest.ID == guest.ID {
			return msg + "\n\n" + card.Text(h.config.EventName)
		}
	}
	return msg + "\n\nWe'll send you your seat once the seating chart is ready."
}
