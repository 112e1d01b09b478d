package whatsapp

import (
	"context"

	"github.com/rs/zerolog"

	"seating-planner/internal/export"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// Report lists the outcome of a seat card run by guest name.
type Report struct {
	Sent    []string
	Skipped []string
	Failed  map[string]error
}

// SendSeatCards sends every seated guest with a phone number their seat card.
// A failed send is recorded and the run continues; cancelling ctx stops it.
func SendSeatCards(ctx context.Context, sender Sender, snap export.Snapshot, log zerolog.Logger) (Report, error) {
	report := Report{Failed: make(map[string]error)}
	for _, card := range export.Cards(snap) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if card.Guest.Phone == "" {
			report.Skipped = append(report.Skipped, card.Guest.Name)
			continue
		}
		if err := sender.SendMessage(ctx, card.Guest.Phone, card.Text(snap.EventName)); err != nil {
			log.Warn().Err(err).Int("guest", card.Guest.ID).Msg("Failed to send seat card")
			report.Failed[card.Guest.Name] = err
			continue
		}
		report.Sent = append(report.Sent, card.Guest.Name)
	}
	log.Info().
		Int("sent", len(report.Sent)).
		Int("skipped", len(report.Skipped)).
		Int("failed", len(report.Failed)).
		Msg("Seat cards delivered")
	return report, nil
}
