package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"seating-planner/internal/export"
	"seating-planner/internal/guests"
	"seating-planner/internal/handler"
	"seating-planner/internal/models"
	"seating-planner/internal/whatsapp"
)

// readSheets parses each CSV file as one guest sheet named after the file.
func readSheets(paths []string, countryCode string) ([]guests.Raw, error) {
	var rows []guests.Raw
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		sheet := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sheetRows, err := guests.ReadCSV(f, sheet)
		f.Close()
		if err != nil {
			return nil, err
		}
		rows = append(rows, sheetRows...)
	}
	for i := range rows {
		if rows[i].Phone != "" {
			rows[i].Phone = whatsapp.NormalizePhoneNumber(rows[i].Phone, countryCode)
		}
	}
	return rows, nil
}

func importSheets(a *app, out io.Writer, paths []string) error {
	rows, err := readSheets(paths, a.cfg.CountryCode)
	if err != nil {
		return err
	}
	dups := a.planner.ImportGuests(rows)
	all := a.planner.Guests()
	fmt.Fprintln(out, success(fmt.Sprintf("Imported %d guest(s) from %d sheet(s).", len(all), len(paths))))
	if len(dups) > 0 {
		fmt.Fprintln(out, warning("Skipped duplicates: "+strings.Join(dups, ", ")))
	}
	if clamped := guests.Clamped(rows); len(clamped) > 0 {
		fmt.Fprintln(out, warning(fmt.Sprintf("Shortened to %d characters and %d plus-ones: %s",
			models.MaxNameLength, models.MaxPlusOnes, strings.Join(clamped, ", "))))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := importSheets(current, cmd.OutOrStdout(), args); err != nil {
		return err
	}
	return current.save(cmd.Context())
}

// autoSeat runs the named strategy and returns its summary.
func autoSeat(a *app, kind, sheet string) (string, error) {
	switch kind {
	case "group":
		return a.planner.AutoSeatByGroup(), nil
	case "fill":
		return a.planner.AutoSeatAll(), nil
	case "sheet":
		if sheet == "" {
			return "", fmt.Errorf("strategy sheet needs a sheet name (one of %s)", strings.Join(guests.SheetNames(a.planner.Guests()), ", "))
		}
		return a.planner.AutoSeatBySheet(sheet), nil
	case "affiliation":
		return a.planner.AutoSeatByAffiliation(), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want group, fill, sheet or affiliation)", kind)
	}
}

func runAutoSeat(cmd *cobra.Command, args []string) error {
	msg, err := autoSeat(current, strategy, sheetName)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return current.save(cmd.Context())
}

func printChart(a *app, out io.Writer) error {
	snap := a.snapshot()
	if err := export.Chart(out, snap); err != nil {
		return err
	}
	st := guests.Statistics(snap.Guests)
	fmt.Fprintln(out, muted(fmt.Sprintf("%d guests: %d attending, %d not attending, %d pending (%d%% responded)",
		st.Total, st.Attending, st.NotAttending, st.Pending, st.PercentResponded)))
	if report := guests.CheckCapacity(snap.Guests, snap.Tables); !report.OK() {
		fmt.Fprintln(out, warning(report.Message))
	}
	return nil
}

func runChart(cmd *cobra.Command, args []string) error {
	return printChart(current, cmd.OutOrStdout())
}

func runExport(cmd *cobra.Command, args []string) error {
	if outPath == "" {
		return export.CSV(cmd.OutOrStdout(), current.snapshot())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := export.CSV(f, current.snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// connectWhatsApp opens the WhatsApp session stored in the configured data
// directory, pairing first if needed.
func connectWhatsApp(ctx context.Context, a *app) (*whatsapp.Service, error) {
	if err := os.MkdirAll(a.cfg.WhatsAppDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp data directory: %w", err)
	}
	svc, err := whatsapp.NewService(ctx, &whatsapp.Config{
		DataDir:     a.cfg.WhatsAppDataDir,
		CountryCode: a.cfg.CountryCode,
	}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize WhatsApp service: %w", err)
	}
	if err := svc.Connect(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func runNotify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := connectWhatsApp(ctx, current)
	if err != nil {
		return err
	}
	defer svc.Disconnect()

	report, err := whatsapp.SendSeatCards(ctx, svc, current.snapshot(), current.log)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, success(fmt.Sprintf("Sent %d seat card(s).", len(report.Sent))))
	if len(report.Skipped) > 0 {
		fmt.Fprintln(out, muted("No phone number: "+strings.Join(report.Skipped, ", ")))
	}
	for name, sendErr := range report.Failed {
		fmt.Fprintln(out, failure(fmt.Sprintf("%s: %v", name, sendErr)))
	}
	return err
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := connectWhatsApp(ctx, current)
	if err != nil {
		return err
	}
	defer svc.Disconnect()

	rsvp := handler.NewRSVPHandler(svc, current.planner, &handler.Config{
		EventName:   current.cfg.EventName,
		EventDate:   current.cfg.EventDate,
		CountryCode: current.cfg.CountryCode,
	}, current.log)
	svc.SetMessageHandler(rsvp.HandleMessage)

	fmt.Fprintln(cmd.OutOrStdout(), success("Connected to WhatsApp. Listening for RSVP replies, Ctrl+C to stop."))
	<-ctx.Done()

	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
	return current.save(context.WithoutCancel(ctx))
}
