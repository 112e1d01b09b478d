package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	projectArg string
	seedArg    uint64
	logLevel   string

	strategy  string
	sheetName string
	outPath   string

	current *app

	rootCmd = &cobra.Command{
		Use:   "seating-planner",
		Short: "Plan who sits where at an event",
		Long: `seating-planner keeps a guest list and a set of tables, seats guests by
hand or automatically, and sends each guest their seat over WhatsApp.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current == nil {
				return nil
			}
			return current.Close()
		},
		RunE: runInteractive,
	}

	interactiveCmd = &cobra.Command{
		Use:   "interactive",
		Short: "Edit the plan from a menu",
		RunE:  runInteractive,
	}

	importCmd = &cobra.Command{
		Use:   "import [csv file...]",
		Short: "Replace the guest list with one or more CSV guest sheets",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}

	autoseatCmd = &cobra.Command{
		Use:   "autoseat",
		Short: "Seat guests automatically",
		RunE:  runAutoSeat,
	}

	chartCmd = &cobra.Command{
		Use:   "chart",
		Short: "Print the seating chart",
		RunE:  runChart,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the seating chart as CSV",
		RunE:  runExport,
	}

	notifyCmd = &cobra.Command{
		Use:   "notify",
		Short: "Send every seated guest their seat over WhatsApp",
		RunE:  runNotify,
	}

	listenCmd = &cobra.Command{
		Use:   "listen",
		Short: "Answer RSVP replies on WhatsApp until interrupted",
		RunE:  runListen,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "seating.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&projectArg, "project", "", "Project name (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&seedArg, "seed", 0, "Seed for random seat filling (0 picks a random seed)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(importCmd)

	rootCmd.AddCommand(autoseatCmd)
	autoseatCmd.Flags().StringVar(&strategy, "strategy", "group", "Strategy: group, fill, sheet or affiliation")
	autoseatCmd.Flags().StringVar(&sheetName, "sheet", "", "Source sheet to seat with --strategy sheet")

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(listenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure(err.Error()))
		os.Exit(1)
	}
}
