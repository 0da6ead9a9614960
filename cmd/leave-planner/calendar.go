package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/username/leave-planner/internal/report"
)

func calendarCmd() *cobra.Command {
	var (
		holidaysFile string
		year         int
		clusters     int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "calendar <city>",
		Short: "Show the month summaries, holidays and longest breaks of a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if holidaysFile == "" {
				holidaysFile = cfg.Input.HolidaysFile
			}
			if cmd.Flags().Changed("year") {
				cfg.Planner.Year = year
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := loadPlanner(cmd.Context(), holidaysFile)
			if err != nil {
				return err
			}

			cal, ok := p.Calendar(args[0])
			if !ok {
				return fmt.Errorf("city '%s' not found in holiday list, available: %v", args[0], p.Cities())
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report.NewCalendarDocument(cal))
			}

			return report.PrintCalendar(os.Stdout, cal, clusters)
		},
	}

	cmd.Flags().StringVar(&holidaysFile, "holidays", "", "Holiday file (default from input.holidays_file)")
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year")
	cmd.Flags().IntVar(&clusters, "clusters", 10, "Longest breaks to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the calendar as JSON")

	return cmd
}
