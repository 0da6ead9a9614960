package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/loader"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/internal/report"
	"go.uber.org/zap"
)

func planCmd() *cobra.Command {
	var (
		output    string
		format    string
		topN      int
		year      int
		teeOutput string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "plan [holidays-file] [employees-file]",
		Short: "Suggest leave periods for every employee",
		Long: "Build each employee's city calendar, find the clusters of days off and " +
			"spend the leave balance on the bridges with the best ratio of days off to leave days.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			holidaysFile := cfg.Input.HolidaysFile
			employeesFile := cfg.Input.EmployeesFile
			if len(args) > 0 {
				holidaysFile = args[0]
			}
			if len(args) > 1 {
				employeesFile = args[1]
			}

			if cmd.Flags().Changed("year") {
				cfg.Planner.Year = year
			}
			if cmd.Flags().Changed("top") {
				cfg.Planner.TopN = topN
			}
			if cmd.Flags().Changed("output") {
				cfg.Output.File = output
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := loadPlanner(cmd.Context(), holidaysFile)
			if err != nil {
				return err
			}

			if err := requireFile("employee", employeesFile); err != nil {
				return err
			}

			employees, err := loader.New(logger).LoadEmployees(employeesFile)
			if err != nil {
				return err
			}

			logger.Info("Starting leave planning",
				zap.String("holidays_file", holidaysFile),
				zap.String("employees_file", employeesFile),
				zap.Int("year", cfg.Planner.Year),
				zap.Int("employees", len(employees.Records)))

			plans := p.AssemblePlans(employees.Records)

			writer, err := report.New(cfg.Output.GetFormat(), cfg.Planner.TopN)
			if err != nil {
				return err
			}
			if err := report.WriteFile(cfg.Output.File, writer, plans); err != nil {
				return err
			}

			logger.Info("Leave suggestions saved",
				zap.String("file", cfg.Output.File),
				zap.String("format", string(cfg.Output.GetFormat())),
				zap.Int("leaves_suggested", totalLeaves(plans)))

			if quiet {
				return nil
			}

			out := io.Writer(os.Stdout)
			if teeOutput != "" {
				if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
					return fmt.Errorf("failed to create tee path: %w", err)
				}
				f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open tee-output file: %w", err)
				}
				defer f.Close()
				out = io.MultiWriter(os.Stdout, f)
			}

			fmt.Fprintf(out, "Leave suggestions saved to %s\n\n", cfg.Output.File)
			return report.PrintSummary(out, plans, cfg.Planner.TopN)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report file (default from output.file)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: csv, json or ics")
	cmd.Flags().IntVar(&topN, "top", 0, "Suggestions reported per employee")
	cmd.Flags().IntVar(&year, "year", 0, "Planning year")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Also write the console summary to this file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the console summary")

	return cmd
}

func totalLeaves(plans []planner.Plan) int {
	total := 0
	for _, plan := range plans {
		total += bridge.TotalLeaves(plan.Suggestions)
	}
	return total
}
