package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/leave-planner/internal/api"
	"github.com/username/leave-planner/internal/loader"
	"github.com/username/leave-planner/internal/planner"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve calendars and leave plans over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := loadPlanner(cmd.Context(), cfg.Input.HolidaysFile)
			if err != nil {
				return err
			}

			var employees []planner.EmployeeRecord
			if cfg.Input.EmployeesFile != "" {
				if err := requireFile("employee", cfg.Input.EmployeesFile); err != nil {
					return err
				}
				set, err := loader.New(logger).LoadEmployees(cfg.Input.EmployeesFile)
				if err != nil {
					return err
				}
				employees = set.Records
			} else {
				logger.Info("No employee file configured, GET /api/plans will be empty")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(p, employees, api.Options{
				Addr:           cfg.Server.Addr,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				TopN:           cfg.Planner.TopN,
			}, logger)

			logger.Info("Starting leave planner server",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("year", p.Year()),
				zap.Int("cities", len(p.Cities())),
				zap.Int("employees", len(employees)))

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}
