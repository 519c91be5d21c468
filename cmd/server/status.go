package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"leavedesk/internal/app/server"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/config"
	toolshandler "leavedesk/internal/transport/http/handlers/tools"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Seed the demo data in memory and print a status report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cfg.DatabaseURL = ""
		cfg.RunSeed = true
		cfg.PolicyWatch = false
		slog.SetLogLoggerLevel(slog.LevelWarn)

		app, err := server.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		return writeStatus(cmd.Context(), cmd.OutOrStdout(), app)
	},
}

func writeStatus(ctx context.Context, w io.Writer, app *server.App) error {
	rule := strings.Repeat("=", 70)
	employees := app.Directory.List(ctx, "")
	requests := app.Leave.ListRequests(ctx, leave.RequestFilter{})
	policies := app.Policies.List(ctx, "")

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "LEAVE MANAGEMENT SYSTEM")
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nSYSTEM STATUS:")
	fmt.Fprintf(w, "   - Employees: %d\n", len(employees))
	fmt.Fprintf(w, "   - Leave Requests: %d\n", len(requests))
	fmt.Fprintf(w, "   - Policy Documents: %d\n", len(policies))

	fmt.Fprintln(w, "\nEMPLOYEES:")
	for _, emp := range employees {
		balance, err := app.Leave.BalanceOf(ctx, emp.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "   - %s (%s) - %s: %d days\n", emp.Name, emp.ID, emp.Department, balance)
	}

	fmt.Fprintln(w, "\nLEAVE REQUESTS:")
	for _, req := range requests {
		fmt.Fprintf(w, "   - %s: %s - %s (%s, %s)\n", req.ID, req.EmployeeName, req.Status, req.Type, req.Dates())
	}

	fmt.Fprintln(w, "\nKNOWLEDGE BASE:")
	for _, doc := range policies {
		fmt.Fprintf(w, "   - %s: %s (%s)\n", doc.ID, doc.Title, doc.Category)
	}

	fmt.Fprintln(w, "\nTOOLS (POST /api/v1/tools/{name}):")
	tools := toolshandler.NewHandler(app.Directory, app.Leave, app.Policies, app.Reports, nil, nil).Tools()
	for _, t := range tools {
		fmt.Fprintf(w, "   - %s\n", t.Name)
	}
	fmt.Fprintln(w, rule)
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
