package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/adapters/database"
	"github.com/neuroassist/backend/internal/application/services"
	"github.com/neuroassist/backend/internal/infrastructure/clients/postgres"
	"github.com/neuroassist/backend/internal/infrastructure/observability"
	"github.com/neuroassist/backend/pkg/config"
)

// Operator tool: print the doctor-facing queues and the synthesis audit
// report to the terminal.
func main() {
	limit := flag.Int("limit", 20, "maximum rows per queue")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("consultation-dashboard", cfg.Server.Environment)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	dashboard := services.NewDashboardService(database.NewConsultationAdapter(pgClient))
	audit := services.NewAuditReportService(sqlx.NewDb(pgClient.DB(), "postgres"))

	ctx := context.Background()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	queue, err := dashboard.PriorityQueue(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load priority queue")
	}

	fmt.Fprintln(w, "PRIORITY QUEUE")
	fmt.Fprintln(w, "CONSULTATION\tPATIENT\tURGENCY\tCATEGORY\tWAIT\tWARNINGS")
	for _, entry := range queue {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d min\t%d\n",
			entry.ConsultationID, entry.PatientName, entry.UrgencyScore,
			entry.TriageCategory, entry.WaitTimeMinutes, entry.SafetyWarnings)
	}

	review, err := dashboard.ManualReviewQueue(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load manual review queue")
	}

	fmt.Fprintln(w, "\nMANUAL REVIEW QUEUE")
	fmt.Fprintln(w, "CONSULTATION\tPATIENT\tREASON\tWAIT\tSTATUS")
	for _, entry := range review {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.ConsultationID, entry.PatientName, entry.Reason, entry.WaitTime, entry.Status)
	}

	reports, err := audit.SynthesisReport(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load synthesis report")
	}

	fmt.Fprintln(w, "\nSYNTHESIS AUDIT")
	fmt.Fprintln(w, "MODEL\tATTEMPTS\tSUCCESSES\tSUCCESS RATE\tAVG LATENCY")
	for _, report := range reports {
		latency := "-"
		if report.AvgLatencyMS.Valid {
			latency = fmt.Sprintf("%.0f ms", report.AvgLatencyMS.Float64)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\n",
			report.Model, report.Attempts, report.Successes, report.SuccessRate()*100, latency)
	}

	w.Flush()
}
