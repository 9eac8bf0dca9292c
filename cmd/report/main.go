// report runs the four pipelines once and prints the run summary as JSON.
// Useful for cron-driven refreshes and for checking drop counts after a data load.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"signoff-dashboard/backend/internal/config"
	contractrepo "signoff-dashboard/backend/internal/contract/repository"
	"signoff-dashboard/backend/internal/db"
	directoryrepo "signoff-dashboard/backend/internal/directory/repository"
	refrepo "signoff-dashboard/backend/internal/refdata/repository"
	"signoff-dashboard/backend/internal/report"
	runlogrepo "signoff-dashboard/backend/internal/runlog/repository"
	signoffrepo "signoff-dashboard/backend/internal/signoff/repository"
	"signoff-dashboard/backend/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	kafkaProducer, err := producer.NewKafkaProducer(cfg.RunlogKafkaBrokersList(), cfg.RunlogKafkaTopic)
	if err != nil {
		log.Fatalf("telemetry: kafka producer: %v", err)
	}
	var emitter report.RunEmitter
	if kafkaProducer != nil {
		emitter = kafkaProducer
		defer kafkaProducer.Close()
	}

	loader := report.NewLoader(
		contractrepo.NewPostgresRepository(conn),
		signoffrepo.NewPostgresRepository(conn),
		directoryrepo.NewPostgresRepository(conn),
		refrepo.NewPostgresRepository(conn),
	)
	engine := report.NewEngine(cfg.DeferredMethodID, cfg.OrgEmailDomain, nil)
	runs := runlogrepo.NewPostgresRepository(conn)
	reports := report.NewService(loader, engine, runs, emitter)

	run, err := reports.Refresh(context.Background())
	if err != nil {
		log.Fatalf("report: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		log.Fatalf("report: encode summary: %v", err)
	}
	if run.DroppedDimension > 0 || run.DroppedDates > 0 {
		log.Printf("report: dropped %d rows on dimension mismatch, %d on missing dates",
			run.DroppedDimension, run.DroppedDates)
	}
}
