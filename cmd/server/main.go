// server runs the signoff dashboard API: it computes an initial report run on
// startup and serves the four report listings over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signoff-dashboard/backend/internal/config"
	contractrepo "signoff-dashboard/backend/internal/contract/repository"
	"signoff-dashboard/backend/internal/db"
	directoryrepo "signoff-dashboard/backend/internal/directory/repository"
	refrepo "signoff-dashboard/backend/internal/refdata/repository"
	"signoff-dashboard/backend/internal/report"
	reporthandler "signoff-dashboard/backend/internal/report/handler"
	runlogrepo "signoff-dashboard/backend/internal/runlog/repository"
	"signoff-dashboard/backend/internal/security"
	"signoff-dashboard/backend/internal/server"
	signoffrepo "signoff-dashboard/backend/internal/signoff/repository"
	"signoff-dashboard/backend/internal/telemetry/otel"
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

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "signoff-dashboard", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	metrics, err := report.NewMetrics(providers.MeterProvider.Meter("signoff-dashboard/report"))
	if err != nil {
		log.Fatalf("telemetry: report metrics: %v", err)
	}

	var verifier *security.TokenVerifier
	if !cfg.AuthDisabled {
		pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			log.Fatalf("security: JWT_PUBLIC_KEY: %v", err)
		}
		verifier = security.NewTokenVerifier(pub, cfg.JWTIssuer, cfg.JWTAudience)
	}

	kafkaProducer, err := producer.NewKafkaProducer(cfg.RunlogKafkaBrokersList(), cfg.RunlogKafkaTopic)
	if err != nil {
		log.Fatalf("telemetry: kafka producer: %v", err)
	}
	var emitter report.RunEmitter
	if kafkaProducer != nil {
		emitter = kafkaProducer
		defer kafkaProducer.Close()
	}

	signoffs := signoffrepo.NewPostgresRepository(conn)
	runs := runlogrepo.NewPostgresRepository(conn)
	loader := report.NewLoader(
		contractrepo.NewPostgresRepository(conn),
		signoffs,
		directoryrepo.NewPostgresRepository(conn),
		refrepo.NewPostgresRepository(conn),
	)
	engine := report.NewEngine(cfg.DeferredMethodID, cfg.OrgEmailDomain, metrics)
	reports := report.NewService(loader, engine, runs, emitter)

	if run, err := reports.Refresh(ctx); err != nil {
		log.Printf("server: initial report run failed: %v", err)
	} else {
		log.Printf("server: initial report run %s complete (%d history, %d qualification, %d never, %d risk)",
			run.ID, run.HistoryRows, run.QualificationRows, run.NeverRows, run.RiskRows)
	}

	srv := server.New(server.Deps{
		Cfg:      cfg,
		DB:       conn,
		Reports:  reporthandler.New(reports, runs, signoffs),
		Verifier: verifier,
	})

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
