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

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/app"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/catalog"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/config"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/mail"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/storage/postgres"
	transporthttp "github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/transport/http"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	cfg := config.Load(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("parse database url: %v", err)
	}
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	emailRepo := postgres.NewEmailRepository(pool)
	dispatcherOpts := []mail.Option{
		mail.WithMode(cfg.EmailMode),
		mail.WithCaptureOnFailure(cfg.EmailCaptureOnFailure),
	}
	if cfg.EmailMode != mail.ModeCapture {
		transport := mail.NewSMTPTransport(cfg.SMTPAddr, cfg.SendTimeout)
		dispatcherOpts = append(dispatcherOpts, mail.WithTransport(transport, cfg.SMTPFrom))
	}
	dispatcher := mail.NewDispatcher(emailRepo, clock.NewSystem(), cfg.AlertRecipient, dispatcherOpts...)

	alertRepo := postgres.NewAlertRepository(pool)
	alertSvc := app.NewAlertService(alertRepo, dispatcher, clock.NewSystem(), logger)

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := app.NewOrderService(orderRepo, catalogClient, alertSvc, clock.NewSystem(), cfg.TaxRate, logger)
	adminSvc := app.NewAdminService(orderRepo, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/orders", transporthttp.HandleCreateOrder(orderSvc))
	mux.Handle("/orders/", transporthttp.HandleOrderByID(orderSvc))
	mux.Handle("/alerts/unauthorized-order-access", transporthttp.HandleReportUnauthorizedAccess(alertSvc))
	mux.Handle("/admin/emails", transporthttp.HandleAdminEmails(emailRepo))
	mux.Handle("/admin/clients", transporthttp.HandleAdminClients(adminSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
