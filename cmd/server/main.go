package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"dokumentporten/internal/altinn/pdp"
	"dokumentporten/internal/altinn/tilganger"
	"dokumentporten/internal/altinn/token"
	"dokumentporten/internal/auth"
	"dokumentporten/internal/dialogporten"
	docHandler "dokumentporten/internal/document/handler"
	"dokumentporten/internal/document/intake"
	"dokumentporten/internal/document/service"
	"dokumentporten/internal/document/store"
	"dokumentporten/internal/ereg"
	"dokumentporten/internal/platform/config"
	"dokumentporten/internal/platform/httpserver"
	"dokumentporten/internal/platform/leader"
	"dokumentporten/internal/platform/logger"
	"dokumentporten/internal/platform/metrics"
	platformredis "dokumentporten/internal/platform/redis"
	"dokumentporten/internal/task"
	"dokumentporten/internal/texas"
	httptransport "dokumentporten/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	var elector leader.Elector = leader.Static(true)
	if redisClient != nil {
		defer redisClient.Close()
		elector = leader.NewRedisElector(redisClient.Client, cfg.LeaderLeaseKey, cfg.LeaderLeaseTTL, logger.ForComponent(log, "leader"))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	texasClient := texas.NewClient(httpClient, cfg.Texas)
	tokenProvider := token.NewProvider(texasClient, httpClient, cfg.Altinn.BaseURL, logger.ForComponent(log, "altinn-token"))

	pdpService := pdp.NewService(pdp.NewClient(cfg.Altinn.PdpBaseURL, httpClient, tokenProvider, cfg.Altinn.SubscriptionKey))
	tilgangerService := tilganger.NewService(
		tilganger.NewClient(texasClient, httpClient, cfg.TilgangerURL),
		logger.ForComponent(log, "tilganger"),
	)
	eregService := ereg.NewService(ereg.NewClient(cfg.EregBaseURL, httpClient))

	dialogStore := store.NewPostgresDialogStore(db)
	documentStore := store.NewPostgresDocumentStore(db)

	validator := service.NewValidationService(tilgangerService, eregService, pdpService, logger.ForComponent(log, "validation"))
	documents := service.NewDocumentService(documentStore, validator, logger.ForComponent(log, "documents"))
	submissions := service.NewSubmissionService(documentStore, dialogStore, m, logger.ForComponent(log, "submissions"))

	resolver := auth.NewResolver(texasClient, logger.ForComponent(log, "auth"))

	delivery := dialogporten.NewService(
		dialogporten.NewClient(cfg.Altinn.DialogportenURL, httpClient, tokenProvider, cfg.Altinn.SubscriptionKey),
		documentStore,
		dialogStore,
		m,
		logger.ForComponent(log, "dialogporten"),
		cfg.PublicIngress,
		cfg.Altinn.DialogIsAPIOnly,
	)

	router := httptransport.NewRouter(
		docHandler.New(documents, resolver, logger.ForComponent(log, "api"), m),
		docHandler.NewInternal(submissions, logger.ForComponent(log, "internal-api")),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
		logger.ForComponent(log, "http"),
	)
	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	sendTask := task.New("send-dialogs", elector, cfg.TaskInterval,
		delivery.SendPendingDocuments, logger.ForComponent(log, "task"))
	group.Go(func() error { return ignoreCancel(sendTask.Run(ctx)) })

	if cfg.DeleteEnabled {
		deleteTask := task.New("delete-dialogs", elector, cfg.TaskInterval,
			delivery.DeleteObsoleteDialogs, logger.ForComponent(log, "task"))
		group.Go(func() error { return ignoreCancel(deleteTask.Run(ctx)) })
	}

	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := intake.NewConsumer(cfg.Kafka, submissions, logger.ForComponent(log, "intake"))
		if err != nil {
			return fmt.Errorf("create intake consumer: %w", err)
		}
		group.Go(func() error { return ignoreCancel(consumer.Run(ctx)) })
	}

	return group.Wait()
}

// ignoreCancel keeps an orderly shutdown from being reported as a failure.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
