// Package main provides the scheduling server entry point. It hosts the
// template, schedule, instance, ticket, and audit APIs in one process
// and runs the background generation worker.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/BenFNash/boom-power/internal/db"
	"github.com/BenFNash/boom-power/internal/ha"
	"github.com/BenFNash/boom-power/pkg/audit"
	"github.com/BenFNash/boom-power/pkg/authz"
	"github.com/BenFNash/boom-power/pkg/cache"
	"github.com/BenFNash/boom-power/pkg/reference"
	"github.com/BenFNash/boom-power/pkg/scheduling"
	"github.com/BenFNash/boom-power/pkg/tickets"
)

func main() {
	var (
		listenAddr   string
		databaseType string
		databaseDSN  string
	)

	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&databaseType, "db-type", "postgres", "Database type (postgres, mysql, or sqlite)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting scheduler server", "listen", listenAddr, "dbType", databaseType)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	gormDB, err := db.Open(databaseType, databaseDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	refStore := reference.NewStore(gormDB)
	templateStore := scheduling.NewTemplateStore(gormDB, refStore)
	scheduleStore := scheduling.NewScheduleStore(gormDB, templateStore)
	instanceStore := scheduling.NewInstanceStore(gormDB)
	ticketStore := tickets.NewStore(gormDB)
	auditStore := audit.NewStore(gormDB)

	// Schema migration runs under a lock so replicas starting together
	// do not race AutoMigrate.
	migrationLock := ha.NewLocker(gormDB, "schema-migration")
	err = migrationLock.WithLock(ctx, func() error {
		for _, migrate := range []func() error{
			refStore.AutoMigrate,
			templateStore.AutoMigrate,
			scheduleStore.AutoMigrate,
			instanceStore.AutoMigrate,
			ticketStore.AutoMigrate,
			auditStore.AutoMigrate,
		} {
			if err := migrate(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	var authorizer authz.Authorizer
	switch mode := os.Getenv("BOOM_AUTH_MODE"); mode {
	case "", "rbac":
		authorizer = authz.NewRoleAuthorizer()
	case "none":
		logger.Info("authorization disabled")
		authorizer = authz.NewNoopAuthorizer()
	default:
		logger.Error("unknown auth mode", "mode", mode)
		os.Exit(1)
	}

	auditCfg := audit.ConfigFromEnv()
	recorder := audit.NewRecorder(auditStore, auditCfg, logger)

	engine := scheduling.NewEngine(gormDB, scheduleStore, templateStore, instanceStore,
		refStore, tickets.NewWriter(ticketStore), nil, logger)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", authz.UserHeader, authz.RolesHeader},
	}))
	router.Use(authz.IdentityMiddleware)

	caches := cache.NewManager(cache.ConfigFromEnv())

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/", scheduling.Router(templateStore, scheduleStore, instanceStore, engine, recorder, caches, authorizer))
		r.Mount("/tickets", tickets.Router(ticketStore, caches, authorizer))
		r.Mount("/audit", audit.Router(auditStore, authorizer))
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		sqlDB, err := gormDB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	worker := scheduling.NewWorker(engine, instanceStore, scheduling.ConfigFromEnv(), logger)
	go worker.Run(ctx)

	retention := audit.NewRetentionWorker(auditStore, auditCfg.RetentionDays, logger)
	go retention.Run(ctx)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		logger.Info("scheduler server ready", "listen", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("scheduler server stopped")
}
