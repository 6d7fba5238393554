package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hc-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hc-portal-go/internal/repository/postgresql"
	assessmentService "github.com/cmlabs-hris/hc-portal-go/internal/service/assessment"
	leaveService "github.com/cmlabs-hris/hc-portal-go/internal/service/leave"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDBWithOptions(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	}

	transactor := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	historyRepo := postgresql.NewApprovalHistoryRepository(db)
	assessmentRepo := postgresql.NewAssessmentRepository(db)
	assessmentApprovalRepo := postgresql.NewAssessmentApprovalRepository(db)

	hub := sse.NewHub(cfg.App.SSEBufferSize)

	var JWTService jwt.Service
	if cfg.AuthEnabled() {
		JWTService = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, API runs without authentication")
	}

	workflowSvc := leaveService.NewWorkflowService(transactor, leaveRequestRepo, historyRepo, employeeRepo, hub)
	assessmentSvc := assessmentService.NewAssessmentService(transactor, assessmentRepo, assessmentApprovalRepo, employeeRepo)

	workflowHandler := appHTTP.NewWorkflowHandler(workflowSvc, hub, JWTService)
	assessmentHandler := appHTTP.NewAssessmentHandler(assessmentSvc)

	router := appHTTP.NewRouter(cfg, JWTService, workflowHandler, assessmentHandler)

	if cfg.Metrics.Enabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewWorkflowJobs(leaveRequestRepo, hub).RegisterJobs(scheduler, cfg.Metrics.RefreshInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when ctx does, so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env, "auth", cfg.AuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
