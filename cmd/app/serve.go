package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"mindset-backend/internal/controller"
	"mindset-backend/internal/db"
	"mindset-backend/internal/metrics"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/service"
	"mindset-backend/pkg/middleware"
	"mindset-backend/utilities"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
}

func (a *app) serve(cmd *cobra.Command) error {
	printStartUpBanner()

	if err := a.initialize(); err != nil {
		return err
	}
	defer a.log.Sync()

	gdb := db.GetDB()
	if a.cfg.DB.Initialize {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	m := metrics.New()
	bus := utilities.NewEventBus()
	service.InitCompletionListeners(bus, a.log)

	// Repositories.
	assessmentRepo := repository.NewAssessmentRepository(gdb)
	responseRepo := repository.NewResponseRepository(gdb)
	coachingRepo := repository.NewCoachingRepository(gdb)
	orgRepo := repository.NewOrganizationRepository(gdb)
	checkInRepo := repository.NewCheckInRepository(gdb)

	// Services.
	assessmentService, err := service.NewAssessmentService(assessmentRepo, a.cfg.Cache.AssessmentSnapshots, m)
	if err != nil {
		return err
	}
	svc := controller.Services{
		Assessments:   assessmentService,
		Responses:     service.NewResponseService(responseRepo, assessmentService, m, bus, a.log),
		Progress:      service.NewProgressService(responseRepo, assessmentService),
		Coaching:      service.NewCoachingService(coachingRepo, assessmentService),
		Reports:       service.NewReportService(),
		CheckIns:      service.NewCheckInService(checkInRepo, a.cfg.Context.TimeZone),
		Organizations: service.NewOrganizationService(orgRepo),
	}
	tokens := utilities.NewTokenManager(a.cfg.Authentication)

	if strings.EqualFold(a.cfg.Logging.Mode, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(a.log))
	if a.cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware(a.log))
	}
	r.Use(middleware.CORS(a.cfg.Context.CORSOrigins), gin.Recovery())

	controller.RegisterRoutes(r, svc, tokens)
	if a.cfg.Metrics.Enabled {
		r.GET(a.cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	bus.Wait()
	return nil
}
