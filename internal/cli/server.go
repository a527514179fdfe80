// filepath: internal/cli/server.go
package cli

import (
	"cidcheck/internal/api/handlers"
	"cidcheck/internal/audit"
	"cidcheck/internal/drive"
	"cidcheck/internal/httpserver"
	"cidcheck/internal/logging"
	"cidcheck/internal/repository"
	"cidcheck/internal/services"
	"cidcheck/internal/syncer"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

// openRepository connects, bootstraps and validates the database.
func openRepository() (*repository.Repository, error) {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to bootstrap database: %w", err)
	}

	if err := repo.ValidateSchema(); err != nil {
		logging.Log.Error("---------------------------------------------------------------")
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		logging.Log.Error("---------------------------------------------------------------")
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// newDriveClient returns nil when no Drive credentials are configured.
func newDriveClient(ctx context.Context) (syncer.DriveTX, error) {
	if !cfg.DriveConfigured() {
		logging.Log.Warn("Google Drive credentials are not configured; sync is disabled.")
		return nil, nil
	}
	client, err := drive.NewClient(ctx, cfg.Drive)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return client, nil
}

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	// A previous process may have died mid-sync.
	if reset, err := repo.ResetStaleSyncFlag(context.Background(), false); err != nil {
		return fmt.Errorf("failed to reset sync flag: %w", err)
	} else if reset {
		logging.Log.Warn("Cleared a stale sync_in_progress flag left by a previous run.")
	}

	driveClient, err := newDriveClient(context.Background())
	if err != nil {
		return err
	}

	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	infoService := services.NewInfoService(repo, Version, StartTime, driveClient != nil)
	fileService := services.NewFileService(repo)
	cidService := services.NewCIDService(repo, loggerAuditor, cfg.CID.MaxBatch)
	statsService := services.NewStatsService(repo)
	historyService := services.NewHistoryService(repo)
	syncService := services.NewSyncService(repo, driveClient, loggerAuditor, cfg)

	syncService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		fileService,
		cidService,
		statsService,
		historyService,
		syncService,
	)

	r := httpserver.SetupRouter(h, frontendFS)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (folder: %q, driver: %s)", serverAddr, cfg.Drive.TargetFolderPath, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		syncService.Stop()
		return err
	}

	// Cancels background syncs; their deferred release clears the flag.
	syncService.Stop()

	logging.Log.Info("Server exiting")
	return nil
}
