// filepath: internal/cli/sync_command.go
package cli

import (
	"cidcheck/internal/audit"
	"cidcheck/internal/logging"
	"cidcheck/internal/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var noProgress bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one Drive sync in the foreground",
	Long: `Walks the configured Drive folder, writes every file into the database and
re-checks CIDs that were not found before. Fails if another sync holds the flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(!noProgress)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar.")
	RootCmd.AddCommand(syncCmd)
}

// progressBar adapts a pb bar to the syncer progress callback.
// The bar is created lazily once the total is known.
type progressBar struct {
	bar *pb.ProgressBar
}

func (p *progressBar) update(done, total int) {
	if p.bar == nil {
		p.bar = pb.Full.Start(total)
	}
	p.bar.SetCurrent(int64(done))
}

func (p *progressBar) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

func runSync(showProgress bool) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driveClient, err := newDriveClient(ctx)
	if err != nil {
		return err
	}

	syncService := services.NewSyncService(repo, driveClient, audit.NewLoggerAuditor(cfg.Logging.AuditEnabled), cfg)

	bar := &progressBar{}
	var progress func(done, total int)
	if showProgress {
		progress = bar.update
	}

	report, err := syncService.RunSync(ctx, progress)
	bar.finish()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	logging.Log.Infof("Synced %s of %s files (%s failed), %s CIDs now found, in %s",
		humanize.Comma(int64(report.FilesSynced)),
		humanize.Comma(int64(report.FilesFound)),
		humanize.Comma(int64(report.FilesFailed)),
		humanize.Comma(report.CIDsFlipped),
		report.Duration.Round(time.Millisecond),
	)
	return nil
}
