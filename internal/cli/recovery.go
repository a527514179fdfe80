// filepath: internal/cli/recovery.go
package cli

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/repository"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var recoveryDryRun bool

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Run maintenance tasks to fix database inconsistencies",
	Long: `Clears a sync_in_progress flag left behind by a process that died during a sync.
This does not start the HTTP server. Do not run it while a server is syncing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecovery(recoveryDryRun)
	},
}

func init() {
	recoveryCmd.Flags().BoolVar(&recoveryDryRun, "dryrun", false, "If true, report only without editing.")
	RootCmd.AddCommand(recoveryCmd)
}

func runRecovery(dryRun bool) error {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.ValidateSchema(); err != nil {
		return fmt.Errorf("cannot run recovery on outdated database: %w", err)
	}

	logging.Log.Info("Starting recovery process...")

	stale, err := repo.ResetStaleSyncFlag(context.Background(), dryRun)
	if err != nil {
		return err
	}

	switch {
	case !stale:
		logging.Log.Info("Recovery complete. No stale sync flag found.")
	case dryRun:
		logging.Log.Warn("Dry run: the sync_in_progress flag is set and would be cleared.")
	default:
		logging.Log.Info("Recovery complete. Cleared the sync_in_progress flag.")
	}
	return nil
}
