package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/adapters/driving/watch"
)

var watchNoSweep bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the cache valid in the background",
	Long: `Watch the cache directory and re-ensure artifacts that are deleted or
truncated, and sweep every artifact on the revalidate interval
(watch.revalidate_minutes). Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoSweep, "no-sweep", false, "Only react to file events, skip periodic sweeps")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}
	if cacheDir == "" {
		return errors.New("cache directory not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweepDone := make(chan error, 1)
	if revalidator != nil && !watchNoSweep {
		go func() {
			sweepDone <- revalidator.Start(ctx)
		}()
	} else {
		sweepDone <- nil
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", cacheDir)
	watchErr := watch.New(cache, cacheDir).Run(ctx)

	cancel()
	sweepErr := <-sweepDone

	if isCancel(watchErr) {
		watchErr = nil
	}
	if isCancel(sweepErr) {
		sweepErr = nil
	}
	return errors.Join(watchErr, sweepErr)
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
