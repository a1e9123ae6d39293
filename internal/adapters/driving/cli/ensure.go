package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

var ensureForce bool

var ensureCmd = &cobra.Command{
	Use:   "ensure [name...]",
	Short: "Make artifacts available in the local cache",
	Long: `Ensure that artifacts are present locally and meet their minimum size.

Missing or undersized copies are fetched from their source and re-checked,
retrying a bounded number of times. Without arguments every artifact in the
manifest is ensured. Use --force to fetch a fresh copy even when the cached
one is valid.`,
	RunE: runEnsure,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-download every artifact",
	Long:  `Discard every cached artifact and fetch a fresh copy from its source.`,
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	ensureCmd.Flags().BoolVarP(&ensureForce, "force", "f", false, "Fetch even when the cached copy is valid")
	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(refreshCmd)
}

func runEnsure(cmd *cobra.Command, args []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		report, err := cache.EnsureAll(cmd.Context(), ensureForce)
		printReport(cmd, report)
		return err
	}

	var errs []error
	for _, name := range args {
		res, err := cache.Ensure(cmd.Context(), name, ensureForce)
		printResult(cmd, name, res, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("ensure %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}

	report, err := cache.EnsureAll(cmd.Context(), true)
	printReport(cmd, report)
	return err
}

func printReport(cmd *cobra.Command, report *domain.SweepReport) {
	if report == nil {
		return
	}
	for _, res := range report.Results {
		printResult(cmd, res.Name, &res, report.Errors[res.Name])
	}
	cmd.Printf("\n%d validated, %d failed\n", report.Validated(), report.Failed())
}

func printResult(cmd *cobra.Command, name string, res *domain.EnsureResult, err error) {
	p := newPainter(cmd.OutOrStdout())

	if res == nil || !res.Validated() {
		msg := "failed"
		if err != nil {
			msg = err.Error()
		}
		cmd.Printf("%s %s: %s\n", p.render(errStyle, "✗"), name, msg)
		return
	}

	detail := "cached"
	if !res.CacheHit() {
		detail = fmt.Sprintf("%d fetch(es)", res.Fetches)
	}
	cmd.Printf("%s %s  %s  %s\n",
		p.render(okStyle, "✓"), name, formatBytes(res.SizeBytes), p.render(dimStyle, detail))
}
