package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

var historyLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local state of every artifact",
	Long: `List every artifact in the manifest with its cached size, minimum
valid size and state. Nothing is downloaded.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show recorded fetch attempts",
	Long: `Show fetch attempts recorded by ensure, newest first.

Pass an artifact name to restrict the list to that artifact.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of attempts to show (0 = all)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}

	statuses, err := cache.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if len(statuses) == 0 {
		cmd.Println("No artifacts registered.")
		return nil
	}

	headers := []string{"NAME", "SIZE", "MINIMUM", "STATE", "SOURCE"}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		size := "-"
		if st.Local.Present {
			size = formatBytes(st.Local.SizeBytes)
		}
		rows = append(rows, []string{
			st.Spec.Name,
			size,
			formatBytes(st.Spec.MinimumValidSize),
			artifactState(st),
			st.Spec.SourceLocator,
		})
	}

	renderTable(cmd.OutOrStdout(), headers, rows, 3)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	records, err := cache.History(cmd.Context(), name, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No fetch attempts recorded.")
		return nil
	}

	headers := []string{"TIME", "NAME", "ATTEMPT", "OUTCOME", "SIZE", "DURATION", "ERROR"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.StartedAt.Local().Format(time.DateTime),
			rec.Name,
			strconv.Itoa(rec.Attempt),
			string(rec.Outcome),
			formatBytes(rec.SizeBytes),
			rec.Duration.Round(time.Millisecond).String(),
			rec.Error,
		})
	}

	renderTable(cmd.OutOrStdout(), headers, rows, 3)
	return nil
}

// artifactState summarises an artifact's local copy.
func artifactState(st domain.ArtifactStatus) string {
	switch {
	case !st.Local.Present:
		return "missing"
	case st.Valid():
		return "valid"
	default:
		return "undersized"
	}
}

// renderTable writes rows as a styled table on a terminal and as aligned
// plain text otherwise. stateCol selects the column coloured by value.
func renderTable(w io.Writer, headers []string, rows [][]string, stateCol int) {
	if !isTTY(w) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		_ = tw.Flush()
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(headerStyle)
			}
			if col == stateCol && row >= 0 && row < len(rows) {
				return base.Inherit(stateStyle(rows[row][col]))
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}

func stateStyle(state string) lipgloss.Style {
	switch state {
	case "valid", string(domain.AttemptCacheHit), string(domain.AttemptFetched):
		return okStyle
	case string(domain.AttemptUndersized):
		return warnStyle
	default:
		return errStyle
	}
}
