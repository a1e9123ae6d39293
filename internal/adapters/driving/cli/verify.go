package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
)

// pickleStop is the last opcode of every pickle stream.
const pickleStop = '.'

var verifyCmd = &cobra.Command{
	Use:   "verify [name...]",
	Short: "Check that cached artifacts can be read",
	Long: `Ensure each artifact and read it back in full. Pickle files (.pkl) must
also end with the pickle STOP opcode. A copy that fails the check is
re-downloaded once before the artifact is reported as unloadable.

Without arguments every artifact in the manifest is verified.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cache, err := requireCache()
	if err != nil {
		return err
	}
	if artifactLoader == nil {
		return errors.New("artifact loader not configured")
	}

	names := args
	if len(names) == 0 {
		for _, spec := range cache.Specs() {
			names = append(names, spec.Name)
		}
	}

	p := newPainter(cmd.OutOrStdout())
	var errs []error
	for _, name := range names {
		var size int64
		err := artifactLoader.Load(cmd.Context(), name, readableArtifact(&size))
		if err != nil {
			cmd.Printf("%s %s: %v\n", p.render(errStyle, "✗"), name, err)
			errs = append(errs, fmt.Errorf("verify %s: %w", name, err))
			continue
		}
		cmd.Printf("%s %s  %s  %s\n", p.render(okStyle, "✓"), name, formatBytes(size), p.render(dimStyle, "readable"))
	}
	return errors.Join(errs...)
}

// readableArtifact reads the whole file and checks the pickle trailer for
// .pkl files. The byte count of the last successful read is stored in size.
func readableArtifact(size *int64) driving.DecodeFunc {
	return func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		tail := &lastByte{}
		n, err := io.Copy(tail, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if n == 0 {
			return fmt.Errorf("%s is empty", filepath.Base(path))
		}
		if strings.EqualFold(filepath.Ext(path), ".pkl") && tail.b != pickleStop {
			return fmt.Errorf("%s is not a complete pickle", filepath.Base(path))
		}
		*size = n
		return nil
	}
}

// lastByte remembers the final byte written to it.
type lastByte struct {
	b byte
}

func (l *lastByte) Write(p []byte) (int, error) {
	if len(p) > 0 {
		l.b = p[len(p)-1]
	}
	return len(p), nil
}
