// Package diff provides the "diff" command for comparing two directory
// signature files and reporting which paths were added, removed, or changed.
package diff

import (
	"fmt"
	"os"
	"time"

	"github.com/lucho00cuba/dirsig"
	"github.com/lucho00cuba/dirsig/internal/logger"

	"github.com/lucho00cuba/dirsig/cmd"
	"github.com/spf13/cobra"
)

// diffCmd represents the diff command for comparing two index files.
var diffCmd = &cobra.Command{
	Use:   "diff [indexA] [indexB]",
	Short: "Compare two directory signatures",
	Long: `Diff reads two directory signature files and reports, per path, whether
it was added, removed, or changed between them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pathA := args[0]
		pathB := args[1]
		log := logger.With("indexA", pathA, "indexB", pathB, "command", "diff")

		fA, err := os.Open(pathA)
		if err != nil {
			log.Error("Failed to open first index", "error", err)
			return fmt.Errorf("failed to open %q: %w", pathA, err)
		}
		defer fA.Close()

		fB, err := os.Open(pathB)
		if err != nil {
			log.Error("Failed to open second index", "error", err)
			return fmt.Errorf("failed to open %q: %w", pathB, err)
		}
		defer fB.Close()

		log.Info("Starting index comparison")
		start := time.Now()

		records, err := dirsig.DiffIndices(fA, fB)
		if err != nil {
			log.Error("Comparison failed", "error", err, "duration", time.Since(start))
			return err
		}

		duration := time.Since(start)
		log.Info("Comparison completed", "duration", duration, "differences", len(records))

		for _, r := range records {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), r.String()); err != nil {
				log.Error("Failed to write output to stdout", "error", err)
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	},
}

func init() {
	cmd.Register(diffCmd)
}
