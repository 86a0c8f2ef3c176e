// Package verify provides the "verify" command for checking that a
// directory signature file is well-formed and uncorrupted.
package verify

import (
	"fmt"
	"os"
	"time"

	"github.com/lucho00cuba/dirsig"
	"github.com/lucho00cuba/dirsig/internal/direrrors"
	"github.com/lucho00cuba/dirsig/internal/logger"

	"github.com/lucho00cuba/dirsig/cmd"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command for index integrity checks.
var verifyCmd = &cobra.Command{
	Use:   "verify [index-file]",
	Short: "Verify a directory signature file is well-formed and uncorrupted",
	Long: `Verify reads a directory signature file and re-checks its footer digest
against the header and body it covers. Exits with code 0 if the index is
intact, non-zero if it is malformed or corrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "verify")

		f, err := os.Open(path)
		if err != nil {
			log.Error("Failed to open index file", "error", err)
			return fmt.Errorf("failed to open %q: %w", path, err)
		}
		defer f.Close()

		log.Info("Starting index verification")
		start := time.Now()

		header, dirs, err := dirsig.Parse(f)
		if err != nil {
			log.Error("Index verification failed", "error", err, "duration", time.Since(start))
			return writeVerifyFailure(cmd, err)
		}

		var directories, entries int
		for d, err := range dirs {
			if err != nil {
				log.Error("Index verification failed", "error", err, "duration", time.Since(start))
				return writeVerifyFailure(cmd, err)
			}
			directories++
			entries += len(d.Entries)
		}

		duration := time.Since(start)
		log.Info("Index verification succeeded",
			"duration", duration,
			"algorithm", string(header.Algorithm),
			"directories", directories,
			"entries", entries,
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%d directories, %d entries, %s)\n",
			path, directories, entries, header.Algorithm); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

// writeVerifyFailure reports a parse/corruption failure on stderr with a
// message tailored to the error category, and returns it for exit status.
func writeVerifyFailure(cmd *cobra.Command, err error) error {
	switch e := err.(type) {
	case *direrrors.CorruptionError:
		fmt.Fprintf(cmd.ErrOrStderr(), "CORRUPT: footer %s does not match computed digest %s\n", e.Read, e.Computed)
	case *direrrors.FormatError:
		fmt.Fprintf(cmd.ErrOrStderr(), "MALFORMED: line %d (%s): %s\n", e.Line, e.Kind, e.Msg)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "FAILED: %v\n", err)
	}
	return err
}

func init() {
	cmd.Register(verifyCmd)
}
