// Package lookup provides the "lookup" command for finding a single path
// inside a directory signature through a table of its directory offsets.
package lookup

import (
	"fmt"
	"os"

	"github.com/lucho00cuba/dirsig"
	"github.com/lucho00cuba/dirsig/internal/logger"

	"github.com/lucho00cuba/dirsig/cmd"
	"github.com/spf13/cobra"
)

// lookupCmd represents the lookup command for random-access path queries.
var lookupCmd = &cobra.Command{
	Use:   "lookup [index-file] [path]",
	Short: "Look up a single path in a directory signature",
	Long: `Lookup opens a directory signature, reads it once to build a table of
directory offsets, binary-searches that table for the given path's directory,
and parses only that directory's entries.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexPath := args[0]
		lookupPath := args[1]
		log := logger.With("index", indexPath, "lookup_path", lookupPath, "command", "lookup")

		f, err := os.Open(indexPath)
		if err != nil {
			log.Error("Failed to open index file", "error", err)
			return fmt.Errorf("failed to open %q: %w", indexPath, err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			log.Error("Failed to stat index file", "error", err)
			return fmt.Errorf("failed to stat %q: %w", indexPath, err)
		}

		nav, err := dirsig.OpenNavigator(f, info.Size())
		if err != nil {
			log.Error("Failed to open navigator", "error", err)
			return fmt.Errorf("failed to open index: %w", err)
		}

		entry, err := nav.Lookup(lookupPath)
		if err != nil {
			log.Error("Lookup failed", "error", err)
			return err
		}
		if entry == nil {
			log.Info("Lookup found nothing", "path", lookupPath)
			if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "not found: %s\n", lookupPath); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return fmt.Errorf("path not found: %s", lookupPath)
		}

		log.Info("Lookup succeeded", "kind", entry.Kind, "size", entry.Size)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s size=%d blocks=%d executable=%v target=%q\n",
			lookupPath, entry.Kind, entry.Size, len(entry.BlockHashes), entry.Executable, entry.Target); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

func init() {
	cmd.Register(lookupCmd)
}
