// Package scan provides the "scan" command for producing a directory
// signature from a filesystem subtree.
package scan

import (
	"fmt"
	"os"
	"time"

	"github.com/lucho00cuba/dirsig"
	"github.com/lucho00cuba/dirsig/internal/digest"
	"github.com/lucho00cuba/dirsig/internal/logger"

	"github.com/lucho00cuba/dirsig/cmd"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command for producing a directory signature.
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory and produce a content-addressed signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "scan")

		excludePatterns, err := cmd.Flags().GetStringArray("exclude")
		if err != nil {
			log.Warn("Failed to read exclude patterns", "error", err)
			excludePatterns = []string{}
		}
		customIgnoreFile, err := cmd.Flags().GetString("ignore-file")
		if err != nil {
			log.Warn("Failed to read ignore-file flag", "error", err)
			customIgnoreFile = ""
		}
		hashName, err := cmd.Flags().GetString("hash")
		if err != nil {
			hashName = string(digest.SHA512_256)
		}
		blockSize, err := cmd.Flags().GetUint32("block-size")
		if err != nil {
			blockSize = dirsig.DefaultBlockSize
		}
		threads, err := cmd.Flags().GetInt("threads")
		if err != nil {
			threads = 0
		}
		outPath, err := cmd.Flags().GetString("write-index")
		if err != nil {
			outPath = ""
		}

		alg, err := digest.ParseAlgorithm(hashName)
		if err != nil {
			return fmt.Errorf("invalid --hash: %w", err)
		}

		cfg := dirsig.Config{
			Algorithm:          alg,
			BlockSize:          blockSize,
			Threads:            threads,
			Exclude:            excludePatterns,
			IgnoreFile:         customIgnoreFile,
			LoadDefaultIgnores: true,
		}

		out := cmd.OutOrStdout()
		var closeOut func() error
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				log.Error("Failed to create index file", "error", err)
				return fmt.Errorf("failed to create %q: %w", outPath, err)
			}
			out = f
			closeOut = f.Close
		}

		log.Info("Starting directory scan")
		start := time.Now()
		digestHex, err := dirsig.Scan(cmd.Context(), path, out, cfg)
		if closeOut != nil {
			if cerr := closeOut(); cerr != nil && err == nil {
				err = cerr
			}
		}
		if err != nil {
			log.Error("Scan failed", "error", err, "duration", time.Since(start))
			return err
		}

		log.Info("Scan completed", "duration", time.Since(start), "digest", digestHex)
		if outPath != "" {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digestHex, outPath); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringArrayP("exclude", "e", []string{}, "Exclude patterns (e.g., 'node_modules', '.git'). Can be specified multiple times.")
	scanCmd.Flags().StringP("ignore-file", "i", "", "Path to a custom ignore file (combined with --exclude patterns). .dirsigignore and .gitignore are always loaded automatically from the working directory.")
	scanCmd.Flags().String("hash", string(digest.SHA512_256), "Hash algorithm: sha512/256, blake2b/256, or blake3/256")
	scanCmd.Flags().Uint32("block-size", dirsig.DefaultBlockSize, "File block size in bytes")
	scanCmd.Flags().Int("threads", 0, "Worker count for parallel block hashing (0 = runtime.NumCPU())")
	scanCmd.Flags().StringP("write-index", "o", "", "Write the index to this file instead of stdout")

	cmd.Register(scanCmd)
}
