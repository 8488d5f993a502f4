package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached trees, layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendRedis {
				printWarning("Cache backend is redis; entries there expire on their own")
			}
			dir, err := cfg.ResolvedCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count, err := clearCacheDir(dir)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearCacheDir removes every file below dir, then the emptied
// subdirectories. dir itself is kept. Unreadable entries are skipped.
func clearCacheDir(dir string) (int, error) {
	count := 0
	var subdirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			subdirs = append(subdirs, path)
			return nil
		}
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	// Deepest first so parents are empty by the time they are removed.
	for i := len(subdirs) - 1; i >= 0; i-- {
		os.Remove(subdirs[i])
	}
	return count, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.ResolvedCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
