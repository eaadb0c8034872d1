package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samhoang/skilo/internal/cache"
)

var (
	cacheCleanAll    bool
	cacheCleanMaxAge int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the git cache",
	Long: `Manage the cache of repository mirrors and checkouts used by add.

The cache lives in $SKILO_HOME/git (default ~/.skilo/git).`,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache location and usage",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stale checkouts, or everything with --all",
	Long: `Remove checkouts that have not been used for --max-age days.
With --all every mirror and checkout is removed.`,
	Args: cobra.NoArgs,
	RunE: runCacheClean,
}

func init() {
	cacheCleanCmd.Flags().BoolVar(&cacheCleanAll, "all", false, "Remove all mirrors and checkouts")
	cacheCleanCmd.Flags().IntVar(&cacheCleanMaxAge, "max-age", 30, "Remove checkouts older than this many days")
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePath(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, a.paths.CacheDir)

	usage, err := cache.NewStore(a.paths.CacheConfig()).Usage()
	if err != nil {
		return err
	}
	a.printf("%s\n", a.styles.Dim.Render(fmt.Sprintf("%s, %s, %s",
		plural(usage.Mirrors, "mirror"), plural(usage.Checkouts, "checkout"), formatBytes(usage.Bytes))))
	if a.paths.Offline {
		a.printf("%s\n", a.styles.Dim.Render("offline mode (SKILO_OFFLINE)"))
	}
	return nil
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	store := cache.NewStore(a.paths.CacheConfig())
	result, err := store.Clean(cmd.Context(), cache.CleanOptions{
		All:    cacheCleanAll,
		MaxAge: time.Duration(cacheCleanMaxAge) * 24 * time.Hour,
	})
	if err != nil {
		return err
	}

	if len(result.Removed) == 0 {
		a.out.Message("Cache is already clean")
		return nil
	}
	entries := "entries"
	if len(result.Removed) == 1 {
		entries = "entry"
	}
	a.out.Success(fmt.Sprintf("Removed %d cache %s (%s)", len(result.Removed), entries, formatBytes(result.Bytes)))
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
