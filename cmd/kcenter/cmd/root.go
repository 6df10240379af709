package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamkcenter/kcenter/pkg/kcenterconfig"
	"github.com/streamkcenter/kcenter/pkg/kcenterlog"
)

var (
	// Persistent flags shared by every regime subcommand, named after the
	// original getopt surface (-l/-t/-u/-c).
	logFile     string
	longLog     bool
	timeLogFile string
	clusterSize uint

	configPath      string
	analyticsDriver string
	analyticsDSN    string
	archiveType     string
	archivePath     string

	logger kcenterlog.Logger
	cfg    *kcenterconfig.Config
)

// rootCmd is the base command; each regime (sliding, fully-adv, packed,
// trajectories) is registered as a subcommand rather than a flag switch,
// matching cobra's idiom more than the original's -s/-m/-o/-p mode flags.
var rootCmd = &cobra.Command{
	Use:   "kcenter",
	Short: "Streaming metric k-center clustering over points and trajectories",
	Long: `kcenter runs a radius-ladder k-center driver over a stream of
add/remove/update queries, under one of four operating regimes:

  sliding       bounded sliding-window stream of GPS points
  adversarial   fully adversarial add/remove over points
  packed        fully adversarial add/remove, packed lookup forest
  trajectories  adversarial growth of trajectories under Hausdorff distance

Each regime selects, after every query, the smallest-radius ladder level
that remains feasible, and logs that selection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := kcenterlog.LevelInfo
		logger = kcenterlog.NewDefaultLogger(level, os.Stderr)

		loaded, err := kcenterconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if analyticsDriver != "" {
			cfg.Analytics.Enabled = true
			cfg.Analytics.Driver = analyticsDriver
		}
		if analyticsDSN != "" {
			cfg.Analytics.DSN = analyticsDSN
		}
		if archiveType != "" {
			cfg.Archive.Type = archiveType
		}
		if archivePath != "" {
			cfg.Archive.LocalPath = archivePath
		}
		return nil
	},
}

// Execute runs the root command, exiting the process with a non-zero
// status on any fatal error (everything but ALL_LEVELS_INFEASIBLE, which
// engines already swallow per query before a command ever returns it).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logFile, "log", "l", "", "selection log output file (stdout if empty)")
	rootCmd.PersistentFlags().BoolVarP(&longLog, "long-log", "t", false, "include true radius in the selection log")
	rootCmd.PersistentFlags().StringVarP(&timeLogFile, "time-log", "u", "", "binary timing log output file (one record per run)")
	rootCmd.PersistentFlags().UintVarP(&clusterSize, "cluster-size", "c", 0, "cluster-size hint for the set collections (0: default to input size)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional kcenter.yaml defaults file")
	rootCmd.PersistentFlags().StringVar(&analyticsDriver, "analytics-driver", "", "enable the analytics sink with this SQL driver (postgres, mysql, sqlite, clickhouse)")
	rootCmd.PersistentFlags().StringVar(&analyticsDSN, "analytics-dsn", "", "analytics sink DSN")
	rootCmd.PersistentFlags().StringVar(&archiveType, "archive-type", "", "archive sink type (local or cos)")
	rootCmd.PersistentFlags().StringVar(&archivePath, "archive-path", "", "local archive directory (when archive-type=local)")
}
