package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamkcenter/kcenter/internal/kcenter/ladder"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
	"github.com/streamkcenter/kcenter/pkg/parallel"
)

var trajectoryWorkers int

var trajectoriesCmd = &cobra.Command{
	Use:     "trajectories k epsilon d_min d_max trajectories_file query_file",
	Short:   "Run the k-center ladder over growing trajectories under Hausdorff distance",
	Example: fmt.Sprintf("  %s trajectories 5 0.1 10 1000 trajectories.txt queries.bin", BinName()),
	Args:    cobra.ExactArgs(6),
	RunE:    runTrajectories,
}

func init() {
	trajectoriesCmd.Flags().IntVarP(&trajectoryWorkers, "workers", "n", 1, "number of worker goroutines fanning out across ladder levels (1: sequential)")
	rootCmd.AddCommand(trajectoriesCmd)
}

func runTrajectories(cmd *cobra.Command, args []string) error {
	k, eps, dMin, dMax, trajPath, queryPath, err := parseLadderArgs(args)
	if err != nil {
		return err
	}

	trajFile, err := openFile(trajPath)
	if err != nil {
		return err
	}
	defer trajFile.Close()
	trajs, err := kcenterio.ReadTrajectories(trajFile)
	if err != nil {
		return err
	}

	queryFile, err := openFile(queryPath)
	if err != nil {
		return err
	}
	defer queryFile.Close()

	rs, err := newRunSetup()
	if err != nil {
		return err
	}
	defer rs.Close()

	provider := query.NewProvider(queryFile)

	if trajectoryWorkers > 1 {
		config := parallel.DefaultPoolConfig().WithWorkers(trajectoryWorkers)
		d := ladder.NewParallelTrajectoryLadder(k, eps, dMin, dMax, trajs, rs.rng, rs.log, config)
		return rs.runTimed(func() error { return d.Run(provider) })
	}

	d := ladder.NewTrajectoryLadder(k, eps, dMin, dMax, trajs, rs.rng, rs.log)
	return rs.runTimed(func() error { return d.Run(provider) })
}
