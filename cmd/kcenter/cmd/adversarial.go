package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamkcenter/kcenter/internal/kcenter/ladder"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
)

var adversarialGreatCircle bool

var adversarialCmd = &cobra.Command{
	Use:   "adversarial k epsilon d_min d_max points_file query_file",
	Short: "Run the fully adversarial k-center ladder over points",
	Example: fmt.Sprintf("  %s adversarial 5 0.1 10 1000 points.txt queries.bin", BinName()),
	Args:  cobra.ExactArgs(6),
	RunE:  runAdversarial,
}

func init() {
	adversarialCmd.Flags().BoolVar(&adversarialGreatCircle, "great-circle", false, "use great-circle distance instead of toroidal Euclidean")
	rootCmd.AddCommand(adversarialCmd)
}

func runAdversarial(cmd *cobra.Command, args []string) error {
	k, eps, dMin, dMax, pointsPath, queryPath, err := parseLadderArgs(args)
	if err != nil {
		return err
	}

	pointsFile, err := openFile(pointsPath)
	if err != nil {
		return err
	}
	defer pointsFile.Close()
	points, err := kcenterio.ReadPoints(pointsFile)
	if err != nil {
		return err
	}

	queryFile, err := openFile(queryPath)
	if err != nil {
		return err
	}
	defer queryFile.Close()

	metric := point.Euclidean
	if adversarialGreatCircle {
		metric = point.GreatCircle
	}

	rs, err := newRunSetup()
	if err != nil {
		return err
	}
	defer rs.Close()

	d := ladder.NewAdversarialLadder(k, eps, dMin, dMax, points, metric, clusterSizeHint(len(points)), rs.rng, rs.log)
	return rs.runTimed(func() error { return d.Run(query.NewProvider(queryFile)) })
}

// parseLadderArgs parses the shared positional argument shape used by
// adversarial, packed, and trajectories: k epsilon d_min d_max points_file
// query_file.
func parseLadderArgs(args []string) (k int, eps, dMin, dMax float64, pointsPath, queryPath string, err error) {
	var kv uint32
	if kv, err = parseUintArg("k", args[0]); err != nil {
		return
	}
	k = int(kv)
	if eps, err = parseFloatArg("epsilon", args[1]); err != nil {
		return
	}
	if dMin, err = parseFloatArg("d_min", args[2]); err != nil {
		return
	}
	if dMax, err = parseFloatArg("d_max", args[3]); err != nil {
		return
	}
	pointsPath = args[4]
	queryPath = args[5]
	return
}
