package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamkcenter/kcenter/internal/kcenter/ladder"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/internal/kcenter/query"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
)

var packedGreatCircle bool

var packedCmd = &cobra.Command{
	Use:     "packed k epsilon d_min d_max points_file query_file",
	Short:   "Run the fully adversarial k-center ladder over points, packed into a shared lookup forest",
	Example: fmt.Sprintf("  %s packed 5 0.1 10 1000 points.txt queries.bin", BinName()),
	Args:    cobra.ExactArgs(6),
	RunE:    runPacked,
}

func init() {
	packedCmd.Flags().BoolVar(&packedGreatCircle, "great-circle", false, "use great-circle distance instead of toroidal Euclidean")
	rootCmd.AddCommand(packedCmd)
}

func runPacked(cmd *cobra.Command, args []string) error {
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
	if packedGreatCircle {
		metric = point.GreatCircle
	}

	rs, err := newRunSetup()
	if err != nil {
		return err
	}
	defer rs.Close()

	d := ladder.NewPackedLadder(k, eps, dMin, dMax, points, metric, rs.rng, rs.log)
	return rs.runTimed(func() error { return d.Run(query.NewProvider(queryFile)) })
}
