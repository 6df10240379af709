package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamkcenter/kcenter/internal/kcenter/ladder"
	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcenterio"
)

var slidingGreatCircle bool

var slidingCmd = &cobra.Command{
	Use:     "sliding k epsilon window_size d_min d_max points_file",
	Short:   "Run the k-center ladder over a bounded sliding window of points",
	Example: fmt.Sprintf("  %s sliding 5 0.1 3600 10 1000 points.txt", BinName()),
	Args:    cobra.ExactArgs(6),
	RunE:    runSliding,
}

func init() {
	slidingCmd.Flags().BoolVar(&slidingGreatCircle, "great-circle", false, "use great-circle distance instead of toroidal Euclidean")
	rootCmd.AddCommand(slidingCmd)
}

func runSliding(cmd *cobra.Command, args []string) error {
	kv, err := parseUintArg("k", args[0])
	if err != nil {
		return err
	}
	k := int(kv)

	eps, err := parseFloatArg("epsilon", args[1])
	if err != nil {
		return err
	}

	window, err := parseUintArg("window_size", args[2])
	if err != nil {
		return err
	}

	dMin, err := parseFloatArg("d_min", args[3])
	if err != nil {
		return err
	}
	dMax, err := parseFloatArg("d_max", args[4])
	if err != nil {
		return err
	}

	pointsFile, err := openFile(args[5])
	if err != nil {
		return err
	}
	defer pointsFile.Close()

	points, err := kcenterio.ReadTimestampedPoints(pointsFile, window)
	if err != nil {
		return err
	}

	metric := point.Euclidean
	if slidingGreatCircle {
		metric = point.GreatCircle
	}

	rs, err := newRunSetup()
	if err != nil {
		return err
	}
	defer rs.Close()

	d := ladder.NewSlidingLadder(k, eps, dMin, dMax, points, metric, rs.log)
	return rs.runTimed(func() error { return d.Run(len(points)) })
}
