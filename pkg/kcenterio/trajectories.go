package kcenterio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/streamkcenter/kcenter/internal/kcenter/point"
	"github.com/streamkcenter/kcenter/pkg/kcentererrors"
)

// ReadTrajectories parses a trajectory file: a header line
// "<nb_trajectories> <total_nb_points>", followed by one line per
// trajectory of the form "<id> <declared_length> <lon,lat> <lon,lat> ...",
// matching the original's trajectories_import_points.
func ReadTrajectories(r io.Reader) ([]*point.Trajectory, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, kcentererrors.New(kcentererrors.CodeFileFormat, "trajectory file: empty file")
	}
	header := strings.Fields(sc.Text())
	if len(header) < 2 {
		return nil, kcentererrors.New(kcentererrors.CodeFileFormat, "trajectory file: malformed header line")
	}
	nbTrajectories, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat, "trajectory file: malformed trajectory count in header", err)
	}

	trajectories := make([]*point.Trajectory, 0, nbTrajectories)
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, kcentererrors.New(kcentererrors.CodeFileFormat,
				fmt.Sprintf("trajectory file: line %d: missing declared length", line))
		}
		maxLength, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("trajectory file: line %d: invalid declared length", line), err)
		}
		if len(fields) != 2+maxLength {
			return nil, kcentererrors.New(kcentererrors.CodeFileFormat,
				fmt.Sprintf("trajectory file: line %d: declared %d points, found %d", line, maxLength, len(fields)-2))
		}
		traj := point.NewTrajectory(maxLength)
		for _, f := range fields[2:] {
			parts := strings.SplitN(f, ",", 2)
			if len(parts) != 2 {
				return nil, kcentererrors.New(kcentererrors.CodeFileFormat,
					fmt.Sprintf("trajectory file: line %d: expected \"lon,lat\", got %q", line, f))
			}
			lon, lat, err := parseLonLat(parts[0], parts[1])
			if err != nil {
				return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
					fmt.Sprintf("trajectory file: line %d", line), err)
			}
			traj.Load(point.NewGeo(lat, lon))
		}
		trajectories = append(trajectories, traj)
	}
	if err := sc.Err(); err != nil {
		return nil, kcentererrors.Wrap(kcentererrors.CodeIO, "reading trajectory file", err)
	}
	return trajectories, nil
}
