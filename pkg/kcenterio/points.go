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

// ReadPoints parses a whitespace-separated points file: one point per line,
// with an arbitrary leading field (an id, a timestamp) ignored and the
// final two whitespace-separated fields taken as longitude and latitude, in
// that order, matching the original's packed_read_point.
func ReadPoints(r io.Reader) ([]point.Geo, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var points []point.Geo
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("points file: line %d: expected at least 3 fields, got %d", line, len(fields)), nil)
		}
		lon, lat, err := parseLonLat(fields[len(fields)-2], fields[len(fields)-1])
		if err != nil {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("points file: line %d: %v", line, err), nil)
		}
		points = append(points, point.NewGeo(lat, lon))
	}
	if err := sc.Err(); err != nil {
		return nil, kcentererrors.Wrap(kcentererrors.CodeIO, "reading points file", err)
	}
	return points, nil
}

// ReadTimestampedPoints parses a sliding-window points file: one point per
// line as "<in_date> <lon> <lat>", with exp_date derived as
// in_date+windowLength, matching the original's sliding_read_point.
func ReadTimestampedPoints(r io.Reader, windowLength uint32) ([]point.Timestamped, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var points []point.Timestamped
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("sliding points file: line %d: expected 3 fields, got %d", line, len(fields)), nil)
		}
		inDate, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("sliding points file: line %d: invalid in_date %q", line, fields[0]), err)
		}
		lon, lat, err := parseLonLat(fields[1], fields[2])
		if err != nil {
			return nil, kcentererrors.Wrap(kcentererrors.CodeFileFormat,
				fmt.Sprintf("sliding points file: line %d: %v", line, err), nil)
		}
		points = append(points, point.Timestamped{
			Point:   point.NewGeo(lat, lon),
			InDate:  uint32(inDate),
			ExpDate: uint32(inDate) + windowLength,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, kcentererrors.Wrap(kcentererrors.CodeIO, "reading sliding points file", err)
	}
	return points, nil
}

func parseLonLat(lonField, latField string) (lon, lat float64, err error) {
	if lon, err = strconv.ParseFloat(lonField, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", lonField)
	}
	if lat, err = strconv.ParseFloat(latField, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", latField)
	}
	return lon, lat, nil
}
