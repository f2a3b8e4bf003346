package geo

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Format string

const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

// Load reads points from path ("-" is stdin). FormatAuto picks NDJSON for
// .json/.jsonl/.ndjson files and CSV otherwise.
func Load(path string, format Format) ([]Point, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open data file")
		}
		defer f.Close()
		r = f
	}

	if format == FormatAuto || format == "" {
		format = FormatCSV
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonl", ".ndjson":
			format = FormatNDJSON
		}
	}

	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatNDJSON:
		return ReadNDJSON(r)
	}
	return nil, errors.Errorf("unknown format %q", format)
}

// ReadCSV parses rows of id,unique_id,lat,lon[,name]. Ids may be empty and
// accept base prefixes; lat and lon are required.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var pts []Point
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		line, _ := cr.FieldPos(0)
		p, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func parseRow(row []string) (Point, error) {
	if len(row) < 4 {
		return Point{}, errors.Errorf("expected at least 4 columns, got %d", len(row))
	}
	var (
		p   Point
		err error
	)
	if p.ID, err = parseID(row[0]); err != nil {
		return Point{}, errors.Wrap(err, "id")
	}
	if p.UniqueID, err = parseID(row[1]); err != nil {
		return Point{}, errors.Wrap(err, "unique_id")
	}
	if p.Lat, err = parseCoord(row[2]); err != nil {
		return Point{}, errors.Wrap(err, "lat")
	}
	if p.Lon, err = parseCoord(row[3]); err != nil {
		return Point{}, errors.Wrap(err, "lon")
	}
	if len(row) > 4 {
		p.Label = row[4]
	}
	return p, nil
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 0, 64)
}

func parseCoord(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if !finite(f) {
		return 0, errors.Wrapf(ErrInvalidPoint, "coordinate %q is not finite", s)
	}
	return f, nil
}

// ReadNDJSON reads one JSON point per line. Blank lines are skipped.
func ReadNDJSON(r io.Reader) ([]Point, error) {
	var pts []Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var p struct {
			Point
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		}
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if p.Lat == nil || p.Lon == nil {
			return nil, errors.Errorf("line %d: lat and lon are required", line)
		}
		p.Point.Lat, p.Point.Lon = *p.Lat, *p.Lon
		pts = append(pts, p.Point)
	}
	return pts, errors.Wrap(scanner.Err(), "read ndjson")
}
