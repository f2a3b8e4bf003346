// Package synth generates labelled point sets with known duplicates, for
// evaluating the detector.
package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/pkg/errors"
)

// Fuzz is the half-width of the uniform jitter added to every coordinate.
// A duplicate may end up 2*Fuzz away from its original on each axis.
const Fuzz = 0.1

var (
	extraWords = strings.Split("inn,carriage,launge,plaza,blue,red,green", ",")
	baseWords  = strings.Split("sheraton,hilton,mariott,intercontinental,grand,rex,orhid,radisson,valamar,ibis,menteleone", ",")
)

type Options struct {
	// Width and Height bound the integer grid the originals are placed on.
	Width, Height int
	Points        int
	// DupProbability is the chance each original gets one duplicate.
	DupProbability float64
	Seed           uint64
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("grid must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Points < 0 {
		return errors.Errorf("negative point count %d", o.Points)
	}
	if o.DupProbability < 0 || o.DupProbability > 1 {
		return errors.Errorf("duplicate probability %v out of [0, 1]", o.DupProbability)
	}
	return nil
}

// Generate returns o.Points originals with ids 1..Points, followed by their
// duplicates. A duplicate has a fresh id and its original's unique id.
func Generate(o Options) ([]geo.Point, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))

	pts := make([]geo.Point, 0, o.Points)
	for i := 0; i < o.Points; i++ {
		id := int64(i + 1)
		pts = append(pts, geo.Point{
			ID:       id,
			UniqueID: id,
			Lat:      float64(rng.IntN(o.Width)),
			Lon:      float64(rng.IntN(o.Height)),
			Label:    name(i),
		})
	}

	next := int64(o.Points + 1)
	for i := 0; i < o.Points; i++ {
		if rng.Float64() < o.DupProbability {
			dup := pts[i]
			dup.ID = next
			next++
			pts = append(pts, dup)
		}
	}

	for i := range pts {
		pts[i].Lat += rng.Float64()*2*Fuzz - Fuzz
		pts[i].Lon += rng.Float64()*2*Fuzz - Fuzz
	}
	return pts, nil
}

func name(i int) string {
	return fmt.Sprintf("%s %s", baseWords[i%len(baseWords)], extraWords[i%len(extraWords)])
}

// WriteCSV writes pts in the id,unique_id,lat,lon,name layout geo.ReadCSV
// reads.
func WriteCSV(w io.Writer, pts []geo.Point) error {
	cw := csv.NewWriter(w)
	for _, p := range pts {
		err := cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.UniqueID, 10),
			strconv.FormatFloat(p.Lat, 'g', -1, 64),
			strconv.FormatFloat(p.Lon, 'g', -1, 64),
			p.Label,
		})
		if err != nil {
			return errors.Wrap(err, "write csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
