package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/orian/geo-loc-duplicates/internal/dedup"
	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/orian/geo-loc-duplicates/internal/synth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type globalOptions struct {
	LogLevel  string `long:"log-level" env:"GEODUP_LOG_LEVEL" default:"info" description:"logrus level"`
	LogFormat string `long:"log-format" env:"GEODUP_LOG_FORMAT" default:"text" choice:"text" choice:"json"`
}

var (
	global = globalOptions{}
	logger = logrus.New()
)

type detectCommand struct {
	Data        string  `long:"data" env:"GEODUP_DATA" required:"true" description:"CSV (id,unique_id,lat,lon,name) or NDJSON file; - for stdin"`
	Format      string  `long:"format" default:"auto" choice:"auto" choice:"csv" choice:"ndjson"`
	Radius      float64 `long:"radius" env:"GEODUP_RADIUS" default:"0" description:"distance below which two points are considered duplicates"`
	UseUniqueID bool    `long:"use-unique-id" env:"GEODUP_USE_UNIQUE_ID" description:"use the unique_id column to measure precision"`
	Quiet       bool    `long:"quiet" short:"q" description:"do not trace every comparison"`
	Axis        string  `long:"axis" default:"lat" choice:"lat" choice:"lon" description:"primary sweep axis"`
	Engine      string  `long:"engine" default:"sweep" choice:"sweep" choice:"rtree"`
	CrossCheck  bool    `long:"cross-check" description:"also run the other engine and fail on any difference"`
	Workers     int     `long:"workers" default:"1" description:"number of sweep bands processed in parallel"`
	Pairs       string  `long:"pairs" description:"write accepted pairs to this CSV file"`
}

type generateCommand struct {
	Width          int     `long:"width" default:"100" description:"grid horizontal size"`
	Height         int     `long:"height" default:"100" description:"grid vertical size"`
	Points         int     `long:"points" default:"1000" description:"number of original points"`
	DupProbability float64 `long:"dup-probability" default:"0.5" description:"probability of duplicating a point"`
	Seed           uint64  `long:"seed" default:"1"`
	Out            string  `long:"out" default:"-" description:"output file; - for stdout"`
}

func main() {
	parser := flags.NewParser(&global, flags.Default&^flags.PrintErrors)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := setupLogger(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	mustAdd(parser.AddCommand("detect", "Detect near-duplicate points",
		"Reports all pairs of points closer than --radius.", &detectCommand{}))
	mustAdd(parser.AddCommand("generate", "Generate a synthetic data set",
		"Writes random grid points with fuzzed duplicates as CSV.", &generateCommand{}))

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		switch {
		case errors.As(err, &ferr) && ferr.Type == flags.ErrHelp:
			fmt.Println(err)
			os.Exit(0)
		case errors.As(err, &ferr):
			fmt.Fprintln(os.Stderr, err)
		default:
			logger.WithError(err).Error("failed")
		}
		os.Exit(1)
	}
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

func setupLogger() error {
	level, err := logrus.ParseLevel(global.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	if global.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func (c *detectCommand) config() (dedup.Config, *dedup.PairCollector, error) {
	axis, err := geo.ParseAxis(c.Axis)
	if err != nil {
		return dedup.Config{}, nil, err
	}
	cfg := dedup.Config{
		Radius:             c.Radius,
		VerifyWithUniqueID: c.UseUniqueID,
		Primary:            axis,
	}
	if !c.Quiet {
		cfg.Tracer = dedup.NewLogTracer(logger)
	}
	var pairs *dedup.PairCollector
	if c.Pairs != "" {
		pairs = &dedup.PairCollector{Next: cfg.Tracer}
		cfg.Tracer = pairs
	}
	return cfg, pairs, nil
}

func (c *detectCommand) run(store *geo.Store, cfg dedup.Config, engine string) (dedup.Result, error) {
	switch {
	case engine == "rtree":
		return dedup.RunRTree(store, cfg)
	case c.Workers > 1:
		return dedup.RunBanded(store, cfg, c.Workers)
	}
	return dedup.Run(store, cfg)
}

func (c *detectCommand) Execute(_ []string) error {
	cfg, pairs, err := c.config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.Wrapf(dedup.ErrInvalidConfig, "workers must be positive, got %d", c.Workers)
	}

	points, err := geo.Load(c.Data, geo.Format(c.Format))
	if err != nil {
		return errors.Wrapf(err, "load %s", c.Data)
	}
	logger.Infof("loaded %s entries", humanize.Comma(int64(len(points))))
	store := geo.NewStore(points)

	res, err := c.run(store, cfg, c.Engine)
	if err != nil {
		return err
	}

	if c.CrossCheck {
		other := "rtree"
		if c.Engine == "rtree" {
			other = "sweep"
		}
		check := cfg
		check.Tracer = nil
		want, err := c.run(store, check, other)
		if err != nil {
			return errors.Wrapf(err, "cross-check with %s", other)
		}
		if want.DuplicateCandidates != res.DuplicateCandidates || want.TruePositives != res.TruePositives {
			return errors.Errorf("cross-check mismatch: %s found %d/%d, %s found %d/%d",
				c.Engine, res.DuplicateCandidates, res.TruePositives,
				other, want.DuplicateCandidates, want.TruePositives)
		}
		logger.WithField("engine", other).Info("cross-check passed")
	}

	if pairs != nil {
		if err := writePairs(c.Pairs, store, pairs.Pairs()); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"points":  humanize.Comma(int64(res.Points)),
		"scanned": humanize.Comma(int64(res.Scanned)),
	}).Info("done")
	fmt.Printf("\n\nconsidered duplicates: %d\n", res.DuplicateCandidates)
	fmt.Printf("true_positives: %d\n", res.TruePositives)
	if c.UseUniqueID {
		fmt.Printf("precision: %.4f\n", res.Precision())
	}
	return nil
}

func writePairs(path string, store *geo.Store, pairs []dedup.Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create pairs file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, p := range pairs {
		a, b := store.At(p.A), store.At(p.B)
		err := w.Write([]string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(b.ID, 10),
			strconv.FormatFloat(geo.Distance(a, b), 'g', -1, 64),
			a.Label,
			b.Label,
		})
		if err != nil {
			return errors.Wrap(err, "write pairs")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "write pairs")
	}
	return errors.Wrap(f.Close(), "close pairs file")
}

func (c *generateCommand) Execute(_ []string) error {
	pts, err := synth.Generate(synth.Options{
		Width:          c.Width,
		Height:         c.Height,
		Points:         c.Points,
		DupProbability: c.DupProbability,
		Seed:           c.Seed,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.Out != "-" {
		f, err := os.Create(c.Out)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		out = f
	}
	if err := synth.WriteCSV(out, pts); err != nil {
		return err
	}
	logger.Infof("generated %s points, %s duplicates",
		humanize.Comma(int64(c.Points)), humanize.Comma(int64(len(pts)-c.Points)))
	return nil
}
