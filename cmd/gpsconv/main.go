package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ChristopherRabotin/geod"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/golang/geo/r3"
	"github.com/spf13/viper"
)

const defaultScenario = "~~unset~~"

var (
	scenario string
	inPath   string
	outPath  string
	debug    = flag.Bool("debug", false, "verbose debug")
)

func init() {
	flag.StringVar(&scenario, "config", defaultScenario, "conversion TOML file")
	flag.StringVar(&inPath, "in", "-", "input CSV file (- for stdin)")
	flag.StringVar(&outPath, "out", "-", "output CSV file (- for stdout)")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no configuration provided")
	}

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	if *debug {
		klog = level.NewFilter(klog, level.AllowDebug())
	} else {
		klog = level.NewFilter(klog, level.AllowInfo())
	}
	klog = kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)

	v := viper.New()
	v.SetConfigFile(scenario)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("%s: Error %s", scenario, err)
	}
	conv, err := readConversion(v)
	if err != nil {
		log.Fatalf("%s: %s", scenario, err)
	}
	level.Info(klog).Log("msg", "loaded configuration", "conversion", conv)

	var in io.Reader = os.Stdin
	if inPath != "-" {
		f, ferr := os.Open(inPath)
		if ferr != nil {
			log.Fatalf("could not open input: %s", ferr)
		}
		defer f.Close()
		in = f
	}
	pts, err := readPoints(in)
	if err != nil {
		log.Fatalf("could not read `%s`: %s", inPath, err)
	}

	opts := []geod.Option{geod.WithLogger(klog)}
	if conv.workers > 0 {
		opts = append(opts, geod.WithWorkers(conv.workers))
	}
	tf := geod.NewGPSTransform(conv.ellipsoid, opts...)
	out, extra, err := convert(tf, conv, pts)
	if err != nil {
		log.Fatalf("conversion failed: %s", err)
	}

	var w io.Writer = os.Stdout
	if outPath != "-" {
		f, ferr := os.Create(outPath)
		if ferr != nil {
			log.Fatalf("could not create output: %s", ferr)
		}
		defer f.Close()
		w = f
	}
	if err := writePoints(w, out, extra...); err != nil {
		log.Fatalf("could not write output: %s", err)
	}
	level.Info(klog).Log("msg", "converted", "points", len(out), "extra", strings.Join(extra, ","))
}

// convert runs the configured conversion. The extra columns are appended to every
// output row (the zone for UTM projections). ecef2aer outputs the azimuth, elevation
// and range seen from the origin, placed at its altitude.
func convert(tf *geod.GPSTransform, conv conversion, pts []r3.Vector) ([]r3.Vector, []string, error) {
	switch conv.mode {
	case modeEll2ECEF:
		out, err := tf.EllipsoidToECEF(pts)
		return out, nil, err
	case modeECEF2Ell:
		return tf.ECEFToEllipsoid(pts), nil, nil
	case modeECEF2ENU:
		out, err := tf.ECEFToENU(pts, conv.lat0, conv.lon0)
		return out, nil, err
	case modeEll2ENU:
		out, err := tf.EllipsoidToENU(pts, conv.lat0, conv.lon0)
		return out, nil, err
	case modeENU2ECEF:
		out, err := tf.ENUToECEF(pts, conv.lat0, conv.lon0, conv.alt0)
		return out, nil, err
	case modeENU2Ell:
		out, err := tf.ENUToEllipsoid(pts, conv.lat0, conv.lon0, conv.alt0)
		return out, nil, err
	case modeEll2UTM:
		out, zone, err := tf.EllipsoidToUTM(pts)
		return out, []string{strconv.Itoa(zone)}, err
	case modeUTM2Ell:
		out, err := tf.UTMToEllipsoid(pts, conv.zone, conv.north)
		return out, nil, err
	case modeECEF2AER:
		station, err := geod.NewStation(tf.Ellipsoid(), "origin", conv.lat0, conv.lon0, conv.alt0, 0, 0)
		if err != nil {
			return nil, nil, err
		}
		out := make([]r3.Vector, len(pts))
		for i, xyz := range pts {
			ρ, el, az := station.RangeElAz(xyz)
			out[i] = r3.Vector{X: az, Y: el, Z: ρ}
		}
		return out, nil, nil
	default:
		log.Panicf("unsupported mode `%s`", conv.mode)
		return nil, nil, nil
	}
}
