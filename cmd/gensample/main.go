// Command gensample writes a deterministic sample dataset for the viewer: an
// attribute CSV, ARTCC boundary GeoJSON, an airport point layer and two
// background overlays. Boundaries are a coarse tiling of the conterminous US,
// not the real FAA polygons.
//
// Usage:
//
//	go run ./cmd/gensample -out data -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	geojson "github.com/paulmach/go.geojson"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
)

type center struct {
	ident string
	name  string
	icao  string
}

// grid lists the centers row by row, north to south and west to east.
var grid = [][]center{
	{{"ZSE", "Seattle", "KSEA"}, {"ZLC", "Salt Lake City", "KSLC"}, {"ZMP", "Minneapolis", "KMSP"}, {"ZOB", "Cleveland", "KCLE"}, {"ZBW", "Boston", "KBOS"}},
	{{"ZOA", "Oakland", "KSFO"}, {"ZDV", "Denver", "KDEN"}, {"ZKC", "Kansas City", "KMCI"}, {"ZAU", "Chicago", "KORD"}, {"ZNY", "New York", "KJFK"}},
	{{"ZLA", "Los Angeles", "KLAX"}, {"ZAB", "Albuquerque", "KABQ"}, {"ZFW", "Fort Worth", "KDFW"}, {"ZID", "Indianapolis", "KIND"}, {"ZDC", "Washington", "KIAD"}},
	{{"ZHU", "Houston", "KIAH"}, {"ZME", "Memphis", "KMEM"}, {"ZTL", "Atlanta", "KATL"}, {"ZJX", "Jacksonville", "KJAX"}, {"ZMA", "Miami", "KMIA"}},
}

const (
	west, east   = -125.0, -67.0
	south, north = 25.0, 49.0
)

// attrRange bounds the generated values of one attribute.
type attrRange struct {
	lo, hi float64
}

var ranges = map[string]attrRange{
	"Million Passengers Departed":          {5, 50},
	"Million Pounds of Cargo":              {0.5, 8},
	"Miles (avg) to Landing per Passenger": {400, 1200},
	"% of Flights Delayed":                 {10, 30},
	"% of Flights Cancelled":               {0.5, 4},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	if err := writeAttributes(filepath.Join(*out, "ARTCCData.csv"), rng); err != nil {
		return fmt.Errorf("writing attributes: %w", err)
	}
	regions, points := buildFeatures()
	files := []struct {
		name string
		fc   *geojson.FeatureCollection
	}{
		{"ARTCCs.geojson", regions},
		{"points.geojson", points},
		{"CONUS.geojson", outline(west-1, south-1, east+1, north+1)},
		{"BackgroundCountries.geojson", countries()},
	}
	for _, f := range files {
		path := filepath.Join(*out, f.name)
		if err := writeGeoJSON(path, f.fc); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("wrote %s: %d features", path, len(f.fc.Features))
	}
	return nil
}

func writeAttributes(path string, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"IDENT", "NAME", "ICAO_ID"}, domain.DefaultAttributes...)
	if err := w.Write(header); err != nil {
		return err
	}
	rows := 0
	for _, row := range grid {
		for _, c := range row {
			record := []string{c.ident, c.name, c.icao}
			for _, attr := range domain.DefaultAttributes {
				r := ranges[attr]
				v := r.lo + rng.Float64()*(r.hi-r.lo)
				record = append(record, strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64))
			}
			// One missing cell so the no-data class shows up.
			if c.ident == "ZMA" {
				record[len(record)-1] = ""
			}
			if err := w.Write(record); err != nil {
				return err
			}
			rows++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	log.Printf("wrote %s: %d rows", path, rows)
	return nil
}

// buildFeatures tiles the bounding box with one rectangle per center and puts
// each center's airport at the middle of its tile.
func buildFeatures() (*geojson.FeatureCollection, *geojson.FeatureCollection) {
	regions := geojson.NewFeatureCollection()
	points := geojson.NewFeatureCollection()
	rowH := (north - south) / float64(len(grid))
	for i, row := range grid {
		colW := (east - west) / float64(len(row))
		top := north - float64(i)*rowH
		for j, c := range row {
			left := west + float64(j)*colW
			poly := geojson.NewPolygonFeature(rectangle(left, top-rowH, left+colW, top))
			poly.SetProperty("IDENT", c.ident)
			poly.SetProperty("NAME", c.name+" Center")
			regions.AddFeature(poly)

			pt := geojson.NewPointFeature([]float64{left + colW/2, top - rowH/2})
			pt.SetProperty("cityName", c.name)
			pt.SetProperty("ICAO_ID", c.icao)
			points.AddFeature(pt)
		}
	}
	return regions, points
}

func rectangle(w, s, e, n float64) [][][]float64 {
	return [][][]float64{{{w, s}, {e, s}, {e, n}, {w, n}, {w, s}}}
}

func outline(w, s, e, n float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewLineStringFeature(rectangle(w, s, e, n)[0]))
	return fc
}

func countries() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	canada := geojson.NewPolygonFeature(rectangle(-140, 50, -52, 70))
	canada.SetProperty("name", "Canada")
	mexico := geojson.NewPolygonFeature(rectangle(-118, 14, -86, 23))
	mexico.SetProperty("name", "Mexico")
	fc.AddFeature(canada)
	fc.AddFeature(mexico)
	return fc
}

func writeGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
