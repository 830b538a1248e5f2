// Command genmock writes a synthetic Met Office station file with a
// seasonal temperature cycle, realistic gaps and markers. Its output is
// accepted by the loader and is handy for exercising the viewer on long
// series without the real download.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out testdata/synthetic.txt \
//	  -from 1948 -to 2017 \
//	  -seed 7 -provisional 2
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// Seasonal model for a temperate lowland station.
const (
	meanTMax     = 15.2
	meanTMin     = 6.8
	amplitudeMax = 7.6
	amplitudeMin = 5.6
	warmingPerYr = 0.02 // degC per year
)

type options struct {
	out         string
	from, to    int
	seed        uint64
	provisional int
	sunFrom     int
	siteClosed  bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.out, "out", "", "output path for the station file")
	flag.IntVar(&opts.from, "from", 1948, "first year")
	flag.IntVar(&opts.to, "to", 2017, "last year")
	flag.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flag.IntVar(&opts.provisional, "provisional", 2, "trailing months marked Provisional")
	flag.IntVar(&opts.sunFrom, "sun-from", 1957, "first year with sunshine data")
	flag.BoolVar(&opts.siteClosed, "site-closed", false, "append a Site Closed marker")
	flag.Parse()

	if opts.out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if opts.to < opts.from {
		return fmt.Errorf("-to %d is before -from %d", opts.to, opts.from)
	}

	obs := generate(opts)
	if err := write(opts.out, obs, opts.siteClosed); err != nil {
		return fmt.Errorf("writing station file: %w", err)
	}
	log.Printf("wrote %d months (%d-%d) to %s", len(obs), opts.from, opts.to, opts.out)

	printStats(obs)
	return nil
}

func generate(opts options) []domain.Observation {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	nan := math.NaN()

	obs := make([]domain.Observation, 0, (opts.to-opts.from+1)*12)
	for year := opts.from; year <= opts.to; year++ {
		trend := float64(year-opts.from) * warmingPerYr
		for month := 1; month <= 12; month++ {
			// coldest mid-January, warmest mid-July
			season := -math.Cos(2 * math.Pi * (float64(month) - 1) / 12)
			tmax := meanTMax + trend + amplitudeMax*season + rng.NormFloat64()*1.2
			tmin := meanTMin + trend + amplitudeMin*season + rng.NormFloat64()*1.0

			frost := math.Max(0, math.Round(8-2.2*tmin+rng.NormFloat64()))
			rain := math.Max(2, 50+rng.NormFloat64()*22)
			sun := math.Max(20, 125+95*season+rng.NormFloat64()*20)

			o := domain.Observation{
				Year:     year,
				Month:    month,
				TMax:     round1(tmax),
				TMin:     round1(tmin),
				AirFrost: frost,
				Rain:     round1(rain),
				Sun:      round1(sun),
			}
			if year == opts.from {
				o.AirFrost = nan
			}
			if year < opts.sunFrom {
				o.Sun = nan
			}
			if rng.IntN(200) == 0 {
				o.Rain = nan
			}
			if rng.IntN(150) == 0 {
				o.Estimated = true
			}
			obs = append(obs, o)
		}
	}
	for i := max(0, len(obs)-opts.provisional); i < len(obs); i++ {
		obs[i].Provisional = true
	}
	return obs
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func write(path string, obs []domain.Observation, siteClosed bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := domain.StationHeader{
		Name:     "Heathrow (London Airport)",
		Location: "Location 507800E 176700N, Lat 51.479 Lon -0.449, 25 metres amsl",
	}
	for _, line := range header.Lines() {
		fmt.Fprintln(w, line)
	}
	for _, o := range obs {
		fmt.Fprintln(w, domain.FormatObservation(o))
	}
	if siteClosed {
		fmt.Fprintln(w, "Site Closed")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func printStats(obs []domain.Observation) {
	var missingSun, missingRain, missingFrost, estimated, provisional int
	for _, o := range obs {
		if math.IsNaN(o.Sun) {
			missingSun++
		}
		if math.IsNaN(o.Rain) {
			missingRain++
		}
		if math.IsNaN(o.AirFrost) {
			missingFrost++
		}
		if o.Estimated {
			estimated++
		}
		if o.Provisional {
			provisional++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Rows: %d\n", len(obs))
	fmt.Printf("Missing: sun=%d, rain=%d, af=%d\n", missingSun, missingRain, missingFrost)
	fmt.Printf("Estimated: %d, Provisional: %d\n", estimated, provisional)
}
