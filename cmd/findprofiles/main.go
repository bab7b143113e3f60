// Command-line tool for searching L2 DDR1 records over a date range and
// listing the retrieval profiles within latitude bounds.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mars-clim/gomcs/pkg/l2"
	"github.com/mars-clim/gomcs/pkg/loader"
	"github.com/mars-clim/gomcs/pkg/mcs"
	"github.com/mars-clim/gomcs/pkg/paths"
	"github.com/mars-clim/gomcs/pkg/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "findprofiles",
		Usage: "search L2 DDR1 records and find profiles within bounds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "path to the MCS data directory (defaults to loading from the PDS archive)",
			},
			&cli.StringFlag{
				Name:     "start",
				Usage:    "start of the date range, e.g. 2007-01-01",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end",
				Usage:    "end of the date range (exclusive)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "min-lat",
				Value: -90,
				Usage: "minimum profile latitude",
			},
			&cli.Float64Flag{
				Name:  "max-lat",
				Value: 90,
				Usage: "maximum profile latitude",
			},
		},
		Action: findProfiles,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date %q", s)
}

func findProfiles(c *cli.Context) error {
	start, err := parseDate(c.String("start"))
	if err != nil {
		return err
	}
	end, err := parseDate(c.String("end"))
	if err != nil {
		return err
	}

	cfg := paths.Config{Archive: true}
	if dir := c.String("data-dir"); dir != "" {
		cfg = paths.Config{DataDir: dir}
	}
	l, err := loader.NewL2Loader(cfg)
	if err != nil {
		return err
	}

	ddr1, err := l.LoadDateRange(start, end, mcs.DDR1, l2.Options{AddCols: []string{"dt"}})
	if err != nil {
		return err
	}

	minLat, maxLat := c.Float64("min-lat"), c.Float64("max-lat")
	ddr1, err = pipeline.SelectRange(ddr1, "Profile_lat", minLat, maxLat)
	if err != nil {
		return err
	}

	ids := ddr1.Col(l2.ColProfileID)
	dt := ddr1.Col("dt")
	lat := ddr1.Col("Profile_lat")
	lon := ddr1.Col("Profile_lon")
	ls := ddr1.Col("L_s")
	fmt.Printf("%-17s %-20s %9s %9s %7s\n", "profile", "time", "lat", "lon", "L_s")
	for i := 0; i < ddr1.NumRows(); i++ {
		fmt.Printf("%-17s %-20s %9.3f %9.3f %7.2f\n",
			ids.Str(i), dt.Time(i).Format(time.RFC3339), lat.Float(i), lon.Float(i), ls.Float(i))
	}
	return nil
}
