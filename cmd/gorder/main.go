/*
 * main.go, part of gorder
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//gorder computes nematic order parameters from a director trajectory in
//the dtf format, writing one CSV time series per order parameter plus,
//optionally, a plot, and printing a summary including any skipped frames.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gcfg.v1"

	order "github.com/rmera/gorder"
	"github.com/rmera/gorder/opplot"
	"github.com/rmera/gorder/traj/dtf"
)

//The same settings can come from a gcfg file, for batch users who keep
//their analysis parameters alongside the simulation, e.g.:
//
//	[order]
//	traj = prod_directors.dtf
//	out = prod
//	cpus = 8
//	plot = true
//
//Explicitly given flags override the file.
type config struct {
	Order struct {
		Traj     string
		Out      string
		Cpus     int
		Skip     int
		Gap      float64
		FailFast bool
		Plot     bool
	}
}

func main() {
	var conf config
	traj := flag.String("traj", "", "input director trajectory (dtf format)")
	out := flag.String("o", "output", "prefix for the output files")
	cpus := flag.Int("cpus", 0, "goroutines used to process frames (0 takes all CPUs)")
	skip := flag.Int("skip", 1, "process every nth frame only")
	gap := flag.Float64("gap", order.DefaultDegeneracyGap, "eigenvalue gap under which a frame's director is flagged as degenerate")
	failfast := flag.Bool("failfast", false, "abort on the first frame whose computation fails, instead of skipping it")
	plot := flag.Bool("plot", false, "also write a <P2> vs time plot, <prefix>_P2.png")
	conffile := flag.String("conf", "", "gcfg configuration file; explicit flags override it")
	flag.Parse()

	if *conffile != "" {
		if err := gcfg.ReadFileInto(&conf, *conffile); err != nil {
			log.Fatal(err.Error())
		}
		c := &conf.Order
		given := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { given[f.Name] = true })
		if !given["traj"] && c.Traj != "" {
			*traj = c.Traj
		}
		if !given["o"] && c.Out != "" {
			*out = c.Out
		}
		if !given["cpus"] && c.Cpus > 0 {
			*cpus = c.Cpus
		}
		if !given["skip"] && c.Skip > 0 {
			*skip = c.Skip
		}
		if !given["gap"] && c.Gap > 0 {
			*gap = c.Gap
		}
		if !given["failfast"] {
			*failfast = c.FailFast
		}
		if !given["plot"] {
			*plot = c.Plot
		}
	}
	if *traj == "" {
		log.Fatal("No input trajectory given (-traj or the traj key in -conf)")
	}

	r, _, err := dtf.New(*traj)
	if err != nil {
		log.Fatal(err.Error())
	}
	o := order.DefaultOptions()
	o.Cpus(*cpus)
	o.Skip(*skip)
	o.DegeneracyGap(*gap)
	o.FailFast(*failfast)
	S, err := order.ConcTrajectory(r, o)
	if err != nil {
		log.Fatal(err.Error())
	}
	for l := 1; l <= 4; l++ {
		name := fmt.Sprintf("%s_P%d.csv", *out, l)
		if err := writeSeries(name, fmt.Sprintf("P%d", l), S.Times(), S.Param(l)); err != nil {
			log.Fatal(err.Error())
		}
	}
	if *plot {
		if err := opplot.OrderParams(*out+"_P2.png", S, 2); err != nil {
			log.Fatal(err.Error())
		}
	}
	fmt.Print(S.Summary())
}

//writeSeries writes a {time,value} CSV with a header, one row per frame.
func writeSeries(name, label string, times, values []float64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", label}); err != nil {
		return err
	}
	for i := range times {
		rec := []string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(values[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
