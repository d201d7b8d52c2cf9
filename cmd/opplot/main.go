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

//opplot plots time-series files, either the CSVs written by the gorder
//command or GROMACS xvg files, one curve per input file, against the first
//column of each.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/rmera/gorder/opplot"
	"github.com/rmera/gorder/xvg"
)

func main() {
	out := flag.String("o", "plot.png", "output image (format follows the extension)")
	col := flag.Int("col", 1, "column to plot against column 0")
	title := flag.String("title", "", "plot title")
	xlabel := flag.String("xlabel", "time", "x axis label")
	ylabel := flag.String("ylabel", "", "y axis label")
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("No input files given")
	}
	var series []opplot.Series
	for _, name := range flag.Args() {
		T, err := xvg.Read(name)
		if err != nil {
			log.Fatal(err.Error())
		}
		if len(T.Data[0]) <= *col {
			log.Fatalf("%s only has %d columns", name, len(T.Data[0]))
		}
		label := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		if T.Labels != nil && len(T.Labels) > *col {
			label = fmt.Sprintf("%s (%s)", label, T.Labels[*col])
		}
		series = append(series, opplot.Series{Label: label, X: T.Column(0), Y: T.Column(*col)})
	}
	if err := opplot.File(*out, *title, *xlabel, *ylabel, series...); err != nil {
		log.Fatal(err.Error())
	}
}
