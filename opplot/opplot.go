/*
 * opplot.go, part of gorder
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

//Package opplot draws time series of order parameters (or any other
//per-frame scalar) to image files, using the gonum plot library.
package opplot

import (
	"fmt"

	order "github.com/rmera/gorder"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one labeled curve: Y against the shared or per-series times.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

// File draws every given series into a single plot and saves it to the
// named file; the format follows the file extension (png, pdf, svg...
// whatever the gonum plot library supports). Empty labels are allowed, and
// leave the series out of the legend.
func File(name, title, xlabel, ylabel string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("opplot: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	for i, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("opplot: series %s has %d times but %d values", s.Label, len(s.X), len(s.Y))
		}
		xys := make(plotter.XYs, len(s.X))
		for j := range s.X {
			xys[j].X = s.X[j]
			xys[j].Y = s.Y[j]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}

// OrderParams plots the requested order parameters (each l from 1 to 4)
// of a computed series against simulation time, one curve each.
func OrderParams(name string, S *order.Series, ls ...int) error {
	if len(ls) == 0 {
		ls = []int{2} //P2 is what one usually wants
	}
	times := S.Times()
	series := make([]Series, len(ls))
	for i, l := range ls {
		series[i] = Series{Label: fmt.Sprintf("<P%d>", l), X: times, Y: S.Param(l)}
	}
	return File(name, "Order parameters", "time", "<Pn>", series...)
}
