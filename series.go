/*
 * series.go, part of gorder
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

package order

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Skipped records one frame that could not be computed, and why. Skipped
// frames leave a gap in the series: nothing is interpolated in their place.
type Skipped struct {
	Frame  int
	Reason error
}

// Series is the outcome of processing a trajectory: the per-frame results,
// in frame order, plus the list of frames that were skipped because their
// computation failed.
type Series struct {
	Data    []*Result
	Skipped []Skipped
}

// Times returns the simulation times of the computed frames, in order.
func (S *Series) Times() []float64 {
	ret := make([]float64, len(S.Data))
	for i, v := range S.Data {
		ret[i] = v.Time
	}
	return ret
}

// Param returns the series for the lth order parameter (l from 1 to 4),
// one value per computed frame, in frame order. It panics if l is out of
// range.
func (S *Series) Param(l int) []float64 {
	ret := make([]float64, len(S.Data))
	for i, v := range S.Data {
		switch l {
		case 1:
			ret[i] = v.P1
		case 2:
			ret[i] = v.P2
		case 3:
			ret[i] = v.P3
		case 4:
			ret[i] = v.P4
		default:
			panic(fmt.Sprintf("gorder/Series.Param: no P%d order parameter", l))
		}
	}
	return ret
}

// MeanStd returns the mean and standard deviation of the lth order
// parameter over the computed frames.
func (S *Series) MeanStd(l int) (mean, std float64) {
	p := S.Param(l)
	return stat.Mean(p, nil), stat.StdDev(p, nil)
}

// Degenerate returns the indices (into Data, not trajectory frame indices)
// of the computed frames whose director was flagged as not well-defined.
func (S *Series) Degenerate() []int {
	var ret []int
	for i, v := range S.Data {
		if v.Degenerate {
			ret = append(ret, i)
		}
	}
	return ret
}

// Summary returns a human-readable report: mean ± standard deviation for
// each order parameter, the number of frames computed, and, one per line,
// every skipped frame with the reason it was skipped. A series where every
// frame failed says so, instead of reporting NaN statistics.
func (S *Series) Summary() string {
	var b strings.Builder
	if len(S.Data) == 0 {
		fmt.Fprintf(&b, "no frames computed, %d skipped\n", len(S.Skipped))
		for _, v := range S.Skipped {
			fmt.Fprintf(&b, "skipped frame %d: %s\n", v.Frame, v.Reason.Error())
		}
		return b.String()
	}
	for l := 1; l <= 4; l++ {
		m, std := S.MeanStd(l)
		fmt.Fprintf(&b, "<P%d> = %.3f +/- %.3f\n", l, m, std)
	}
	fmt.Fprintf(&b, "%d frames computed, %d skipped", len(S.Data), len(S.Skipped))
	if deg := S.Degenerate(); len(deg) > 0 {
		fmt.Fprintf(&b, ", %d with a nearly degenerate director", len(deg))
	}
	b.WriteString("\n")
	for _, v := range S.Skipped {
		fmt.Fprintf(&b, "skipped frame %d: %s\n", v.Frame, v.Reason.Error())
	}
	return b.String()
}
