/*
 * qtensor.go, part of gorder
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
	"gonum.org/v1/gonum/mat"
)

// QTensor builds the alignment tensor for one frame from its unit
// directors v (N×3, one molecule per row):
//
//	Q_ab = (1/2N) Σ_i (3 v_ia v_ib − δ_ab)
//
// Q is symmetric by construction. Its trace vanishes because, for each unit
// director, 3(x²+y²+z²)−3 = 0; the per-diagonal −1 subtraction keeps that
// cancellation exact, so the trace only carries rounding noise, not an
// approximation. Directors must be normalized beforehand (see Normalize);
// QTensor does not check for it.
// A frame with zero molecules yields an EmptyFrameError. A single-molecule
// frame is fine, and gives that molecule's full alignment.
func QTensor(v *mat.Dense) (*mat.SymDense, error) {
	n, c := v.Dims()
	if c != 3 {
		return nil, &ShapeMismatchError{frame: -1, rows: n, cols: c, wantrows: n}
	}
	if n == 0 {
		return nil, newEmptyFrameError()
	}
	var xx, xy, xz, yy, yz, zz float64
	for i := 0; i < n; i++ {
		x := v.At(i, 0)
		y := v.At(i, 1)
		z := v.At(i, 2)
		xx += 3*x*x - 1
		xy += 3 * x * y
		xz += 3 * x * z
		yy += 3*y*y - 1
		yz += 3 * y * z
		zz += 3*z*z - 1
	}
	f := 1.0 / (2.0 * float64(n))
	return mat.NewSymDense(3, []float64{
		xx * f, xy * f, xz * f,
		xy * f, yy * f, yz * f,
		xz * f, yz * f, zz * f,
	}), nil
}
