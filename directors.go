/*
 * directors.go, part of gorder
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Normalize scales, in place, every row of v (one molecular director per
// row) to unit norm. A zero-norm row can't be normalized, and yields a
// DegenerateDirectorError carrying the offending row index.
func Normalize(v *mat.Dense) error {
	n, c := v.Dims()
	if c != 3 {
		return &ShapeMismatchError{frame: -1, rows: n, cols: c, wantrows: n}
	}
	for i := 0; i < n; i++ {
		x := v.At(i, 0)
		y := v.At(i, 1)
		z := v.At(i, 2)
		norm := math.Sqrt(x*x + y*y + z*z)
		if norm == 0 {
			return newDegenerateDirectorError(i)
		}
		v.Set(i, 0, x/norm)
		v.Set(i, 1, y/norm)
		v.Set(i, 2, z/norm)
	}
	return nil
}
