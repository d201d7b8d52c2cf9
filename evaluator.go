/*
 * evaluator.go, part of gorder
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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result holds everything computed for one frame. Evals carries the full
// spectrum of the alignment tensor in ascending order, so consumers can
// judge for themselves how well-defined the director is; Degenerate is set
// when the gap between the two largest eigenvalues falls below the
// threshold in Options (biaxial or disordered frames, where the "largest
// eigenvalue" selection is not numerically meaningful).
type Result struct {
	Frame      int
	Time       float64
	P1         float64
	P2         float64
	P3         float64
	P4         float64
	Director   []float64 //unit global director, 3 components
	Evals      []float64 //eigenvalues of Q, ascending. They add up to zero.
	Degenerate bool
}

// GlobalDirector diagonalizes the alignment tensor Q and returns its
// eigenvalues in ascending order together with the unit eigenvector of the
// algebraically largest one, the frame's global director.
// Q being a SymDense, gonum factorizes it with the symmetric-specific
// routine, which guarantees real eigenvalues and orthogonal eigenvectors;
// if it fails to converge, an EigenDecompositionError is returned.
// The largest eigenvalue is picked with a strict-greater scan, so exact
// ties deterministically resolve to the lowest qualifying index. The
// returned eigenvector is re-normalized rather than trusted to be unit.
// Its sign is arbitrary: the nematic director is an axis, not a polar
// vector, and no disambiguation is attempted here (see the package doc).
func GlobalDirector(Q *mat.SymDense) (evals, d []float64, err error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(Q, true); !ok {
		return nil, nil, newEigenDecompositionError()
	}
	evals = eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	max := 0
	for i := 1; i < len(evals); i++ {
		if evals[i] > evals[max] {
			max = i
		}
	}
	d = []float64{vecs.At(0, max), vecs.At(1, max), vecs.At(2, max)}
	norm := floats.Norm(d, 2)
	if norm == 0 {
		return evals, nil, newEigenDecompositionError()
	}
	floats.Scale(1/norm, d)
	return evals, d, nil
}

// Params returns the frame-averaged order parameters <P1> to <P4>: the
// means, over all molecules, of the first four Legendre polynomials of
// cosθ_i, the cosine between the ith unit director (a row of v) and the
// unit global director d.
func Params(v *mat.Dense, d []float64) (P1, P2, P3, P4 float64) {
	n, _ := v.Dims()
	if n == 0 {
		return 0, 0, 0, 0
	}
	for i := 0; i < n; i++ {
		cos := v.At(i, 0)*d[0] + v.At(i, 1)*d[1] + v.At(i, 2)*d[2]
		c2 := cos * cos
		P1 += cos
		P2 += (3*c2 - 1) / 2
		P3 += (5*c2*cos - 3*cos) / 2
		P4 += (35*c2*c2 - 30*c2 + 3) / 8
	}
	fn := float64(n)
	return P1 / fn, P2 / fn, P3 / fn, P4 / fn
}

// Frame runs the whole pipeline on the raw directors of a single frame:
// normalization (in place!), alignment tensor, diagonalization and Legendre
// averaging. The returned Result has no frame index or time attached
// (Frame is -1); the batch functions fill those in.
func Frame(v *mat.Dense, options ...*Options) (*Result, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if err := Normalize(v); err != nil {
		return nil, errDecorate(err, "Frame")
	}
	Q, err := QTensor(v)
	if err != nil {
		return nil, errDecorate(err, "Frame")
	}
	evals, d, err := GlobalDirector(Q)
	if err != nil {
		return nil, errDecorate(err, "Frame")
	}
	r := &Result{Frame: -1, Director: d, Evals: evals}
	r.P1, r.P2, r.P3, r.P4 = Params(v, d)
	r.Degenerate = evals[2]-evals[1] < o.gap
	return r, nil
}
