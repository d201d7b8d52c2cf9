/*
 * errors.go, part of gorder
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

import "fmt"

//errDecorate is a helper that asserts that the error implements Error and
//decorates it with the caller's name before returning it. Using it with an
//error from outside this library will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//frameError carries the parts shared by all per-frame errors: the frame
//index (-1 until the batch layer attaches it, as the per-frame functions
//don't know it) and the decoration stack.
type frameError struct {
	frame int
	deco  []string
}

func (err *frameError) Frame() int { return err.frame }

func (err *frameError) setFrame(i int) { err.frame = i }

//Decorate adds new information to the error
func (err *frameError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// EmptyFrameError signals a frame with zero molecules. The Q tensor of an
// empty frame is undefined, so the frame is skipped.
type EmptyFrameError struct {
	frameError
}

func newEmptyFrameError() *EmptyFrameError {
	return &EmptyFrameError{frameError{frame: -1}}
}

func (err *EmptyFrameError) Error() string {
	if err.frame >= 0 {
		return fmt.Sprintf("frame %d contains no directors", err.frame)
	}
	return "frame contains no directors"
}

// DegenerateDirectorError signals a zero-norm director, which cannot be
// normalized. Molecule returns the offending row. The frame is skipped
// rather than letting a division by zero propagate NaNs downstream.
type DegenerateDirectorError struct {
	frameError
	molecule int
}

func newDegenerateDirectorError(molecule int) *DegenerateDirectorError {
	return &DegenerateDirectorError{frameError{frame: -1}, molecule}
}

func (err *DegenerateDirectorError) Molecule() int { return err.molecule }

func (err *DegenerateDirectorError) Error() string {
	if err.frame >= 0 {
		return fmt.Sprintf("frame %d: director for molecule %d has zero norm", err.frame, err.molecule)
	}
	return fmt.Sprintf("director for molecule %d has zero norm", err.molecule)
}

// EigenDecompositionError signals that the symmetric eigensolver failed to
// converge on a frame's Q tensor. The frame is skipped.
type EigenDecompositionError struct {
	frameError
}

func newEigenDecompositionError() *EigenDecompositionError {
	return &EigenDecompositionError{frameError{frame: -1}}
}

func (err *EigenDecompositionError) Error() string {
	if err.frame >= 0 {
		return fmt.Sprintf("frame %d: eigendecomposition of the alignment tensor did not converge", err.frame)
	}
	return "eigendecomposition of the alignment tensor did not converge"
}

// EmptyTrajectoryError signals a batch or trajectory with no frames at all.
// Like a shape mismatch, this is a caller contract violation, rejected at
// the batch boundary.
type EmptyTrajectoryError struct {
	deco []string
}

func (err *EmptyTrajectoryError) Error() string {
	return "trajectory contains no frames"
}

//Decorate adds new information to the error
func (err *EmptyTrajectoryError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// ShapeMismatchError signals a caller contract violation: the frames given
// to a batch call don't all have the same dimensions, or aren't N×3. It is
// detected before any per-frame work starts, and aborts the whole batch.
type ShapeMismatchError struct {
	frame      int
	rows, cols int
	wantrows   int
	deco       []string
}

func (err *ShapeMismatchError) Frame() int { return err.frame }

func (err *ShapeMismatchError) Error() string {
	if err.cols != 3 {
		return fmt.Sprintf("frame %d: directors must be N×3, got %d×%d", err.frame, err.rows, err.cols)
	}
	return fmt.Sprintf("frame %d has %d directors, but the batch started with %d", err.frame, err.rows, err.wantrows)
}

//Decorate adds new information to the error
func (err *ShapeMismatchError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
