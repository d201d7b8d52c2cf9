/*
 * interfaces.go, part of gorder
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

import "gonum.org/v1/gonum/mat"

// DirectorTraj is the interface for any source of per-frame molecular
// directors. Each frame is an N×3 matrix, one row per molecule. The library
// itself never extracts directors from atomic coordinates; whatever does
// (a trajectory post-processor, a converter from another analysis tool)
// only needs to implement this interface.
type DirectorTraj interface {

	//Is the source ready to be read?
	Readable() bool

	//Next reads the next frame into output, or discards it if output is nil.
	//If the optional time slice is given and the source carries per-frame
	//simulation times, the frame's time is put in time[0][0].
	Next(output *mat.Dense, time ...[]float64) error

	//Returns the number of molecules (directors) per frame.
	Len() int
}

// ConcDirectorTraj is a director source that can be read concurrently.
type ConcDirectorTraj interface {

	//Is the source ready to be read?
	Readable() bool

	/*NextConc reads as many frames as elements the given slice has. It
	returns a slice of channels, each of which will transmit one of the
	frames read, in order, plus a slice with the simulation time for each of
	those frames (zero-valued if the source carries no times).*/
	NextConc(frames []*mat.Dense) ([]chan *mat.Dense, []float64, error)

	//Returns the number of molecules (directors) per frame.
	Len() int
}

//Errors

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
// Each call returns the current "decoration" slice; if passed an empty
// string it just returns the current value without adding to it.
type Error interface {
	Error() string
	Decorate(string) []string
}

// FrameError is the interface for per-frame computation failures. The frame
// index is attached by the batch layer, which is the only place where it is
// known; Frame returns -1 if no index has been attached yet.
type FrameError interface {
	Error
	Frame() int
	setFrame(int)
}

// TrajError is the interface for errors in director sources.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError is implemented by the harmless error returned on normal
// trajectory termination, so it can be filtered in a typeswitch that looks
// for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing
}
