/*
 * doc.go, part of gorder
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

/*Package order computes nematic liquid-crystal order parameters from the
molecular directors of a molecular dynamics trajectory.

For each frame, given one orientation unit vector ("director") per molecule,
the library:

    Builds the symmetric, traceless alignment (Q) tensor.

    Diagonalizes Q with a symmetric eigensolver, recovering the frame's
	global director (eigenvector of the largest eigenvalue) and the full
	eigenvalue spectrum.

    Averages the first four Legendre polynomials of the cosine between
	each molecular director and the global director, yielding the order
	parameters <P1> to <P4>. <P2> is the classical nematic scalar order
	parameter.

Frames are independent, so trajectories are processed concurrently, one
goroutine per frame, with the results collected in frame order.

Note that the nematic director is an axis rather than a polar vector: the
eigen-decomposition determines it only up to sign. <P2> and <P4> are even in
the cosine and thus insensitive to this, while the sign of <P1> and <P3> is
not physically meaningful on its own. If polar order matters, a polarization
observable (based on dipole moments, not on directors) is needed; that is
outside the scope of this library.

The library does not read simulation trajectories or extract directors from
atomic coordinates. Directors are fed to it either as gonum matrices (one
N×3 matrix per frame) or through the DirectorTraj/ConcDirectorTraj
interfaces, for which the traj/dtf subpackage provides a compressed on-disk
format.
*/
package order
