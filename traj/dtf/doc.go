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

//Package dtf implements the director trajectory format, a compressed,
//line-oriented on-disk format for the per-frame molecular directors that
//feed the order-parameter pipeline. The format aims to be trivial to write
//from whatever tool extracts the directors (an MDAnalysis or mdtraj script,
//a custom trajectory post-processor) in any language, while staying
//reasonably small on disk.

/******************** Format Specification   ***************************************************

A DTF file may only contain ASCII symbols, and is compressed; z-standard is
the default, and the one other implementations should prefer. This
implementation selects the compressor from the last letter of the filename:
'z' for gzip, 'l' for LZW, 'r' for raw DEFLATE, anything else for zstd (so
the canonical extension, .dtf, gets zstd).

A DTF file starts with a header: zero or more key=value lines, terminated by
a line starting with the characters "**", followed by one or more spaces and
the number of molecules (directors) per frame. The precision may be given in
the header with the key "prec"; if absent, it is 4. The "**" sequence may
not appear anywhere else in the file.

After the header, the file has one line per molecule, per frame. Each line
contains 3 integers: the x, y and z components of that molecule's director,
each multiplied by 10 to the power of the precision and rounded. Directors
need not be normalized: readers are expected to unit-normalize them anyway,
so only the direction is significant.

Each frame ends with a line starting with the character "*" (no whitespace
before it), optionally followed by whitespace and one floating-point number,
the simulation time of the frame. The time unit is not specified by the
format; writers should record it in a header key (e.g. timeunit=ps) if it
matters.

***************************************************************************************************/

package dtf
