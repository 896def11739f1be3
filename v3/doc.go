/*
 * doc.go, part of soprano.
 *
 * Copyright 2020 Samuel Jackson
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package v3 implements a Matrix type representing a row-major Nx3 matrix.
The v3.Matrix is used to represent the cartesian coordinates of the sites of
an atomic structure, and also the 3 lattice vectors of a periodic cell (as a
3x3 matrix). It is based on gonum's (gonum.org/v1/gonum/mat) Dense type, with
some additional restrictions because of the fixed number of columns, and with
some additional functions that are useful when dealing with periodic
structures.

Functions in this package panic on misuse (wrong shapes, out of range
indexes). They are "fundamental" functions: if something goes wrong here the
calling program is way-most likely wrong already.
*/
package v3
