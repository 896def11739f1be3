/*
 * periodic.go, part of soprano.
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

package soprano

import (
	"math"

	v3 "github.com/samueljackson92/soprano/v3"
)

/*Convention: cells are 3x3 matrices whose ROWS are the lattice vectors, and
 * coordinates are row vectors, so cartesian = fractional x cell. This is the
 * same convention ASE and most crystallography codes use, and it has to be
 * kept consistent across this file, the descriptors and the generators.*/

// Frac converts cartesian coordinates to fractional coordinates of the
// given cell, returning a new matrix.
func Frac(coords *v3.Matrix, cell *v3.Matrix) *v3.Matrix {
	inv := v3.Zeros(3)
	inv.Inv(cell)
	return mulRows(coords, inv)
}

// Cart converts fractional coordinates of the given cell to cartesian
// coordinates, returning a new matrix.
func Cart(frac *v3.Matrix, cell *v3.Matrix) *v3.Matrix {
	return mulRows(frac, cell)
}

// mulRows returns coords x M for a 3x3 M, row by row.
func mulRows(coords *v3.Matrix, M *v3.Matrix) *v3.Matrix {
	n := coords.NVecs()
	ret := v3.Zeros(n)
	var row [3]float64
	var out [3]float64
	for i := 0; i < n; i++ {
		coords.Row(row[:], i)
		for j := 0; j < 3; j++ {
			out[j] = row[0]*M.At(0, j) + row[1]*M.At(1, j) + row[2]*M.At(2, j)
		}
		ret.SetVec(i, out[:])
	}
	return ret
}

// MinImageAll replaces, in place, every row of the displacement matrix D by
// its minimum-image equivalent under the given cell: the shortest vector
// connecting the same pair of sites across all periodic copies. D is
// expected to hold differences of cartesian coordinates.
func MinImageAll(D *v3.Matrix, cell *v3.Matrix) {
	inv := v3.Zeros(3)
	inv.Inv(cell)
	n := D.NVecs()
	var row [3]float64
	var f [3]float64
	var out [3]float64
	for i := 0; i < n; i++ {
		D.Row(row[:], i)
		for j := 0; j < 3; j++ {
			f[j] = row[0]*inv.At(0, j) + row[1]*inv.At(1, j) + row[2]*inv.At(2, j)
		}
		for j := 0; j < 3; j++ {
			f[j] -= math.Round(f[j]) //wraps to [-0.5,0.5]
		}
		for j := 0; j < 3; j++ {
			out[j] = f[0]*cell.At(0, j) + f[1]*cell.At(1, j) + f[2]*cell.At(2, j)
		}
		D.SetVec(i, out[:])
	}
}

// MinImageDist returns the minimum-image distance between the cartesian
// points a and b under the given cell. With a nil cell it is the plain
// Euclidean distance.
func MinImageDist(a, b []float64, cell *v3.Matrix) float64 {
	d := []float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	if cell != nil {
		D := v3.Zeros(1)
		D.SetVec(0, d)
		MinImageAll(D, cell)
		D.Row(d, 0)
	}
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}
