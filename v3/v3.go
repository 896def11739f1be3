/*
 * v3.go, part of soprano.
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

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 1e-12 //used to correct floating point errors. Everything with absolute value <= appzero is considered zero.

// Matrix is a row-major Nx3 matrix based on gonum's Dense.
type Matrix struct {
	*mat.Dense
}

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// Dense2Matrix returns a Matrix backed by the given Dense. It panics if the
// Dense doesn't have exactly 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// NVecs returns the number of 3D row vectors in the receiver.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// VecView returns a view of the ith vector of the matrix. Changes in the view
// are reflected in the receiver and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F starting from i,j and spanning r rows and c columns.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

// Row fills dst with the ith row of the receiver and returns it. If dst is
// nil a new slice is allocated.
func (F *Matrix) Row(dst []float64, i int) []float64 {
	return mat.Row(dst, i, F.Dense)
}

// SetVec sets the ith vector of the receiver to v.
func (F *Matrix) SetVec(i int, v []float64) {
	if len(v) != 3 {
		panic(ErrNotEnoughElements)
	}
	F.Dense.SetRow(i, v)
}

// Copy returns an independent copy of the receiver.
func (F *Matrix) Copy() *Matrix {
	r := F.NVecs()
	ret := Zeros(r)
	ret.Dense.Copy(F.Dense)
	return ret
}

// AddVec adds the 1x3 vector vec to each vector of A, putting the result in
// the receiver. The receiver may be A itself.
func (F *Matrix) AddVec(A *Matrix, vec *Matrix) {
	ar := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != ar {
		panic(ErrShape)
	}
	var v [3]float64
	vec.Row(v[:], 0)
	var row [3]float64
	for i := 0; i < ar; i++ {
		A.Row(row[:], i)
		for j := 0; j < 3; j++ {
			row[j] += v[j]
		}
		F.SetVec(i, row[:])
	}
}

// SubVec subtracts the 1x3 vector vec from each vector of A, putting the
// result in the receiver. The receiver may be A itself.
func (F *Matrix) SubVec(A *Matrix, vec *Matrix) {
	n := vec.Copy()
	n.Scale(-1, n.Dense)
	F.AddVec(A, n)
}

// Sub puts A-B in the receiver, which may be one of the operands.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

// Add puts A+B in the receiver, which may be one of the operands.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

// VecNorm returns the Euclidean norm of the ith vector of the receiver.
func (F *Matrix) VecNorm(i int) float64 {
	var v [3]float64
	F.Row(v[:], i)
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Det returns the determinant of the receiver. Panics if the receiver is not
// a 3x3 matrix.
func (F *Matrix) Det() float64 {
	A := F.Dense
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

// Inv puts the inverse of the 3x3 matrix A in the receiver. Panics if A is
// not 3x3 or is singular. Meant for inverting periodic cells, where a
// singular cell means the structure itself is ill-formed.
func (F *Matrix) Inv(A *Matrix) {
	d := A.Det()
	if math.Abs(d) <= appzero {
		panic(ErrSingularCell)
	}
	err := F.Dense.Inverse(A.Dense)
	if err != nil {
		panic(ErrGonum)
	}
}
