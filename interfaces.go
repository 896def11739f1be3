/*
 * interfaces.go, part of soprano.
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

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
// The decorate slice should contain a list of functions in the calling
// stack, plus, for each function, any relevant information, or nothing. If
// information is to be added to an element of the slice, it should be in
// this format: "FunctionName: Extra info". If passed an empty string,
// Decorate should just return the current value, not add the empty string
// to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// Generator is the interface for lazy, possibly infinite producers of
// structures. A Generator is consumed only up to the number of structures
// the caller asks for (see NewCollectionFromGenerator).
type Generator interface {

	//Next returns the next structure produced, or an error. A finite
	//generator signals its normal end by returning an error satisfying
	//the Exhausted interface.
	Next() (*Structure, error)
}

// Exhausted is satisfied by the harmless error a finite Generator returns
// when there is nothing left to produce, so it can be filtered in a
// typeswitch that looks for this interface.
type Exhausted interface {
	Error
	Exhausted() bool
}
