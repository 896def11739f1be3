/*
 * errors.go, part of soprano.
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

import "fmt"

// Error is the concrete error type for the v3 package. It implements
// soprano.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("%s", err.message)
}

// Decorate will add the dec string to the decoration slice of strings of the
// error, and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics. It does satisfy the error interface,
// but for returned errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("soprano/v3: A Matrix should have 3 columns")
	ErrNotEnoughElements = PanicMsg("soprano/v3: not enough elements in Matrix")
	ErrGonum             = PanicMsg("soprano/v3: Error in gonum function")
	ErrDeterminant       = PanicMsg("soprano/v3: Determinants are only available for 3x3 matrices")
	ErrSingularCell      = PanicMsg("soprano/v3: Singular cell matrix")
	ErrShape             = PanicMsg("soprano/v3: Dimension mismatch")
)
