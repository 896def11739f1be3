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

package soprano

import "fmt"

// CError is the concrete error type of the root package.
type CError struct {
	message  string
	deco     []string
	critical bool
}

func (err CError) Error() string {
	return fmt.Sprintf("%s", err.message)
}

// Decorate adds the dec string to the decoration slice of strings of the
// error, and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err CError) Critical() bool { return err.critical }

// NewError returns a CError with the given message. Critical marks the
// error as not recoverable.
func NewError(message string, critical bool) CError {
	return CError{message: message, critical: critical}
}

// CollectionError signals an inconsistency between a Collection and its
// attached arrays (e.g. an array whose length doesn't match the number of
// structures). These always abort whatever operation found them.
type CollectionError struct {
	CError
}

// NewCollectionError returns a CollectionError with the given message.
func NewCollectionError(message string) CollectionError {
	return CollectionError{CError{message: message, critical: true}}
}

// exhaustedError is the harmless error finite generators return when done.
// It satisfies the Exhausted interface.
type exhaustedError struct {
	deco []string
}

func (err exhaustedError) Error() string { return "generator exhausted" }

func (err exhaustedError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err exhaustedError) Exhausted() bool { return true }

// PanicMsg is a message used for panics. It satisfies the error interface,
// but for returned errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilStructure  = PanicMsg("soprano: Attempted to use a nil Structure")
	ErrNilCollection = PanicMsg("soprano: Attempted to use a nil Collection")
	ErrNotPeriodic   = PanicMsg("soprano: Operation needs a periodic cell")
	ErrOutOfRange    = PanicMsg("soprano: Index out of range")
)
