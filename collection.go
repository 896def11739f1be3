/*
 * collection.go, part of soprano.
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
	"fmt"
	"sort"
)

// Collection is an ordered sequence of structures plus named arrays of
// per-structure values, parallel to the sequence. The insertion order is
// significant: it is the index into every matrix the analysis packages
// derive from a collection. The invariant len(array) == Len() holds for
// every array at all times; operations that would break it fail with a
// CollectionError.
type Collection struct {
	structures []*Structure
	arrays     map[string][]interface{}
}

// NewCollection returns a collection with the given structures and no
// arrays. The structure slice is copied; the structures themselves are
// shared (they are immutable).
func NewCollection(structures []*Structure) *Collection {
	ret := new(Collection)
	ret.structures = make([]*Structure, len(structures))
	copy(ret.structures, structures)
	ret.arrays = map[string][]interface{}{}
	return ret
}

// NewCollectionFromGenerator consumes up to n structures from the given
// generator and returns them as a collection. A generator that gets
// exhausted before producing n structures is not an error: the collection
// simply contains what was produced.
func NewCollectionFromGenerator(gen Generator, n int) (*Collection, error) {
	structures := make([]*Structure, 0, n)
	for i := 0; i < n; i++ {
		s, err := gen.Next()
		if err != nil {
			if _, ok := err.(Exhausted); ok {
				break
			}
			return nil, errDecorate(err, "NewCollectionFromGenerator")
		}
		structures = append(structures, s)
	}
	return NewCollection(structures), nil
}

// Len returns the number of structures in the collection.
func (C *Collection) Len() int {
	if C == nil {
		panic(ErrNilCollection)
	}
	return len(C.structures)
}

// Structure returns the ith structure. Panics if out of range.
func (C *Collection) Structure(i int) *Structure {
	if i < 0 || i >= len(C.structures) {
		panic(ErrOutOfRange)
	}
	return C.structures[i]
}

// Structures returns a copy of the ordered structure slice.
func (C *Collection) Structures() []*Structure {
	ret := make([]*Structure, len(C.structures))
	copy(ret, C.structures)
	return ret
}

// SetArray attaches a named array of per-structure values to the
// collection. The array must have exactly one value per structure.
func (C *Collection) SetArray(key string, values []interface{}) error {
	if len(values) != len(C.structures) {
		return NewCollectionError(fmt.Sprintf("SetArray: array %q has %d values for %d structures", key, len(values), len(C.structures)))
	}
	v := make([]interface{}, len(values))
	copy(v, values)
	C.arrays[key] = v
	return nil
}

// SetFloatArray is SetArray for the common case of numeric values.
func (C *Collection) SetFloatArray(key string, values []float64) error {
	v := make([]interface{}, len(values))
	for i, f := range values {
		v[i] = f
	}
	return C.SetArray(key, v)
}

// Array returns a copy of the named array, or nil if there is no such
// array.
func (C *Collection) Array(key string) []interface{} {
	a, ok := C.arrays[key]
	if !ok {
		return nil
	}
	ret := make([]interface{}, len(a))
	copy(ret, a)
	return ret
}

// FloatArray returns the named array as floats. It fails if the array is
// missing or holds anything that is not a float64 or an int.
func (C *Collection) FloatArray(key string) ([]float64, error) {
	a, ok := C.arrays[key]
	if !ok {
		return nil, NewError(fmt.Sprintf("FloatArray: no array %q in collection", key), false)
	}
	ret := make([]float64, len(a))
	for i, v := range a {
		switch f := v.(type) {
		case float64:
			ret[i] = f
		case int:
			ret[i] = float64(f)
		default:
			return nil, NewError(fmt.Sprintf("FloatArray: array %q holds non-numeric value at %d", key, i), false)
		}
	}
	return ret, nil
}

// ArrayKeys returns the names of all attached arrays, sorted.
func (C *Collection) ArrayKeys() []string {
	ret := make([]string, 0, len(C.arrays))
	for k := range C.arrays {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Slice returns a new collection with the structures in [start,end) and
// every array sliced to match.
func (C *Collection) Slice(start, end int) (*Collection, error) {
	if start < 0 || end > len(C.structures) || start > end {
		return nil, NewError(fmt.Sprintf("Slice: [%d,%d) out of range for collection of %d", start, end, len(C.structures)), true)
	}
	ret := NewCollection(C.structures[start:end])
	for k, a := range C.arrays {
		if err := ret.SetArray(k, a[start:end]); err != nil {
			return nil, errDecorate(err, "Slice")
		}
	}
	return ret, nil
}

// Cat returns the concatenation of the receiver and other. Arrays present
// in both collections are concatenated; arrays present in only one are
// dropped, since keeping them would break the per-structure correspondence.
func (C *Collection) Cat(other *Collection) (*Collection, error) {
	structures := make([]*Structure, 0, len(C.structures)+len(other.structures))
	structures = append(structures, C.structures...)
	structures = append(structures, other.structures...)
	ret := NewCollection(structures)
	for k, a := range C.arrays {
		b, ok := other.arrays[k]
		if !ok {
			continue
		}
		merged := make([]interface{}, 0, len(a)+len(b))
		merged = append(merged, a...)
		merged = append(merged, b...)
		if err := ret.SetArray(k, merged); err != nil {
			return nil, errDecorate(err, "Cat")
		}
	}
	return ret, nil
}

// SortByArray returns a new collection with structures (and every array)
// reordered by ascending value of the named float array. The sort is
// stable, so equal values keep their original relative order.
func (C *Collection) SortByArray(key string) (*Collection, error) {
	vals, err := C.FloatArray(key)
	if err != nil {
		return nil, errDecorate(err, "SortByArray")
	}
	perm := make([]int, len(vals))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return vals[perm[i]] < vals[perm[j]] })
	structures := make([]*Structure, len(perm))
	for i, p := range perm {
		structures[i] = C.structures[p]
	}
	ret := NewCollection(structures)
	for k, a := range C.arrays {
		rea := make([]interface{}, len(a))
		for i, p := range perm {
			rea[i] = a[p]
		}
		if err := ret.SetArray(k, rea); err != nil {
			return nil, errDecorate(err, "SortByArray")
		}
	}
	return ret, nil
}

// Chunks splits the collection in consecutive chunks of at most size
// structures (the last one may be smaller), each with its arrays sliced to
// match.
func (C *Collection) Chunks(size int) ([]*Collection, error) {
	if size < 1 {
		return nil, NewError("Chunks: chunk size must be at least 1", true)
	}
	ret := make([]*Collection, 0, len(C.structures)/size+1)
	for start := 0; start < len(C.structures); start += size {
		end := start + size
		if end > len(C.structures) {
			end = len(C.structures)
		}
		chunk, err := C.Slice(start, end)
		if err != nil {
			return nil, errDecorate(err, "Chunks")
		}
		ret = append(ret, chunk)
	}
	return ret, nil
}

// Validate checks the collection invariant: every attached array has
// exactly one value per structure. It returns a CollectionError on the
// first violation found. The exported methods of Collection maintain the
// invariant themselves; Validate is for callers that unpacked a collection
// from elsewhere (e.g. sopranojson) or hold it across their own mutations.
func (C *Collection) Validate() error {
	for k, a := range C.arrays {
		if len(a) != len(C.structures) {
			return NewCollectionError(fmt.Sprintf("Validate: array %q has %d values for %d structures", k, len(a), len(C.structures)))
		}
	}
	return nil
}

// errDecorate is a helper function that asserts that the error implements
// soprano.Error and decorates it with the caller's name before returning
// it. If used with an error that does not implement soprano.Error, it will
// just return the error.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
