/*
 * structure.go, part of soprano.
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
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	v3 "github.com/samueljackson92/soprano/v3"
)

// Site contains the data of an atomic site except for its coordinates, which
// are kept in a matrix by the Structure that owns the site.
type Site struct {
	Symbol    string
	Label     string //an optional site label, e.g. "C1a". Empty is fine.
	Tag       int    //anything the caller wants to keep that is not a float.
	Occupancy float64
}

// Copy returns a copy of the Site object.
func (S *Site) Copy() *Site {
	if S == nil {
		panic("Attempted to copy a nil site")
	}
	ret := new(Site)
	ret.Symbol = S.Symbol
	ret.Label = S.Label
	ret.Tag = S.Tag
	ret.Occupancy = S.Occupancy
	return ret
}

// Structure is an atomic configuration: an ordered set of sites with their
// cartesian coordinates, an optional periodic cell (3 lattice vectors, as
// the rows of a 3x3 matrix) and a periodic boundary condition flag.
// Structures are immutable once handed to the analysis pipeline; every
// descriptor is a read-only function of them. The constructor copies its
// arguments, so the caller keeps ownership of whatever it passed in.
type Structure struct {
	sites  []*Site
	coords *v3.Matrix
	cell   *v3.Matrix //nil for non-periodic structures
	pbc    bool
	info   map[string]string
}

// NewStructure builds a Structure from the given sites, their cartesian
// coordinates (one row per site, in site order) and an optional periodic
// cell. A nil cell means a non-periodic structure. Sites and matrices are
// deep-copied.
func NewStructure(sites []*Site, coords *v3.Matrix, cell *v3.Matrix) (*Structure, error) {
	if coords == nil || sites == nil {
		return nil, NewError("NewStructure: nil sites or coordinates", true)
	}
	if len(sites) != coords.NVecs() {
		return nil, NewError("NewStructure: mismatched number of sites and coordinate rows", true)
	}
	if cell != nil {
		r, c := cell.Dims()
		if r != 3 || c != 3 {
			return nil, NewError("NewStructure: a periodic cell must be a 3x3 matrix", true)
		}
	}
	ret := new(Structure)
	ret.sites = make([]*Site, len(sites))
	for i, s := range sites {
		ret.sites[i] = s.Copy()
	}
	ret.coords = coords.Copy()
	if cell != nil {
		ret.cell = cell.Copy()
		ret.pbc = true
	}
	ret.info = map[string]string{}
	return ret, nil
}

// Len returns the number of sites in the structure.
func (S *Structure) Len() int {
	if S == nil {
		panic(ErrNilStructure)
	}
	return len(S.sites)
}

// Site returns a copy of the ith site. Panics if out of range.
func (S *Structure) Site(i int) *Site {
	if i < 0 || i >= len(S.sites) {
		panic(ErrOutOfRange)
	}
	return S.sites[i].Copy()
}

// Symbols returns the chemical symbols of all sites, in site order.
func (S *Structure) Symbols() []string {
	ret := make([]string, len(S.sites))
	for i, s := range S.sites {
		ret[i] = s.Symbol
	}
	return ret
}

// Coords returns a copy of the cartesian coordinates of the structure.
func (S *Structure) Coords() *v3.Matrix {
	return S.coords.Copy()
}

// CoordsRow fills dst with the cartesian coordinates of the ith site and
// returns it. If dst is nil a new slice is allocated.
func (S *Structure) CoordsRow(dst []float64, i int) []float64 {
	return S.coords.Row(dst, i)
}

// PBC returns whether the structure has periodic boundary conditions.
func (S *Structure) PBC() bool {
	return S.pbc
}

// Cell returns a copy of the periodic cell, or nil for a non-periodic
// structure.
func (S *Structure) Cell() *v3.Matrix {
	if S.cell == nil {
		return nil
	}
	return S.cell.Copy()
}

// Volume returns the volume of the periodic cell. Panics on non-periodic
// structures.
func (S *Structure) Volume() float64 {
	if S.cell == nil {
		panic(ErrNotPeriodic)
	}
	return math.Abs(S.cell.Det())
}

// Info returns the value attached to the given info key, or the empty
// string. The info map is for free-form labels (a name, the generator that
// produced the structure); it takes no part in descriptor computation or in
// structural identity.
func (S *Structure) Info(key string) string {
	return S.info[key]
}

// SetInfo attaches a free-form label to the structure. It is meant to be
// used right after construction, before the structure enters a pipeline.
func (S *Structure) SetInfo(key, value string) {
	S.info[key] = value
}

// InfoKeys returns the keys of the info map, sorted.
func (S *Structure) InfoKeys() []string {
	ret := make([]string, 0, len(S.info))
	for k := range S.info {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	if S == nil {
		panic(ErrNilStructure)
	}
	ret, err := NewStructure(S.sites, S.coords, S.cell)
	if err != nil {
		panic(err.Error()) //can't happen on an already-valid structure
	}
	for k, v := range S.info {
		ret.info[k] = v
	}
	return ret
}

// CopyWithCoords returns a copy of the structure with its coordinates
// replaced by the given matrix, which must have one row per site. Used by
// generators that displace an existing structure.
func (S *Structure) CopyWithCoords(coords *v3.Matrix) (*Structure, error) {
	if coords.NVecs() != len(S.sites) {
		return nil, NewError("CopyWithCoords: mismatched number of sites and coordinate rows", true)
	}
	ret, err := NewStructure(S.sites, coords, S.cell)
	if err != nil {
		return nil, err
	}
	for k, v := range S.info {
		ret.info[k] = v
	}
	return ret, nil
}

// Hash returns a structural FNV-1a hash of the structure: every site field
// (symbol, label, tag, occupancy), coordinates, cell and boundary
// conditions. Two structures with equal sites in equal order, equal
// coordinates and equal cells hash equally regardless of where they live in
// memory. Used as the structure identity in the properties cache, so it has
// to cover everything a property is allowed to read.
func (S *Structure) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	for _, s := range S.sites {
		h.Write([]byte(s.Symbol))
		h.Write([]byte{0})
		h.Write([]byte(s.Label))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(s.Tag))
		h.Write(buf[:])
		writeFloat(s.Occupancy)
	}
	var row [3]float64
	for i := 0; i < len(S.sites); i++ {
		S.coords.Row(row[:], i)
		writeFloat(row[0])
		writeFloat(row[1])
		writeFloat(row[2])
	}
	if S.pbc {
		h.Write([]byte{1})
		for i := 0; i < 3; i++ {
			S.cell.Row(row[:], i)
			writeFloat(row[0])
			writeFloat(row[1])
			writeFloat(row[2])
		}
	} else {
		h.Write([]byte{0})
	}
	return h.Sum64()
}
