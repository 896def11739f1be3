/*
 * json.go, part of soprano.
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

/*Package sopranojson serializes collections and analysis results to JSON,
plain or zstd-compressed. The archive carries only float arrays of a
collection (the only kind with a defined wire format) and all the plain
numeric outputs of an analysis: the composite gene matrix with its column
provenance, the distance matrix, the dendrogram merge list, the flat
cluster assignment and the embedding coordinates. Nothing in the analysis
packages depends on this one; it exists for callers that want to move
results between processes.*/
package sopranojson

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	soprano "github.com/samueljackson92/soprano"
	"github.com/samueljackson92/soprano/genes"
	"github.com/samueljackson92/soprano/phylogen"
	v3 "github.com/samueljackson92/soprano/v3"
	"gonum.org/v1/gonum/mat"
)

// Site is a ready-to-serialize container for a site.
type Site struct {
	Symbol    string
	Label     string  `json:",omitempty"`
	Tag       int     `json:",omitempty"`
	Occupancy float64 `json:",omitempty"`
}

// Structure is a ready-to-serialize container for a structure: sites,
// row-major 3N coordinates and, for periodic structures, the 9 cell
// components (rows are lattice vectors).
type Structure struct {
	Sites  []Site
	Coords []float64
	Cell   []float64         `json:",omitempty"`
	Info   map[string]string `json:",omitempty"`
}

// Collection is a ready-to-serialize container for a collection and its
// float arrays.
type Collection struct {
	Structures []*Structure
	Arrays     map[string][]float64 `json:",omitempty"`
}

// Results holds the plain numeric outputs of an analysis run. Every field
// is optional.
type Results struct {
	GeneMatrix [][]float64      `json:",omitempty"`
	Cols       []genes.ColInfo  `json:",omitempty"`
	Distances  [][]float64      `json:",omitempty"`
	Merges     []phylogen.Merge `json:",omitempty"`
	Assignment []int            `json:",omitempty"`
	Embedding  [][]float64      `json:",omitempty"`
}

// Archive is the top-level serialized object.
type Archive struct {
	Collection *Collection `json:",omitempty"`
	Results    *Results    `json:",omitempty"`
}

// Error is the concrete error type of the sopranojson package. It
// satisfies soprano.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

// Decorate adds the dec string to the decoration slice of strings of the
// error, and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// EncodeCollection converts a collection to its wire form. Arrays holding
// anything other than floats are dropped: they have no defined wire
// format.
func EncodeCollection(coll *soprano.Collection) (*Collection, error) {
	if err := coll.Validate(); err != nil {
		return nil, Error{message: fmt.Sprintf("EncodeCollection: %v", err)}
	}
	ret := new(Collection)
	ret.Structures = make([]*Structure, coll.Len())
	for i := 0; i < coll.Len(); i++ {
		s := coll.Structure(i)
		ws := new(Structure)
		ws.Sites = make([]Site, s.Len())
		for j := 0; j < s.Len(); j++ {
			site := s.Site(j)
			ws.Sites[j] = Site{Symbol: site.Symbol, Label: site.Label, Tag: site.Tag, Occupancy: site.Occupancy}
		}
		ws.Coords = make([]float64, 0, 3*s.Len())
		var row [3]float64
		for j := 0; j < s.Len(); j++ {
			s.CoordsRow(row[:], j)
			ws.Coords = append(ws.Coords, row[0], row[1], row[2])
		}
		if cell := s.Cell(); cell != nil {
			ws.Cell = make([]float64, 0, 9)
			for j := 0; j < 3; j++ {
				cell.Row(row[:], j)
				ws.Cell = append(ws.Cell, row[0], row[1], row[2])
			}
		}
		info := map[string]string{}
		for _, k := range s.InfoKeys() {
			info[k] = s.Info(k)
		}
		if len(info) > 0 {
			ws.Info = info
		}
		ret.Structures[i] = ws
	}
	arrays := map[string][]float64{}
	for _, k := range coll.ArrayKeys() {
		vals, err := coll.FloatArray(k)
		if err != nil {
			continue //non-numeric array, dropped
		}
		arrays[k] = vals
	}
	if len(arrays) > 0 {
		ret.Arrays = arrays
	}
	return ret, nil
}

// DecodeCollection rebuilds a collection from its wire form, checking the
// collection invariants on the way out.
func DecodeCollection(wc *Collection) (*soprano.Collection, error) {
	structures := make([]*soprano.Structure, len(wc.Structures))
	for i, ws := range wc.Structures {
		sites := make([]*soprano.Site, len(ws.Sites))
		for j, s := range ws.Sites {
			sites[j] = &soprano.Site{Symbol: s.Symbol, Label: s.Label, Tag: s.Tag, Occupancy: s.Occupancy}
		}
		coords, err := v3.NewMatrix(ws.Coords)
		if err != nil {
			return nil, Error{message: fmt.Sprintf("DecodeCollection: structure %d: %v", i, err)}
		}
		var cell *v3.Matrix
		if ws.Cell != nil {
			if len(ws.Cell) != 9 {
				return nil, Error{message: fmt.Sprintf("DecodeCollection: structure %d has a %d-component cell", i, len(ws.Cell))}
			}
			cell, _ = v3.NewMatrix(ws.Cell)
		}
		s, err := soprano.NewStructure(sites, coords, cell)
		if err != nil {
			return nil, Error{message: fmt.Sprintf("DecodeCollection: structure %d: %v", i, err)}
		}
		for k, v := range ws.Info {
			s.SetInfo(k, v)
		}
		structures[i] = s
	}
	coll := soprano.NewCollection(structures)
	for k, vals := range wc.Arrays {
		if err := coll.SetFloatArray(k, vals); err != nil {
			return nil, Error{message: fmt.Sprintf("DecodeCollection: array %q: %v", k, err)}
		}
	}
	if err := coll.Validate(); err != nil {
		return nil, Error{message: fmt.Sprintf("DecodeCollection: %v", err)}
	}
	return coll, nil
}

// EncodeDistances converts a distance matrix to its wire form.
func EncodeDistances(dm *genes.DistMatrix) [][]float64 {
	n := dm.Len()
	ret := make([][]float64, n)
	for i := 0; i < n; i++ {
		ret[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			ret[i][j] = dm.At(i, j)
		}
	}
	return ret
}

// DecodeDistances rebuilds a distance matrix from its wire form. An
// asymmetric, negative or NaN-carrying matrix is rejected: such a thing
// can only come from a bug upstream and must never be silently patched.
func DecodeDistances(rows [][]float64) (*genes.DistMatrix, error) {
	n := len(rows)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, Error{message: fmt.Sprintf("DecodeDistances: row %d has %d columns for %d rows", i, len(rows[i]), n)}
		}
		for j := i; j < n; j++ {
			if rows[i][j] != rows[j][i] || math.IsNaN(rows[i][j]) {
				return nil, Error{message: fmt.Sprintf("DecodeDistances: asymmetry at (%d,%d)", i, j)}
			}
			d.SetSym(i, j, rows[i][j])
		}
	}
	ret, err := genes.NewDistMatrix(d)
	if err != nil {
		return nil, Error{message: fmt.Sprintf("DecodeDistances: %v", err)}
	}
	return ret, nil
}

// Write serializes the archive as plain JSON.
func Write(w io.Writer, a *Archive) error {
	enc := json.NewEncoder(w)
	return enc.Encode(a)
}

// Read deserializes a plain JSON archive.
func Read(r io.Reader) (*Archive, error) {
	ret := new(Archive)
	dec := json.NewDecoder(r)
	if err := dec.Decode(ret); err != nil {
		return nil, Error{message: fmt.Sprintf("Read: %v", err)}
	}
	return ret, nil
}

// WriteCompressed serializes the archive as zstd-compressed JSON.
func WriteCompressed(w io.Writer, a *Archive) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return Error{message: fmt.Sprintf("WriteCompressed: %v", err)}
	}
	if err := Write(zw, a); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadCompressed deserializes a zstd-compressed JSON archive.
func ReadCompressed(r io.Reader) (*Archive, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, Error{message: fmt.Sprintf("ReadCompressed: %v", err)}
	}
	defer zr.Close()
	return Read(zr)
}

// Save writes the archive to a file. Filenames ending in .zst get the
// compressed format.
func Save(filename string, a *Archive) error {
	f, err := os.Create(filename)
	if err != nil {
		return Error{message: fmt.Sprintf("Save: %v", err)}
	}
	defer f.Close()
	if strings.HasSuffix(filename, ".zst") {
		return WriteCompressed(f, a)
	}
	return Write(f, a)
}

// Load reads an archive written by Save, picking the format from the
// filename the same way.
func Load(filename string) (*Archive, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, Error{message: fmt.Sprintf("Load: %v", err)}
	}
	defer f.Close()
	if strings.HasSuffix(filename, ".zst") {
		return ReadCompressed(f)
	}
	return Read(f)
}
