/*
 * soprano_test.go, part of soprano.
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
	"testing"

	v3 "github.com/samueljackson92/soprano/v3"
)

// a single H site at (x,0,0), optionally in a cubic cell of side a (a<=0
// means non-periodic)
func xstruct(Te *testing.T, x, a float64) *Structure {
	coords, err := v3.NewMatrix([]float64{x, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	var cell *v3.Matrix
	if a > 0 {
		cell, err = v3.NewMatrix([]float64{a, 0, 0, 0, a, 0, 0, 0, a})
		if err != nil {
			Te.Fatal(err)
		}
	}
	s, err := NewStructure([]*Site{{Symbol: "H"}}, coords, cell)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

func TestCollectionArrays(Te *testing.T) {
	coll := NewCollection([]*Structure{xstruct(Te, 0, 0), xstruct(Te, 1, 0)})
	if err := coll.SetFloatArray("energy", []float64{-1.0, -2.0}); err != nil {
		Te.Fatal(err)
	}
	//wrong lengths must be refused
	if err := coll.SetFloatArray("bad", []float64{1.0}); err == nil {
		Te.Error("SetFloatArray accepted an array of the wrong length")
	} else if _, ok := err.(CollectionError); !ok {
		Te.Errorf("Expected a CollectionError, got %T", err)
	}
	if err := coll.Validate(); err != nil {
		Te.Error(err)
	}
	vals, err := coll.FloatArray("energy")
	if err != nil {
		Te.Fatal(err)
	}
	if vals[1] != -2.0 {
		Te.Error("Wrong array value", vals)
	}
}

func TestCollectionSliceCatSort(Te *testing.T) {
	coll := NewCollection([]*Structure{xstruct(Te, 0, 0), xstruct(Te, 1, 0), xstruct(Te, 2, 0)})
	coll.SetFloatArray("energy", []float64{3, 1, 2})
	sub, err := coll.Slice(1, 3)
	if err != nil {
		Te.Fatal(err)
	}
	if sub.Len() != 2 {
		Te.Errorf("Wrong slice length %d", sub.Len())
	}
	v, _ := sub.FloatArray("energy")
	if v[0] != 1 || v[1] != 2 {
		Te.Error("Slice didn't slice the arrays", v)
	}
	both, err := coll.Cat(sub)
	if err != nil {
		Te.Fatal(err)
	}
	if both.Len() != 5 {
		Te.Errorf("Wrong concatenated length %d", both.Len())
	}
	if err := both.Validate(); err != nil {
		Te.Error(err)
	}
	sorted, err := coll.SortByArray("energy")
	if err != nil {
		Te.Fatal(err)
	}
	sv, _ := sorted.FloatArray("energy")
	if sv[0] != 1 || sv[1] != 2 || sv[2] != 3 {
		Te.Error("SortByArray didn't sort", sv)
	}
	//the structures must follow their array values
	var row [3]float64
	sorted.Structure(0).CoordsRow(row[:], 0)
	if row[0] != 1 {
		Te.Error("SortByArray didn't reorder the structures", row)
	}
}

func TestStructureHash(Te *testing.T) {
	a := xstruct(Te, 1.5, 10)
	b := xstruct(Te, 1.5, 10)
	c := xstruct(Te, 1.6, 10)
	if a.Hash() != b.Hash() {
		Te.Error("Equal structures should hash equal")
	}
	if a.Hash() == c.Hash() {
		Te.Error("Different structures should (essentially always) hash different")
	}
	if a.Hash() == xstruct(Te, 1.5, 0).Hash() {
		Te.Error("Periodic and non-periodic structures should hash different")
	}
}

func TestHashCoversSiteFields(Te *testing.T) {
	//every site field a property can read has to separate the hashes
	coords, _ := v3.NewMatrix([]float64{0, 0, 0})
	build := func(site *Site) *Structure {
		s, err := NewStructure([]*Site{site}, coords, nil)
		if err != nil {
			Te.Fatal(err)
		}
		return s
	}
	base := build(&Site{Symbol: "H", Occupancy: 1.0})
	cases := map[string]*Structure{
		"occupancy": build(&Site{Symbol: "H", Occupancy: 0.5}),
		"label":     build(&Site{Symbol: "H", Occupancy: 1.0, Label: "H1"}),
		"tag":       build(&Site{Symbol: "H", Occupancy: 1.0, Tag: 2}),
	}
	for field, other := range cases {
		if base.Hash() == other.Hash() {
			Te.Errorf("Structures differing only in site %s hash equal", field)
		}
	}
}

func TestMinImage(Te *testing.T) {
	cell, _ := v3.NewMatrix([]float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	d := MinImageDist([]float64{0.5, 0, 0}, []float64{9.5, 0, 0}, cell)
	if math.Abs(d-1.0) > 1e-12 {
		Te.Errorf("Wrong minimum-image distance %f", d)
	}
	//without a cell it is the plain distance
	d = MinImageDist([]float64{0.5, 0, 0}, []float64{9.5, 0, 0}, nil)
	if math.Abs(d-9.0) > 1e-12 {
		Te.Errorf("Wrong plain distance %f", d)
	}
}

func TestFracCartRoundtrip(Te *testing.T) {
	cell, _ := v3.NewMatrix([]float64{3, 0, 0, 0.5, 2.5, 0, 0.1, 0.2, 4})
	coords, _ := v3.NewMatrix([]float64{1.0, 2.0, 3.0, 0.1, 0.2, 0.3})
	back := Cart(Frac(coords, cell), cell)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(back.At(i, j)-coords.At(i, j)) > 1e-10 {
				Te.Errorf("Roundtrip broke component %d,%d", i, j)
			}
		}
	}
}

func TestLinspaceGen(Te *testing.T) {
	s0 := xstruct(Te, 0, 0)
	s1 := xstruct(Te, 2, 0)
	gen, err := NewLinspaceGen(s0, s1, 5, false)
	if err != nil {
		Te.Fatal(err)
	}
	coll, err := NewCollectionFromGenerator(gen, 100) //asks for more than the generator has
	if err != nil {
		Te.Fatal(err)
	}
	if coll.Len() != 5 {
		Te.Fatalf("Expected 5 interpolated structures, got %d", coll.Len())
	}
	var row [3]float64
	coll.Structure(0).CoordsRow(row[:], 0)
	if row[0] != 0 {
		Te.Error("First structure is not the first extreme", row)
	}
	coll.Structure(4).CoordsRow(row[:], 0)
	if row[0] != 2 {
		Te.Error("Last structure is not the second extreme", row)
	}
	coll.Structure(2).CoordsRow(row[:], 0)
	if math.Abs(row[0]-1.0) > 1e-12 {
		Te.Error("Midpoint is off", row)
	}
}

func TestLinspaceGenPeriodic(Te *testing.T) {
	s0 := xstruct(Te, 0.5, 10)
	s1 := xstruct(Te, 9.5, 10)
	gen, err := NewLinspaceGen(s0, s1, 3, true)
	if err != nil {
		Te.Fatal(err)
	}
	coll, err := NewCollectionFromGenerator(gen, 3)
	if err != nil {
		Te.Fatal(err)
	}
	//the path should go through the periodic boundary, not across the cell
	var row [3]float64
	coll.Structure(1).CoordsRow(row[:], 0)
	if math.Abs(row[0]-0.0) > 1e-12 {
		Te.Errorf("Periodic interpolation went the long way: midpoint at %f", row[0])
	}
}

func TestRattleGenDeterminism(Te *testing.T) {
	s := xstruct(Te, 1, 0)
	g1, _ := NewRattleGen(s, 0.1, 42)
	g2, _ := NewRattleGen(s, 0.1, 42)
	a, err := g1.Next()
	if err != nil {
		Te.Fatal(err)
	}
	b, err := g2.Next()
	if err != nil {
		Te.Fatal(err)
	}
	if a.Hash() != b.Hash() {
		Te.Error("Same seed should generate the same rattled structure")
	}
	//and the original must not have moved
	var row [3]float64
	s.CoordsRow(row[:], 0)
	if row[0] != 1 {
		Te.Error("RattleGen mutated its source structure")
	}
}
