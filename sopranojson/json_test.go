/*
 * json_test.go, part of soprano.
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

package sopranojson

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	soprano "github.com/samueljackson92/soprano"
	"github.com/samueljackson92/soprano/genes"
	"github.com/samueljackson92/soprano/phylogen"
	v3 "github.com/samueljackson92/soprano/v3"
	"gonum.org/v1/gonum/mat"
)

func testCollection(Te *testing.T) *soprano.Collection {
	cell, err := v3.NewMatrix([]float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	if err != nil {
		Te.Fatal(err)
	}
	ss := make([]*soprano.Structure, 2)
	for i := range ss {
		coords, err := v3.NewMatrix([]float64{float64(i), 0, 0, 0, 1.5, 0})
		if err != nil {
			Te.Fatal(err)
		}
		sites := []*soprano.Site{{Symbol: "Si", Label: "Si1"}, {Symbol: "O", Tag: 7}}
		ss[i], err = soprano.NewStructure(sites, coords, cell)
		if err != nil {
			Te.Fatal(err)
		}
		ss[i].SetInfo("name", "test")
	}
	coll := soprano.NewCollection(ss)
	if err := coll.SetFloatArray("energy", []float64{-1.5, -2.5}); err != nil {
		Te.Fatal(err)
	}
	return coll
}

func sameCollection(Te *testing.T, a, b *soprano.Collection) {
	if a.Len() != b.Len() {
		Te.Fatal("Different lengths after the roundtrip")
	}
	for i := 0; i < a.Len(); i++ {
		if a.Structure(i).Hash() != b.Structure(i).Hash() {
			Te.Errorf("Structure %d changed in the roundtrip", i)
		}
		if a.Structure(i).Info("name") != b.Structure(i).Info("name") {
			Te.Errorf("Structure %d lost its info in the roundtrip", i)
		}
		site := b.Structure(i).Site(1)
		if site.Symbol != "O" || site.Tag != 7 {
			Te.Errorf("Structure %d lost site metadata in the roundtrip", i)
		}
	}
	ea, err := a.FloatArray("energy")
	if err != nil {
		Te.Fatal(err)
	}
	eb, err := b.FloatArray("energy")
	if err != nil {
		Te.Fatal(err)
	}
	for i := range ea {
		if ea[i] != eb[i] {
			Te.Error("Arrays changed in the roundtrip")
		}
	}
}

func TestCollectionRoundtrip(Te *testing.T) {
	coll := testCollection(Te)
	wc, err := EncodeCollection(coll)
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, &Archive{Collection: wc}); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Collection == nil {
		Te.Fatal("Lost the collection in the roundtrip")
	}
	coll2, err := DecodeCollection(back.Collection)
	if err != nil {
		Te.Fatal(err)
	}
	sameCollection(Te, coll, coll2)
}

func TestCompressedRoundtrip(Te *testing.T) {
	coll := testCollection(Te)
	wc, err := EncodeCollection(coll)
	if err != nil {
		Te.Fatal(err)
	}
	a := &Archive{
		Collection: wc,
		Results: &Results{
			Merges:     []phylogen.Merge{{Left: 0, Right: 1, Distance: 1.0, Size: 2}},
			Assignment: []int{0, 0},
			Embedding:  [][]float64{{-0.5, 0}, {0.5, 0}},
		},
	}
	var buf bytes.Buffer
	if err := WriteCompressed(&buf, a); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadCompressed(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	coll2, err := DecodeCollection(back.Collection)
	if err != nil {
		Te.Fatal(err)
	}
	sameCollection(Te, coll, coll2)
	if back.Results == nil || len(back.Results.Merges) != 1 {
		Te.Fatal("Lost the results in the roundtrip")
	}
	m := back.Results.Merges[0]
	if m.Left != 0 || m.Right != 1 || m.Distance != 1.0 || m.Size != 2 {
		Te.Error("Merge changed in the roundtrip", m)
	}
	if back.Results.Assignment[1] != 0 || back.Results.Embedding[1][0] != 0.5 {
		Te.Error("Results changed in the roundtrip")
	}
}

func TestSaveLoad(Te *testing.T) {
	coll := testCollection(Te)
	wc, err := EncodeCollection(coll)
	if err != nil {
		Te.Fatal(err)
	}
	a := &Archive{Collection: wc}
	dir := Te.TempDir()
	for _, name := range []string{"archive.json", "archive.json.zst"} {
		path := filepath.Join(dir, name)
		if err := Save(path, a); err != nil {
			Te.Fatal(err)
		}
		back, err := Load(path)
		if err != nil {
			Te.Fatal(err)
		}
		coll2, err := DecodeCollection(back.Collection)
		if err != nil {
			Te.Fatal(err)
		}
		sameCollection(Te, coll, coll2)
	}
}

func TestDistancesRoundtrip(Te *testing.T) {
	d := mat.NewSymDense(3, nil)
	d.SetSym(0, 1, 1.5)
	d.SetSym(0, 2, 2.5)
	d.SetSym(1, 2, 1.0)
	dm, err := genes.NewDistMatrix(d)
	if err != nil {
		Te.Fatal(err)
	}
	rows := EncodeDistances(dm)
	back, err := DecodeDistances(rows)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if back.At(i, j) != dm.At(i, j) {
				Te.Errorf("Distance (%d,%d) changed in the roundtrip", i, j)
			}
		}
	}
	//corrupted wire data is refused, not patched
	rows[0][1] = 99 //asymmetric now
	if _, err := DecodeDistances(rows); err == nil {
		Te.Error("An asymmetric matrix should be refused")
	}
	rows[0][1] = rows[1][0]
	rows[0][2] = math.NaN()
	rows[2][0] = math.NaN()
	if _, err := DecodeDistances(rows); err == nil {
		Te.Error("A NaN distance should be refused")
	}
}

func TestDroppedArrays(Te *testing.T) {
	coll := testCollection(Te)
	names := make([]interface{}, coll.Len())
	for i := range names {
		names[i] = "structure"
	}
	if err := coll.SetArray("names", names); err != nil {
		Te.Fatal(err)
	}
	wc, err := EncodeCollection(coll)
	if err != nil {
		Te.Fatal(err)
	}
	if _, ok := wc.Arrays["names"]; ok {
		Te.Error("A non-numeric array should be dropped from the wire form")
	}
	if _, ok := wc.Arrays["energy"]; !ok {
		Te.Error("The numeric array should have survived")
	}
}
