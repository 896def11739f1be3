/*
 * generate.go, part of soprano.
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
	"math/rand"

	v3 "github.com/samueljackson92/soprano/v3"
)

// LinspaceGen is a finite generator producing structures with positions
// interpolated linearly between two extremes. With the periodic option the
// interpolation runs between the positions in the first structure and the
// closest periodic copy of the positions in the second one.
type LinspaceGen struct {
	start *Structure
	pos0  *v3.Matrix
	dpos  *v3.Matrix
	steps int
	next  int
}

// NewLinspaceGen returns a generator that yields steps structures (extremes
// included) interpolated between s0 and s1. The two structures must have
// the same chemical composition, with atoms in the same order. With
// periodic true, s0 must have a periodic cell and displacements are taken
// minimum-image under it.
func NewLinspaceGen(s0, s1 *Structure, steps int, periodic bool) (*LinspaceGen, error) {
	if steps < 2 {
		return nil, NewError("NewLinspaceGen: need at least 2 steps to include both extremes", true)
	}
	sym0 := s0.Symbols()
	sym1 := s1.Symbols()
	if len(sym0) != len(sym1) {
		return nil, NewError("NewLinspaceGen: the two structures have different numbers of sites", true)
	}
	for i, s := range sym0 {
		if s != sym1[i] {
			return nil, NewError(fmt.Sprintf("NewLinspaceGen: the two structures differ in composition at site %d", i), true)
		}
	}
	pos0 := s0.Coords()
	dpos := s1.Coords()
	dpos.Sub(dpos, pos0)
	if periodic {
		cell := s0.Cell()
		if cell == nil {
			return nil, NewError("NewLinspaceGen: periodic interpolation needs a cell on the first structure", true)
		}
		MinImageAll(dpos, cell)
	}
	ret := new(LinspaceGen)
	ret.start = s0
	ret.pos0 = pos0
	ret.dpos = dpos
	ret.steps = steps
	return ret, nil
}

// Next returns the next interpolated structure. After the last step it
// returns an error satisfying the Exhausted interface.
func (G *LinspaceGen) Next() (*Structure, error) {
	if G.next >= G.steps {
		return nil, exhaustedError{}
	}
	t := float64(G.next) / float64(G.steps-1)
	pos := G.dpos.Copy()
	pos.Scale(t, pos.Dense)
	pos.Add(pos, G.pos0)
	ret, err := G.start.CopyWithCoords(pos)
	if err != nil {
		return nil, errDecorate(err, "LinspaceGen.Next")
	}
	ret.SetInfo("name", fmt.Sprintf("linspace_%d", G.next))
	G.next++
	return ret, nil
}

// RattleGen is an infinite generator producing copies of a structure with
// every coordinate displaced by a uniform random amount in
// [-amplitude, amplitude]. The random source is seeded explicitly, so a
// given (structure, amplitude, seed) triple always generates the same
// sequence.
type RattleGen struct {
	start     *Structure
	pos       *v3.Matrix
	amplitude float64
	rng       *rand.Rand
	count     int
}

// NewRattleGen returns a rattling generator over the given structure.
func NewRattleGen(s *Structure, amplitude float64, seed int64) (*RattleGen, error) {
	if amplitude < 0 {
		return nil, NewError("NewRattleGen: amplitude must be non-negative", true)
	}
	ret := new(RattleGen)
	ret.start = s
	ret.pos = s.Coords()
	ret.amplitude = amplitude
	ret.rng = rand.New(rand.NewSource(seed))
	return ret, nil
}

// Next returns the next rattled structure. It never exhausts.
func (G *RattleGen) Next() (*Structure, error) {
	n := G.pos.NVecs()
	pos := G.pos.Copy()
	var row [3]float64
	for i := 0; i < n; i++ {
		pos.Row(row[:], i)
		for j := 0; j < 3; j++ {
			row[j] += G.amplitude * (2*G.rng.Float64() - 1)
		}
		pos.SetVec(i, row[:])
	}
	ret, err := G.start.CopyWithCoords(pos)
	if err != nil {
		return nil, errDecorate(err, "RattleGen.Next")
	}
	ret.SetInfo("name", fmt.Sprintf("rattle_%d", G.count))
	G.count++
	return ret, nil
}
