package properties

import (
	"fmt"
	"sort"

	soprano "github.com/samueljackson92/soprano"
	v3 "github.com/samueljackson92/soprano/v3"
)

func init() {
	Register(linkageList{})
}

// linkageList produces the "size" smallest interatomic distances of a
// structure, sorted ascending. For periodic structures every pair distance
// is the minimum-image one. This is the workhorse geometric fingerprint
// for phylogenetic analysis: it is invariant under rigid motions and under
// relabeling of the sites, and structures that are close in linkage space
// tend to be close polymorphs.
//
// Parameters: "size" (default 10), the number of distances kept. A
// structure with fewer than size site pairs is undefined for this
// property.
type linkageList struct{}

func (linkageList) Name() string { return "linkage_list" }

func (linkageList) Arity(p Params) int {
	return int(p.Get("size", 10))
}

func (l linkageList) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	size := int(p.Get("size", 10))
	return l.calc(s, size)
}

// CalcBatch is the batched fast path, with identical results to
// per-structure Calc.
func (l linkageList) CalcBatch(ss []*soprano.Structure, p Params) ([][]float64, error) {
	size := int(p.Get("size", 10))
	ret := make([][]float64, len(ss))
	for i, s := range ss {
		row, err := l.calc(s, size)
		if err != nil {
			return nil, CError{message: fmt.Sprintf("linkage_list: structure %d: %v", i, err)}
		}
		ret[i] = row
	}
	return ret, nil
}

func (linkageList) calc(s *soprano.Structure, size int) ([]float64, error) {
	n := s.Len()
	npairs := n * (n - 1) / 2
	if npairs < size {
		return nil, CError{message: fmt.Sprintf("linkage_list: structure has %d site pairs, need %d", npairs, size)}
	}
	//one displacement row per pair, minimum-imaged in one go for
	//periodic structures
	D := v3.Zeros(npairs)
	var a, b, d [3]float64
	k := 0
	for i := 0; i < n; i++ {
		s.CoordsRow(a[:], i)
		for j := i + 1; j < n; j++ {
			s.CoordsRow(b[:], j)
			d[0] = b[0] - a[0]
			d[1] = b[1] - a[1]
			d[2] = b[2] - a[2]
			D.SetVec(k, d[:])
			k++
		}
	}
	if s.PBC() {
		soprano.MinImageAll(D, s.Cell())
	}
	dists := make([]float64, npairs)
	for i := 0; i < npairs; i++ {
		dists[i] = D.VecNorm(i)
	}
	sort.Float64s(dists)
	return dists[:size], nil
}
