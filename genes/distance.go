package genes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Metric selects the pairwise metric over composite gene vectors.
type Metric int

const (
	Euclidean Metric = iota
	Manhattan
	//Cosine is the cosine distance 1 - a.b/(|a||b|). It takes no
	//differences, so it cannot honor angular columns: asking for it on a
	//space with angular columns is a configuration error.
	Cosine
)

// Equivalences declares index permutations of the composite vector under
// which structures are to be considered equivalent (e.g. orderings induced
// by a symmetry group of the underlying sites). The distance between two
// structures is then the minimum over all declared relabelings, which can
// only lower it. The identity permutation need not be listed; it is always
// considered.
type Equivalences struct {
	//Global permutations apply to every structure.
	Global [][]int
	//PerStructure permutations apply only to the structure at the given
	//collection index.
	PerStructure map[int][][]int
}

// DistMatrix is a symmetric, zero-diagonal, non-negative matrix of
// pairwise distances indexed by collection position.
type DistMatrix struct {
	n int
	d *mat.SymDense
}

// NewDistMatrix wraps an externally produced symmetric matrix after
// checking the DistMatrix invariants: zero diagonal and no negative or NaN
// entries. Used when unpacking archived results.
func NewDistMatrix(d *mat.SymDense) (*DistMatrix, error) {
	n, _ := d.Dims()
	for i := 0; i < n; i++ {
		if d.At(i, i) != 0 {
			return nil, CError{message: fmt.Sprintf("NewDistMatrix: non-zero diagonal at %d", i), critical: true}
		}
		for j := i + 1; j < n; j++ {
			v := d.At(i, j)
			if v < 0 || math.IsNaN(v) {
				return nil, CError{message: fmt.Sprintf("NewDistMatrix: invalid distance %g at (%d,%d)", v, i, j), critical: true}
			}
		}
	}
	ret := mat.NewSymDense(n, nil)
	ret.CopySym(d)
	return &DistMatrix{n: n, d: ret}, nil
}

// Len returns the number of structures the matrix is indexed by.
func (D *DistMatrix) Len() int { return D.n }

// At returns the distance between structures i and j.
func (D *DistMatrix) At(i, j int) float64 { return D.d.At(i, j) }

// Matrix returns a copy of the underlying symmetric matrix.
func (D *DistMatrix) Matrix() *mat.SymDense {
	ret := mat.NewSymDense(D.n, nil)
	ret.CopySym(D.d)
	return ret
}

// Distances computes the pairwise distance matrix of the gene space under
// the given metric. eq may be nil; when it is not, D[i][j] is the minimum
// over the declared equivalence relabelings of either side, so it never
// exceeds the plain distance. Cost is O(n^2 d), times the number of
// operators when equivalences are in play.
func (G *GeneSpace) Distances(metric Metric, eq *Equivalences) (*DistMatrix, error) {
	if metric != Euclidean && metric != Manhattan && metric != Cosine {
		return nil, newConfError(fmt.Sprintf("Distances: unknown metric %d", metric))
	}
	if metric == Cosine {
		for _, c := range G.cols {
			if c.Angular {
				return nil, newConfError(fmt.Sprintf("Distances: cosine metric cannot honor angular column of gene %q; use Euclidean or Manhattan", c.Gene))
			}
		}
	}
	if eq != nil {
		if err := G.checkEquivalences(eq); err != nil {
			return nil, errDecorate(err, "Distances")
		}
	}
	n := G.n
	d := mat.NewSymDense(n, nil)
	vi := make([]float64, G.Dim())
	vj := make([]float64, G.Dim())
	perm := make([]float64, G.Dim())
	for i := 0; i < n; i++ {
		G.Vector(vi, i)
		for j := i + 1; j < n; j++ {
			G.Vector(vj, j)
			dist := G.pairDist(metric, vi, vj)
			if eq != nil {
				for _, op := range eq.ops(j) {
					applyPerm(perm, vj, op)
					if alt := G.pairDist(metric, vi, perm); alt < dist {
						dist = alt
					}
				}
				//the operator sets need not be closed under inversion,
				//so the other side gets its relabelings too; this also
				//keeps D symmetric by construction
				for _, op := range eq.ops(i) {
					applyPerm(perm, vi, op)
					if alt := G.pairDist(metric, perm, vj); alt < dist {
						dist = alt
					}
				}
			}
			if dist < 0 || math.IsNaN(dist) {
				//not a data problem, an implementation bug
				return nil, CError{message: fmt.Sprintf("Distances: computed invalid distance %g between %d and %d", dist, i, j), critical: true}
			}
			d.SetSym(i, j, dist)
		}
	}
	return &DistMatrix{n: n, d: d}, nil
}

// ops returns the equivalence operators that apply to structure i.
func (eq *Equivalences) ops(i int) [][]int {
	if eq.PerStructure == nil {
		return eq.Global
	}
	ps, ok := eq.PerStructure[i]
	if !ok {
		return eq.Global
	}
	ret := make([][]int, 0, len(eq.Global)+len(ps))
	ret = append(ret, eq.Global...)
	ret = append(ret, ps...)
	return ret
}

func applyPerm(dst, v []float64, op []int) {
	for k, idx := range op {
		dst[k] = v[idx]
	}
}

// checkEquivalences validates every operator: it must be a permutation of
// the composite columns that maps columns onto columns with the same
// provenance flags (an angular column can only trade places with an
// angular column of the same period).
func (G *GeneSpace) checkEquivalences(eq *Equivalences) error {
	check := func(op []int) error {
		if len(op) != G.Dim() {
			return newConfError(fmt.Sprintf("equivalence operator has %d indexes for %d columns", len(op), G.Dim()))
		}
		seen := make([]bool, G.Dim())
		for k, idx := range op {
			if idx < 0 || idx >= G.Dim() || seen[idx] {
				return newConfError(fmt.Sprintf("equivalence operator is not a permutation (index %d)", idx))
			}
			seen[idx] = true
			a, b := G.cols[k], G.cols[idx]
			if a.Angular != b.Angular || a.Period != b.Period {
				return newConfError(fmt.Sprintf("equivalence operator maps column %d onto column %d with different angular metadata", idx, k))
			}
		}
		return nil
	}
	for _, op := range eq.Global {
		if err := check(op); err != nil {
			return err
		}
	}
	for _, ops := range eq.PerStructure {
		for _, op := range ops {
			if err := check(op); err != nil {
				return err
			}
		}
	}
	return nil
}

// pairDist computes the metric between two composite vectors, honoring
// angular columns for the difference-based metrics.
func (G *GeneSpace) pairDist(metric Metric, a, b []float64) float64 {
	switch metric {
	case Cosine:
		dot, na, nb := 0.0, 0.0, 0.0
		for k := range a {
			dot += a[k] * b[k]
			na += a[k] * a[k]
			nb += b[k] * b[k]
		}
		if na == 0 && nb == 0 {
			return 0
		}
		if na == 0 || nb == 0 {
			return 1
		}
		cos := dot / math.Sqrt(na*nb)
		if cos > 1 {
			cos = 1
		} else if cos < -1 {
			cos = -1
		}
		return 1 - cos
	case Manhattan:
		total := 0.0
		for k := range a {
			total += G.colDiff(k, a[k], b[k])
		}
		return total
	default: //Euclidean
		total := 0.0
		for k := range a {
			d := G.colDiff(k, a[k], b[k])
			total += d * d
		}
		return math.Sqrt(total)
	}
}

// colDiff is the absolute difference on column k: linear for plain
// columns, wrap-aware (min(|a-b|, period-|a-b|)) for angular ones.
func (G *GeneSpace) colDiff(k int, a, b float64) float64 {
	d := math.Abs(a - b)
	c := G.cols[k]
	if !c.Angular || c.Period == 0 {
		return d
	}
	d = math.Mod(d, c.Period)
	if wrapped := c.Period - d; wrapped < d {
		return wrapped
	}
	return d
}
