package phylogen

import (
	"fmt"
	"math"

	"github.com/samueljackson92/soprano/genes"
)

// Linkage selects the rule used to compute the distance between clusters
// from the distances of their members.
type Linkage int

const (
	Single Linkage = iota
	Complete
	Average
	Ward
)

// Merge is one step of the dendrogram: clusters Left and Right merged at
// the given distance into a cluster of Size structures. Cluster ids follow
// the usual convention: ids 0..n-1 are the leaves (collection indexes),
// and the merge at step k creates cluster n+k. Left always holds the
// cluster containing the lower original collection index.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Dendrogram is the full merge tree over a collection of n structures:
// n-1 merges in nondecreasing distance order.
type Dendrogram struct {
	n      int
	merges []Merge
}

// Assignment maps collection index to flat cluster id.
type Assignment []int

// NClusters returns the number of distinct cluster ids in the assignment.
func (A Assignment) NClusters() int {
	max := -1
	for _, c := range A {
		if c > max {
			max = c
		}
	}
	return max + 1
}

// Cluster builds the dendrogram of the given distance matrix by
// agglomerative hierarchical clustering under the given linkage rule.
// Clustering fewer than 2 structures is undefined and fails. When two
// candidate merges sit at exactly the same distance, the one whose
// clusters contain the lower original collection indexes wins, so the
// result is reproducible run to run.
func Cluster(dm *genes.DistMatrix, linkage Linkage) (*Dendrogram, error) {
	if linkage != Single && linkage != Complete && linkage != Average && linkage != Ward {
		return nil, newConfError(fmt.Sprintf("Cluster: unknown linkage rule %d", linkage))
	}
	n := dm.Len()
	if n < 2 {
		return nil, newConfError(fmt.Sprintf("Cluster: can't cluster a collection of %d structures", n))
	}
	//Distances between clusters, indexed by cluster id (leaves 0..n-1,
	//merge k creates id n+k). The Lance-Williams update only ever needs
	//distances between active clusters, but keeping the full triangle
	//indexed by id is simpler and n stays small in practice.
	nids := 2*n - 1
	d := make([][]float64, nids)
	for i := range d {
		d[i] = make([]float64, nids)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d[i][j] = dm.At(i, j)
			d[j][i] = d[i][j]
		}
	}
	active := make([]bool, nids)
	size := make([]int, nids)
	minMember := make([]int, nids)
	for i := 0; i < n; i++ {
		active[i] = true
		size[i] = 1
		minMember[i] = i
	}
	merges := make([]Merge, 0, n-1)
	for step := 0; step < n-1; step++ {
		//find the closest active pair, ties broken by the lower
		//original-index pair
		besti, bestj := -1, -1
		bestd := math.Inf(1)
		for i := 0; i < n+step; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n+step; j++ {
				if !active[j] {
					continue
				}
				dij := d[i][j]
				if besti < 0 || dij < bestd || (dij == bestd && pairLess(minMember[i], minMember[j], minMember[besti], minMember[bestj])) {
					bestd = dij
					besti, bestj = i, j
				}
			}
		}
		newid := n + step
		active[besti] = false
		active[bestj] = false
		active[newid] = true
		size[newid] = size[besti] + size[bestj]
		if minMember[besti] < minMember[bestj] {
			minMember[newid] = minMember[besti]
		} else {
			minMember[newid] = minMember[bestj]
		}
		//Lance-Williams update of distances from every other active
		//cluster to the merged one
		for k := 0; k < newid; k++ {
			if !active[k] {
				continue
			}
			d[k][newid] = updateDist(linkage, d[k][besti], d[k][bestj], d[besti][bestj], size[besti], size[bestj], size[k])
			d[newid][k] = d[k][newid]
		}
		left, right := besti, bestj
		if minMember[bestj] < minMember[besti] {
			left, right = bestj, besti
		}
		merges = append(merges, Merge{Left: left, Right: right, Distance: bestd, Size: size[newid]})
	}
	return &Dendrogram{n: n, merges: merges}, nil
}

// pairLess reports whether the candidate pair with cluster minimum
// original indexes (a1,a2) precedes the one with (b1,b2), comparing the
// sorted index pairs lexicographically.
func pairLess(a1, a2, b1, b2 int) bool {
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	if b2 < b1 {
		b1, b2 = b2, b1
	}
	if a1 != b1 {
		return a1 < b1
	}
	return a2 < b2
}

func updateDist(linkage Linkage, dki, dkj, dij float64, ni, nj, nk int) float64 {
	switch linkage {
	case Single:
		return math.Min(dki, dkj)
	case Complete:
		return math.Max(dki, dkj)
	case Average:
		return (float64(ni)*dki + float64(nj)*dkj) / float64(ni+nj)
	default: //Ward
		t := float64(nk + ni + nj)
		v := (float64(nk+ni)*dki*dki + float64(nk+nj)*dkj*dkj - float64(nk)*dij*dij) / t
		if v < 0 {
			v = 0 //floating point drift on degenerate merges
		}
		return math.Sqrt(v)
	}
}

// Len returns the number of structures (leaves) under the dendrogram.
func (T *Dendrogram) Len() int { return T.n }

// Merges returns a copy of the merge list, in merge order.
func (T *Dendrogram) Merges() []Merge {
	return append([]Merge{}, T.merges...)
}

// NClusters wraps a target cluster count for Cut.
func NClusters(k int) *int { return &k }

// Threshold wraps a distance threshold for Cut.
func Threshold(t float64) *float64 { return &t }

// Cut extracts a flat partition from the dendrogram. Exactly one of
// nclusters and threshold must be non-nil: either the merge list is
// unwound until nclusters clusters remain, or every merge at distance <=
// threshold is applied (so a threshold of 0 separates everything except
// exact duplicates). Cluster ids are assigned in order of first appearance
// when scanning structures in collection order; cutting twice at the same
// parameter gives the same Assignment.
func (T *Dendrogram) Cut(nclusters *int, threshold *float64) (Assignment, error) {
	if (nclusters == nil) == (threshold == nil) {
		return nil, newConfError("Cut: exactly one of nclusters and threshold must be given")
	}
	applied := 0
	if nclusters != nil {
		k := *nclusters
		if k < 1 || k > T.n {
			return nil, newConfError(fmt.Sprintf("Cut: can't cut %d structures into %d clusters", T.n, k))
		}
		applied = T.n - k
	} else {
		t := *threshold
		if t < 0 {
			return nil, newConfError(fmt.Sprintf("Cut: negative distance threshold %g", t))
		}
		//merges are in nondecreasing distance order for the supported
		//linkage rules, so the applicable ones are a prefix
		for applied < len(T.merges) && T.merges[applied].Distance <= t {
			applied++
		}
	}
	parent := make([]int, T.n+applied)
	for i := range parent {
		parent[i] = i
	}
	for k := 0; k < applied; k++ {
		newid := T.n + k
		parent[T.merges[k].Left] = newid
		parent[T.merges[k].Right] = newid
	}
	root := func(i int) int {
		for parent[i] != i {
			i = parent[i]
		}
		return i
	}
	ret := make(Assignment, T.n)
	ids := map[int]int{}
	for i := 0; i < T.n; i++ {
		r := root(i)
		id, ok := ids[r]
		if !ok {
			id = len(ids)
			ids[r] = id
		}
		ret[i] = id
	}
	return ret, nil
}
