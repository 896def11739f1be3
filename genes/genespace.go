package genes

import (
	"fmt"
	"math"

	soprano "github.com/samueljackson92/soprano"
	"github.com/samueljackson92/soprano/properties"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ColInfo is the provenance of one column of a composite gene matrix.
type ColInfo struct {
	Gene    string  //name of the gene (property) the column comes from
	Index   int     //index of the column within that gene
	Angular bool    //whether the column is a cyclic quantity
	Period  float64 //the cycle period, in the column's final (normalized, weighted) units
	Weight  float64
}

// GeneSpace is the composite feature space of one collection under one
// ordered gene list: a matrix with one row per structure (in collection
// order) and the concatenated, normalized, weighted gene outputs as
// columns (in gene-list order). The column layout is a deterministic
// function of the gene list; building twice from the same collection and
// genes gives identical matrices.
type GeneSpace struct {
	n      int
	genes  []*Gene
	matrix *mat.Dense
	cols   []ColInfo
}

// Build evaluates every gene over the collection through the given engine
// and assembles the composite matrix. A nil engine gets default options.
// Normalization statistics are computed here, once, over this collection;
// degenerate statistics (a column where every structure agrees) normalize
// to all zeros instead of dividing by zero. Build refuses collections with
// missing (skipped) property results: genes need a complete matrix.
func Build(coll *soprano.Collection, gg []*Gene, engine *properties.Engine) (*GeneSpace, error) {
	if coll.Len() < 1 {
		return nil, newConfError("Build: empty collection")
	}
	if len(gg) < 1 {
		return nil, newConfError("Build: no genes given")
	}
	if engine == nil {
		engine = properties.NewEngine(nil)
	}
	n := coll.Len()
	dim := 0
	for _, g := range gg {
		dim += g.Arity()
	}
	matrix := mat.NewDense(n, dim, nil)
	cols := make([]ColInfo, 0, dim)
	offset := 0
	for _, g := range gg {
		rows, err := engine.Apply(g.prop, coll, g.params)
		if err != nil {
			return nil, errDecorate(err, "Build")
		}
		for i, row := range rows {
			if properties.Missing(row) {
				return nil, CError{message: fmt.Sprintf("Build: gene %q missing for structure %d; genes need a complete collection", g.Name(), i), critical: true}
			}
		}
		angular, period := g.Angular()
		column := make([]float64, n)
		for c := 0; c < g.Arity(); c++ {
			for i := 0; i < n; i++ {
				column[i] = rows[i][c]
			}
			scale := normalizeColumn(column, g.norm)
			floats.Scale(g.weight, column)
			for i := 0; i < n; i++ {
				matrix.Set(i, offset+c, column[i])
			}
			info := ColInfo{Gene: g.Name(), Index: c, Weight: g.weight}
			if angular {
				info.Angular = true
				//the period has to live in the same units as the final
				//column values, so it picks up both the normalization
				//scale and the weight
				info.Period = period * scale * g.weight
			}
			cols = append(cols, info)
		}
		offset += g.Arity()
	}
	ret := new(GeneSpace)
	ret.n = n
	ret.genes = append([]*Gene{}, gg...)
	ret.matrix = matrix
	ret.cols = cols
	return ret, nil
}

// normalizeColumn normalizes vals in place and returns the scale factor
// applied (the factor raw differences got multiplied by), which angular
// periods must follow. Degenerate statistics give an all-zero column and a
// zero scale.
func normalizeColumn(vals []float64, norm NormMode) float64 {
	switch norm {
	case NormMinMax:
		min := floats.Min(vals)
		max := floats.Max(vals)
		if max == min {
			zero(vals)
			return 0
		}
		for i, v := range vals {
			vals[i] = (v - min) / (max - min)
		}
		return 1 / (max - min)
	case NormZScore:
		mean, std := stat.MeanStdDev(vals, nil)
		//a single observation gives a NaN sample deviation, which is as
		//degenerate as an all-equal column
		if std == 0 || math.IsNaN(std) {
			zero(vals)
			return 0
		}
		for i, v := range vals {
			vals[i] = (v - mean) / std
		}
		return 1 / std
	default:
		return 1
	}
}

func zero(vals []float64) {
	for i := range vals {
		vals[i] = 0
	}
}

// Len returns the number of structures (rows).
func (G *GeneSpace) Len() int { return G.n }

// Dim returns the number of composite columns.
func (G *GeneSpace) Dim() int { return len(G.cols) }

// Matrix returns a copy of the composite matrix.
func (G *GeneSpace) Matrix() *mat.Dense {
	return mat.DenseCopyOf(G.matrix)
}

// Cols returns a copy of the column provenance metadata, in column order.
func (G *GeneSpace) Cols() []ColInfo {
	return append([]ColInfo{}, G.cols...)
}

// Vector fills dst with the composite vector of the ith structure and
// returns it. If dst is nil a new slice is allocated.
func (G *GeneSpace) Vector(dst []float64, i int) []float64 {
	return mat.Row(dst, i, G.matrix)
}
