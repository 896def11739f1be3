package genes

import (
	"fmt"

	"github.com/samueljackson92/soprano/properties"
)

// NormMode selects the normalization applied to a gene's raw values before
// weighting. Statistics are always collection-level: computed once over the
// whole collection a GeneSpace is built from, never per structure.
type NormMode int

const (
	//NormNone leaves raw values untouched.
	NormNone NormMode = iota
	//NormMinMax maps the collection range of each column to [0,1].
	NormMinMax
	//NormZScore centers each column on its collection mean and scales by
	//its standard deviation.
	NormZScore
)

// Gene wraps one registered property with the metadata needed to use it as
// a clustering descriptor: a non-negative scalar weight (applied after
// normalization), a normalization mode, the parameter record for the
// property, and an optional angular flag that marks every column of this
// gene as a cyclic quantity with the given period.
type Gene struct {
	prop    properties.Property
	params  properties.Params
	weight  float64
	norm    NormMode
	angular bool
	period  float64
	arity   int
}

// NewGene builds a gene from the name of a registered property. The weight
// must be non-negative and the property's arity, which is fixed here at
// registration time, must be valid for the given parameters.
func NewGene(property string, weight float64, norm NormMode, params properties.Params) (*Gene, error) {
	prop, err := properties.Lookup(property)
	if err != nil {
		return nil, errDecorate(err, "NewGene")
	}
	if weight < 0 {
		return nil, newConfError(fmt.Sprintf("NewGene: gene %q has negative weight %g", property, weight))
	}
	if norm != NormNone && norm != NormMinMax && norm != NormZScore {
		return nil, newConfError(fmt.Sprintf("NewGene: gene %q has unknown normalization mode %d", property, norm))
	}
	arity := prop.Arity(params)
	if arity < 1 {
		return nil, newConfError(fmt.Sprintf("NewGene: invalid parameters for property %q", property))
	}
	ret := new(Gene)
	ret.prop = prop
	ret.params = params
	ret.weight = weight
	ret.norm = norm
	ret.arity = arity
	return ret, nil
}

// SetAngular marks every column of the gene as cyclic with the given
// period (e.g. 360 for angles in degrees). Difference-based metrics will
// use the wrap-aware difference min(|a-b|, period-|a-b|) on these columns.
func (g *Gene) SetAngular(period float64) error {
	if period <= 0 {
		return newConfError(fmt.Sprintf("SetAngular: gene %q needs a positive period, got %g", g.Name(), period))
	}
	g.angular = true
	g.period = period
	return nil
}

// Name returns the name of the wrapped property.
func (g *Gene) Name() string { return g.prop.Name() }

// Arity returns the fixed number of columns the gene contributes.
func (g *Gene) Arity() int { return g.arity }

// Weight returns the gene weight.
func (g *Gene) Weight() float64 { return g.weight }

// Angular returns whether the gene's columns are cyclic, and their period.
func (g *Gene) Angular() (bool, float64) { return g.angular, g.period }
