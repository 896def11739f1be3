package properties

import (
	"fmt"
	"math"

	soprano "github.com/samueljackson92/soprano"
)

func init() {
	Register(lattABC{})
	Register(lattAngles{})
	Register(numSites{})
	Register(massDensity{})
	Register(meanMass{})
}

// lattABC produces the lengths of the 3 lattice vectors, in A. Undefined
// for non-periodic structures.
type lattABC struct{}

func (lattABC) Name() string       { return "latt_abc_len" }
func (lattABC) Arity(p Params) int { return 3 }

func (lattABC) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	cell := s.Cell()
	if cell == nil {
		return nil, CError{message: "latt_abc_len: structure has no periodic cell"}
	}
	return []float64{cell.VecNorm(0), cell.VecNorm(1), cell.VecNorm(2)}, nil
}

// lattAngles produces the 3 cell angles alpha, beta, gamma in degrees
// (alpha between b and c, beta between a and c, gamma between a and b).
/// These are cyclic quantities: genes built on them should be flagged
// angular so distances wrap instead of taking the linear difference.
type lattAngles struct{}

func (lattAngles) Name() string       { return "latt_abc_ang" }
func (lattAngles) Arity(p Params) int { return 3 }

func (lattAngles) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	cell := s.Cell()
	if cell == nil {
		return nil, CError{message: "latt_abc_ang: structure has no periodic cell"}
	}
	for i := 0; i < 3; i++ {
		if cell.VecNorm(i) == 0 {
			return nil, CError{message: fmt.Sprintf("latt_abc_ang: lattice vector %d has zero length, angles are undefined", i)}
		}
	}
	var a, b, c [3]float64
	cell.Row(a[:], 0)
	cell.Row(b[:], 1)
	cell.Row(c[:], 2)
	alpha := vecAngle(b, c)
	beta := vecAngle(a, c)
	gamma := vecAngle(a, b)
	return []float64{alpha, beta, gamma}, nil
}

func vecAngle(u, v [3]float64) float64 {
	dot := u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	nu := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	nv := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	cos := dot / (nu * nv)
	//clamp against floating point drift before Acos
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// numSites produces the number of sites in the structure.
type numSites struct{}

func (numSites) Name() string       { return "num_sites" }
func (numSites) Arity(p Params) int { return 1 }

func (numSites) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	return []float64{float64(s.Len())}, nil
}

// massDensity produces the mass density of a periodic structure in
// amu/A^3. Undefined for non-periodic structures and for elements missing
// from the internal mass table.
type massDensity struct{}

func (massDensity) Name() string       { return "mass_density" }
func (massDensity) Arity(p Params) int { return 1 }

func (massDensity) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	if !s.PBC() {
		return nil, CError{message: "mass_density: structure has no periodic cell"}
	}
	total := 0.0
	for i := 0; i < s.Len(); i++ {
		m, err := soprano.Mass(s.Site(i).Symbol)
		if err != nil {
			return nil, errDecorate(err, "mass_density")
		}
		total += m
	}
	return []float64{total / s.Volume()}, nil
}

// meanMass is an aggregate-only property: the mean site mass over all the
// structures of a collection, as a single value.
type meanMass struct{}

func (meanMass) Name() string       { return "mean_mass" }
func (meanMass) Arity(p Params) int { return 1 }

func (meanMass) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	return nil, newConfError("mean_mass: aggregate-only property, use ApplyAggregate")
}

func (meanMass) CalcAggregate(ss []*soprano.Structure, p Params) ([]float64, error) {
	total := 0.0
	count := 0
	for k, s := range ss {
		for i := 0; i < s.Len(); i++ {
			m, err := soprano.Mass(s.Site(i).Symbol)
			if err != nil {
				return nil, CError{message: fmt.Sprintf("mean_mass: structure %d: %v", k, err)}
			}
			total += m
			count++
		}
	}
	if count == 0 {
		return nil, CError{message: "mean_mass: no sites in collection"}
	}
	return []float64{total / float64(count)}, nil
}
