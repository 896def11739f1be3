package properties

import (
	"math"
	"strings"
	"testing"

	soprano "github.com/samueljackson92/soprano"
	v3 "github.com/samueljackson92/soprano/v3"
)

//test-only properties, registered once for the whole test binary

// countingX0 returns the x coordinate of the first site and counts how
// many times Calc actually ran, to observe the cache.
type countingX0 struct {
	calls int
}

func (c *countingX0) Name() string       { return "test_counting_x0" }
func (c *countingX0) Arity(p Params) int { return 1 }
func (c *countingX0) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	c.calls++
	var row [3]float64
	s.CoordsRow(row[:], 0)
	return []float64{row[0]}, nil
}

// occupancy0 returns the occupancy of the first site; properties may read
// any site field, so the cache has to tell such structures apart.
type occupancy0 struct{}

func (occupancy0) Name() string       { return "test_occupancy0" }
func (occupancy0) Arity(p Params) int { return 1 }
func (occupancy0) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	return []float64{s.Site(0).Occupancy}, nil
}

// failAbove fails on any structure whose first x coordinate exceeds the
// "limit" parameter.
type failAbove struct{}

func (failAbove) Name() string       { return "test_fail_above" }
func (failAbove) Arity(p Params) int { return 1 }
func (failAbove) Calc(s *soprano.Structure, p Params) ([]float64, error) {
	var row [3]float64
	s.CoordsRow(row[:], 0)
	if row[0] > p.Get("limit", 0) {
		return nil, newEvalError(-1, "test_fail_above: over the limit")
	}
	return []float64{row[0]}, nil
}

var counter = &countingX0{}

func init() {
	Register(counter)
	Register(occupancy0{})
	Register(failAbove{})
}

func xcoll(Te *testing.T, xs ...float64) *soprano.Collection {
	ss := make([]*soprano.Structure, len(xs))
	for i, x := range xs {
		coords, err := v3.NewMatrix([]float64{x, 0, 0})
		if err != nil {
			Te.Fatal(err)
		}
		ss[i], err = soprano.NewStructure([]*soprano.Site{{Symbol: "H"}}, coords, nil)
		if err != nil {
			Te.Fatal(err)
		}
	}
	return soprano.NewCollection(ss)
}

func TestErrorKinds(Te *testing.T) {
	//the concrete kinds must work as plain errors and as soprano.Error
	var err error = newConfError("bad setup")
	if err.Error() != "bad setup" {
		Te.Error("Wrong ConfError message", err.Error())
	}
	deco := err.(soprano.Error).Decorate("Caller")
	if len(deco) != 1 || deco[0] != "Caller" {
		Te.Error("ConfError didn't decorate", deco)
	}
	err = newEvalError(3, "boom")
	everr, ok := err.(EvalError)
	if !ok {
		Te.Fatalf("EvalError lost its type through the error interface: %T", err)
	}
	if everr.StructureIndex() != 3 || everr.Error() != "boom" {
		Te.Error("Wrong EvalError contents")
	}
	if _, ok := err.(soprano.Error); !ok {
		Te.Error("EvalError should satisfy soprano.Error")
	}
}

func TestLookup(Te *testing.T) {
	p, err := Lookup("num_sites")
	if err != nil {
		Te.Fatal(err)
	}
	if p.Arity(nil) != 1 {
		Te.Error("num_sites should have arity 1")
	}
	_, err = Lookup("no_such_property")
	if err == nil {
		Te.Fatal("Lookup of a missing property should fail")
	}
	if _, ok := err.(ConfError); !ok {
		Te.Errorf("Expected a ConfError, got %T", err)
	}
}

func TestApplyAndCache(Te *testing.T) {
	coll := xcoll(Te, 1, 2, 2) //structures 1 and 2 are identical
	E := NewEngine(nil)
	counter.calls = 0
	res, err := E.Apply(counter, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(res) != 3 || res[0][0] != 1 || res[1][0] != 2 || res[2][0] != 2 {
		Te.Fatal("Wrong results", res)
	}
	first := counter.calls
	if first != 3 {
		Te.Errorf("Expected 3 evaluations on a cold cache, got %d", first)
	}
	//a second run over the same collection should be answered entirely
	//from the cache
	if _, err := E.Apply(counter, coll, nil); err != nil {
		Te.Fatal(err)
	}
	if counter.calls != first {
		Te.Errorf("Cache miss on identical inputs: %d extra evaluations", counter.calls-first)
	}
	//different parameters must not hit the same cache entries
	if _, err := E.Apply(counter, coll, Params{"anything": 1}); err != nil {
		Te.Fatal(err)
	}
	if counter.calls == first {
		Te.Error("Different parameters reused cached results")
	}
	E.Reset()
	calls := counter.calls
	if _, err := E.Apply(counter, coll, nil); err != nil {
		Te.Fatal(err)
	}
	if counter.calls == calls {
		Te.Error("Reset did not drop the cache")
	}
	//the returned rows must not alias cache memory
	res[0][0] = 999
	res2, err := E.Apply(counter, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if res2[0][0] != 1 {
		Te.Error("Caller writes reached the cache")
	}
}

func TestCacheSeparatesSiteFields(Te *testing.T) {
	//same symbols and coordinates, different occupancies: the cache must
	//keep the results apart
	coords, err := v3.NewMatrix([]float64{0, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	full, err := soprano.NewStructure([]*soprano.Site{{Symbol: "H", Occupancy: 1.0}}, coords, nil)
	if err != nil {
		Te.Fatal(err)
	}
	half, err := soprano.NewStructure([]*soprano.Site{{Symbol: "H", Occupancy: 0.5}}, coords, nil)
	if err != nil {
		Te.Fatal(err)
	}
	coll := soprano.NewCollection([]*soprano.Structure{full, half})
	E := NewEngine(nil)
	res, err := E.Apply(occupancy0{}, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if res[0][0] != 1.0 || res[1][0] != 0.5 {
		Te.Fatalf("Occupancy results got mixed up: %v", res)
	}
	//same again with the cache warm
	res, err = E.Apply(occupancy0{}, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if res[0][0] != 1.0 || res[1][0] != 0.5 {
		Te.Fatalf("The cache served one occupancy's result for the other: %v", res)
	}
}

func TestPolicies(Te *testing.T) {
	coll := xcoll(Te, 1, 5, 2)
	p := Params{"limit": 3}
	//Abort: the first failure kills the whole application
	E := NewEngine(nil)
	_, err := E.Apply(failAbove{}, coll, p)
	if err == nil {
		Te.Fatal("Abort policy should have failed")
	}
	everr, ok := err.(EvalError)
	if !ok {
		Te.Fatalf("Expected an EvalError, got %T", err)
	}
	if everr.StructureIndex() != 1 {
		Te.Errorf("Wrong failing structure index %d", everr.StructureIndex())
	}
	//Skip: the failing slot becomes a missing row, the rest survives
	opts := DefaultOptions()
	opts.Policy(Skip)
	E = NewEngine(opts)
	res, err := E.Apply(failAbove{}, coll, p)
	if err != nil {
		Te.Fatal(err)
	}
	if !Missing(res[1]) {
		Te.Error("Failing slot should be the missing sentinel", res[1])
	}
	if res[0][0] != 1 || res[2][0] != 2 {
		Te.Error("Skip corrupted the surviving slots", res)
	}
	//missing slots are not cached: a retry with a laxer limit recomputes
	res, err = E.Apply(failAbove{}, coll, Params{"limit": 10})
	if err != nil {
		Te.Fatal(err)
	}
	if Missing(res[1]) {
		Te.Error("A structure valid under the new parameters came back missing")
	}
}

func TestApplyConcurrent(Te *testing.T) {
	xs := make([]float64, 50)
	for i := range xs {
		xs[i] = float64(i)
	}
	coll := xcoll(Te, xs...)
	opts := DefaultOptions()
	opts.Cpus(4)
	E := NewEngine(opts)
	res, err := E.Apply(failAbove{}, coll, Params{"limit": 1000})
	if err != nil {
		Te.Fatal(err)
	}
	for i := range xs {
		if res[i][0] != xs[i] {
			Te.Fatalf("Concurrent evaluation broke the collection order at %d: %f", i, res[i][0])
		}
	}
}

func TestBatchedProperty(Te *testing.T) {
	//linkage_list has a batched path; a 3-site structure has 3 pairs
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0, 0, 2, 0})
	sites := []*soprano.Site{{Symbol: "H"}, {Symbol: "H"}, {Symbol: "H"}}
	s, err := soprano.NewStructure(sites, coords, nil)
	if err != nil {
		Te.Fatal(err)
	}
	coll := soprano.NewCollection([]*soprano.Structure{s})
	prop, err := Lookup("linkage_list")
	if err != nil {
		Te.Fatal(err)
	}
	if _, ok := prop.(Batcher); !ok {
		Te.Fatal("linkage_list should offer a batched path")
	}
	E := NewEngine(nil)
	res, err := E.Apply(prop, coll, Params{"size": 3})
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{1, 2, math.Sqrt(5)}
	for i, w := range want {
		if math.Abs(res[0][i]-w) > 1e-12 {
			Te.Errorf("Wrong sorted distance %d: %f vs %f", i, res[0][i], w)
		}
	}
	//asking for more pair distances than the structure has is a
	//per-structure failure, so the policy decides
	if _, err := E.Apply(prop, coll, Params{"size": 10}); err == nil {
		Te.Error("Oversized linkage list should fail under Abort")
	}
}

func TestAggregate(Te *testing.T) {
	coll := xcoll(Te, 0, 1)
	prop, err := Lookup("mean_mass")
	if err != nil {
		Te.Fatal(err)
	}
	E := NewEngine(nil)
	//aggregate-only properties are rejected by the per-structure path...
	_, err = E.Apply(prop, coll, nil)
	if err == nil {
		Te.Fatal("Apply should reject an aggregate-only property")
	}
	if !strings.Contains(err.Error(), "aggregate-only") {
		Te.Error("Unexpected rejection message:", err)
	}
	//...and served by ApplyAggregate
	res, err := E.ApplyAggregate(prop, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(res) != 1 || math.Abs(res[0]-1.008) > 1e-6 {
		Te.Error("Wrong mean mass for an all-hydrogen collection", res)
	}
	//and the other way around
	ns, _ := Lookup("num_sites")
	if _, err := E.ApplyAggregate(ns, coll, nil); err == nil {
		Te.Error("ApplyAggregate should reject a per-structure property")
	}
}

func TestLatticeProperties(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0})
	cell, _ := v3.NewMatrix([]float64{2, 0, 0, 0, 3, 0, 0, 0, 4})
	s, err := soprano.NewStructure([]*soprano.Site{{Symbol: "H"}}, coords, cell)
	if err != nil {
		Te.Fatal(err)
	}
	coll := soprano.NewCollection([]*soprano.Structure{s})
	E := NewEngine(nil)
	abc, _ := Lookup("latt_abc_len")
	res, err := E.Apply(abc, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if res[0][0] != 2 || res[0][1] != 3 || res[0][2] != 4 {
		Te.Error("Wrong lattice lengths", res[0])
	}
	ang, _ := Lookup("latt_abc_ang")
	res, err = E.Apply(ang, coll, nil)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(res[0][i]-90) > 1e-10 {
			Te.Error("Orthorhombic cell should have 90 degree angles", res[0])
		}
	}
}

func TestLatticeAnglesZeroVector(Te *testing.T) {
	//a degenerate cell must be refused, not silently produce NaN angles
	coords, _ := v3.NewMatrix([]float64{0, 0, 0})
	cell, _ := v3.NewMatrix([]float64{2, 0, 0, 0, 0, 0, 0, 0, 4})
	s, err := soprano.NewStructure([]*soprano.Site{{Symbol: "H"}}, coords, cell)
	if err != nil {
		Te.Fatal(err)
	}
	coll := soprano.NewCollection([]*soprano.Structure{s})
	E := NewEngine(nil)
	ang, _ := Lookup("latt_abc_ang")
	res, err := E.Apply(ang, coll, nil)
	if err == nil {
		Te.Fatal("Zero-length lattice vector accepted, got angles", res[0])
	}
	if res != nil {
		Te.Error("Results returned together with the error", res)
	}
	everr, ok := err.(EvalError)
	if !ok {
		Te.Fatalf("Expected a per-structure error, got %T", err)
	}
	if everr.StructureIndex() != 0 {
		Te.Error("Wrong structure index on the error", everr.StructureIndex())
	}
}
