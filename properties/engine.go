package properties

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	soprano "github.com/samueljackson92/soprano"
)

// Policy decides what happens when a property fails on one structure.
type Policy int

const (
	//Abort makes the whole application fail on the first per-structure
	//evaluation error.
	Abort Policy = iota
	//Skip logs the failure and marks the result slot as missing (a row of
	//NaN), see Missing.
	Skip
)

// Options holds the adjustable settings of an Engine.
type Options struct {
	policy Policy
	cpus   int
}

// DefaultOptions returns an Options with the default settings: Abort
// policy, serial evaluation.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.policy = Abort
	ret.cpus = 1
	return ret
}

// Policy returns the current failure policy and sets it to the given
// value, if any.
func (r *Options) Policy(policy ...Policy) Policy {
	ret := r.policy
	if len(policy) > 0 {
		r.policy = policy[0]
	}
	return ret
}

// Cpus returns the current number of goroutines used to evaluate a
// property over a collection, and sets it, if a valid value is given.
// Values above 1 enable concurrent evaluation; results are always
// reassembled in collection order no matter the execution order.
func (r *Options) Cpus(cpus ...int) int {
	ret := r.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		r.cpus = cpus[0]
		if r.cpus > runtime.NumCPU() {
			r.cpus = runtime.NumCPU()
		}
	}
	return ret
}

// Missing reports whether a result row is the missing-value sentinel the
// Skip policy writes (every component NaN).
func Missing(row []float64) bool {
	if len(row) == 0 {
		return false
	}
	for _, v := range row {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func missingRow(arity int) []float64 {
	ret := make([]float64, arity)
	for i := range ret {
		ret[i] = math.NaN()
	}
	return ret
}

type cacheKey struct {
	prop      string
	structure uint64
	nsites    int
	params    uint64
}

// Engine applies properties over collections. It owns a result cache keyed
// by (property name, structural hash, parameter hash) whose lifetime is
// one pipeline run: make one Engine per run and don't share it across
// concurrent runs. Cached results are copied on the way in and on the way
// out, so no caller ever aliases cache memory.
type Engine struct {
	opts  *Options
	cache map[cacheKey][]float64
}

// NewEngine returns an Engine with the given options. A nil opts means
// DefaultOptions.
func NewEngine(opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Engine{opts: opts, cache: map[cacheKey][]float64{}}
}

// Reset drops every cached result. Call it when reusing an Engine for a
// new, unrelated run.
func (E *Engine) Reset() {
	E.cache = map[cacheKey][]float64{}
}

// Apply evaluates the property on every structure of the collection and
// returns one result row per structure, in collection order. Cached
// results are reused; a batched fast path is taken when the property
// offers one and concurrency is off. Per-structure failures follow the
// Engine policy; everything else (aggregate-only property, bad arity,
// inconsistent collection) aborts with no partial result.
func (E *Engine) Apply(prop Property, coll *soprano.Collection, p Params) ([][]float64, error) {
	if _, ok := prop.(Aggregator); ok {
		return nil, newConfError(fmt.Sprintf("Apply: property %q is aggregate-only, use ApplyAggregate", prop.Name()))
	}
	if err := coll.Validate(); err != nil {
		return nil, errDecorate(err, "Apply")
	}
	arity := prop.Arity(p)
	if arity < 1 {
		return nil, newConfError(fmt.Sprintf("Apply: invalid parameters for property %q", prop.Name()))
	}
	n := coll.Len()
	phash := p.hash()
	results := make([][]float64, n)
	keys := make([]cacheKey, n)
	uncached := make([]int, 0, n)
	for i := 0; i < n; i++ {
		s := coll.Structure(i)
		keys[i] = cacheKey{prop.Name(), s.Hash(), s.Len(), phash}
		if row, ok := E.cache[keys[i]]; ok {
			if len(row) != arity {
				//A key that maps to a result of the wrong shape means a
				//collision or a non-pure property. Not recoverable.
				return nil, newConfError(fmt.Sprintf("Apply: cache collision on property %q, structure %d", prop.Name(), i))
			}
			results[i] = append([]float64{}, row...)
			continue
		}
		uncached = append(uncached, i)
	}
	if len(uncached) == 0 {
		return results, nil
	}
	var err error
	if b, ok := prop.(Batcher); ok && E.opts.cpus <= 1 {
		err = E.applyBatch(b, coll, p, arity, uncached, results)
		if _, evalerr := err.(EvalError); evalerr && E.opts.policy == Skip {
			//the batch path can't skip individual structures, redo the
			//failed lot one by one
			err = E.applySerial(prop, coll, p, arity, uncached, results)
		}
	} else if E.opts.cpus > 1 {
		err = E.applyConc(prop, coll, p, arity, uncached, results)
	} else {
		err = E.applySerial(prop, coll, p, arity, uncached, results)
	}
	if err != nil {
		return nil, err
	}
	for _, i := range uncached {
		if Missing(results[i]) {
			continue //missing slots are per-run, they are not cached
		}
		E.cache[keys[i]] = append([]float64{}, results[i]...)
	}
	return results, nil
}

// ApplyAggregate evaluates an aggregate-only property once over the whole
// collection and returns its single result. Aggregate results are not
// cached: they depend on the collection, not on single structures.
func (E *Engine) ApplyAggregate(prop Property, coll *soprano.Collection, p Params) ([]float64, error) {
	agg, ok := prop.(Aggregator)
	if !ok {
		return nil, newConfError(fmt.Sprintf("ApplyAggregate: property %q is not aggregate-only", prop.Name()))
	}
	if err := coll.Validate(); err != nil {
		return nil, errDecorate(err, "ApplyAggregate")
	}
	arity := prop.Arity(p)
	if arity < 1 {
		return nil, newConfError(fmt.Sprintf("ApplyAggregate: invalid parameters for property %q", prop.Name()))
	}
	row, err := agg.CalcAggregate(coll.Structures(), p)
	if err != nil {
		return nil, errDecorate(err, "ApplyAggregate")
	}
	if len(row) != arity {
		return nil, newConfError(fmt.Sprintf("ApplyAggregate: property %q declared arity %d but produced %d values", prop.Name(), arity, len(row)))
	}
	return append([]float64{}, row...), nil
}

func (E *Engine) applySerial(prop Property, coll *soprano.Collection, p Params, arity int, indexes []int, results [][]float64) error {
	for _, i := range indexes {
		row, err := prop.Calc(coll.Structure(i), p)
		if err != nil {
			if E.opts.policy == Skip {
				log.Printf("soprano/properties: property %q undefined for structure %d, skipped: %v", prop.Name(), i, err)
				results[i] = missingRow(arity)
				continue
			}
			return newEvalError(i, fmt.Sprintf("Apply: property %q failed on structure %d: %v", prop.Name(), i, err))
		}
		if len(row) != arity {
			return newConfError(fmt.Sprintf("Apply: property %q declared arity %d but produced %d values on structure %d", prop.Name(), arity, len(row), i))
		}
		results[i] = append([]float64{}, row...)
	}
	return nil
}

func (E *Engine) applyBatch(prop Batcher, coll *soprano.Collection, p Params, arity int, indexes []int, results [][]float64) error {
	ss := make([]*soprano.Structure, len(indexes))
	for k, i := range indexes {
		ss[k] = coll.Structure(i)
	}
	rows, err := prop.CalcBatch(ss, p)
	if err != nil {
		return newEvalError(-1, fmt.Sprintf("Apply: batched property %q failed: %v", prop.Name(), err))
	}
	if len(rows) != len(indexes) {
		return newConfError(fmt.Sprintf("Apply: batched property %q returned %d rows for %d structures", prop.Name(), len(rows), len(indexes)))
	}
	for k, i := range indexes {
		if len(rows[k]) != arity {
			return newConfError(fmt.Sprintf("Apply: property %q declared arity %d but produced %d values on structure %d", prop.Name(), arity, len(rows[k]), i))
		}
		results[i] = append([]float64{}, rows[k]...)
	}
	return nil
}

// applyConc evaluates the uncached structures with a fixed pool of
// goroutines. Workers write to disjoint slots addressed by collection
// index, so the output order is the collection order no matter which
// worker finishes first. The cache is only touched by the caller, after
// every worker is done.
func (E *Engine) applyConc(prop Property, coll *soprano.Collection, p Params, arity int, indexes []int, results [][]float64) error {
	rows := make([][]float64, len(indexes))
	errs := make([]error, len(indexes))
	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < E.opts.cpus; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range work {
				rows[k], errs[k] = prop.Calc(coll.Structure(indexes[k]), p)
			}
		}()
	}
	for k := range indexes {
		work <- k
	}
	close(work)
	wg.Wait()
	for k, i := range indexes {
		if errs[k] != nil {
			if E.opts.policy == Skip {
				log.Printf("soprano/properties: property %q undefined for structure %d, skipped: %v", prop.Name(), i, errs[k])
				results[i] = missingRow(arity)
				continue
			}
			return newEvalError(i, fmt.Sprintf("Apply: property %q failed on structure %d: %v", prop.Name(), i, errs[k]))
		}
		if len(rows[k]) != arity {
			return newConfError(fmt.Sprintf("Apply: property %q declared arity %d but produced %d values on structure %d", prop.Name(), arity, len(rows[k]), i))
		}
		results[i] = append([]float64{}, rows[k]...)
	}
	return nil
}
