package properties

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	soprano "github.com/samueljackson92/soprano"
)

// Params is the parameter record passed to a property. Only numeric
// parameters are supported; that keeps the record trivially hashable for
// the cache and covers every descriptor in this library.
type Params map[string]float64

// Get returns the value for key, or def if the key is absent.
func (p Params) Get(key string, def float64) float64 {
	if p == nil {
		return def
	}
	v, ok := p[key]
	if !ok {
		return def
	}
	return v
}

// hash returns a stable FNV-1a hash of the parameter record. Key order
// does not matter.
func (p Params) hash() uint64 {
	h := fnv.New64a()
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf [8]byte
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p[k]))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Property is the contract every descriptor satisfies: a named, pure
// function from a structure and a parameter record to a fixed-length
// numeric vector. Arity declares the result length for a given parameter
// record and must be constant across structures; the Engine aborts if a
// result doesn't match it.
type Property interface {
	Name() string

	//Arity returns the fixed result length for the given parameters, or
	//a value < 1 if the parameters themselves are invalid.
	Arity(p Params) int

	Calc(s *soprano.Structure, p Params) ([]float64, error)
}

// Batcher is a Property with a batched fast path over many structures at
// once. The batch call must be equivalent to calling Calc per structure;
// it exists so implementations can share setup work and buffers.
type Batcher interface {
	Property
	CalcBatch(ss []*soprano.Structure, p Params) ([][]float64, error)
}

// Aggregator is a Property that is aggregate-only: it produces one result
// for a whole collection instead of one per structure. Aggregate-only
// properties go through Engine.ApplyAggregate and are rejected by
// Engine.Apply.
type Aggregator interface {
	Property
	CalcAggregate(ss []*soprano.Structure, p Params) ([]float64, error)
}

//The registry. It is built by init functions at startup and immutable
//afterwards, so lookups need no locking.

var registry = map[string]Property{}

// Register adds a property to the registry. It is meant to be called from
// init functions only; registering two properties under the same name is a
// programming error and panics.
func Register(p Property) {
	if _, ok := registry[p.Name()]; ok {
		panic(fmt.Sprintf("soprano/properties: property %q registered twice", p.Name()))
	}
	registry[p.Name()] = p
}

// Lookup returns the registered property with the given name.
func Lookup(name string) (Property, error) {
	p, ok := registry[name]
	if !ok {
		return nil, newConfError(fmt.Sprintf("Lookup: no property %q in the registry", name))
	}
	return p, nil
}

// Names returns the names of all registered properties, sorted.
func Names() []string {
	ret := make([]string, 0, len(registry))
	for k := range registry {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
