/*Package properties implements the descriptor-computation machinery: the
Property contract (a pure function from a structure and a parameter record
to a fixed-shape numeric result), a name registry of available properties
built at startup, and an Engine that applies a property uniformly over a
collection with per-run caching, configurable failure policy and optional
concurrent evaluation.

A Property must be pure: calling it twice on the same structure with the
same parameters must give the same result, since the Engine caches results
keyed by the structural hash of the structure and a hash of the parameters.
The cache belongs to one Engine, and an Engine is meant to be owned by one
pipeline run; it must not be shared across concurrent runs.*/
package properties
