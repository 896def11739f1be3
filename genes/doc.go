/*Package genes wraps descriptors ("properties") into genes: weighted,
normalized contributions to a composite per-structure feature vector. A
GeneSpace built from a collection and an ordered gene list holds the
composite matrix (one row per structure, columns in gene order) and
computes pairwise distance matrices under Euclidean, Manhattan or cosine
metrics, with wrap-aware handling of angular columns and optional
minimization over symmetry-equivalence permutations.

Normalization statistics (min/max or mean/std) are computed over the whole
collection once per Build call; they are never updated afterwards, so a
GeneSpace is a snapshot. Rebuilding with the same collection and gene list
reproduces the same matrix bit for bit.*/
package genes
