/*Package phylogen implements agglomerative hierarchical ("phylogenetic")
clustering of structure collections over a precomputed distance matrix.

Cluster builds a dendrogram: a list of binary merges, each tagged with the
distance it happened at, using a configurable linkage rule. Ties between
candidate merges at identical distance are broken deterministically in
favor of the pair containing the lower original collection indexes, so a
given distance matrix always produces the same dendrogram. Cut then
extracts a flat partition, either at a target number of clusters or at a
distance threshold (exactly one of the two), assigning cluster ids in
order of first appearance when scanning structures in collection order.
Cutting is a pure function of the dendrogram and the cut parameter: the
same cut always gives the same partition.*/
package phylogen
