/*
 * doc.go, part of soprano.
 *
 * Copyright 2020 Samuel Jackson
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package soprano provides structures and collections of structures for the
analysis of the output of crystal-structure searches and other ensembles of
atomic configurations, plus the periodic-boundary helpers those analyses
need.

The root package holds the structural core: Site, Structure and Collection,
the Generator contract for lazy structure producers, minimum-image distances
for periodic cells, and a couple of concrete generators (linear interpolation
between two extremes and random rattling). Analysis lives in the subpackages:

  - properties: descriptor computation, registry, caching engine
  - genes: descriptors wrapped for clustering (weights, normalization) and
    the composite gene space and distance engine
  - phylogen: agglomerative hierarchical ("phylogenetic") clustering
  - mapping: classical multidimensional scaling of distance matrices
  - sopranoplot: plots of embeddings and dendrograms
  - sopranojson: JSON (optionally zstd-compressed) archives of collections
    and analysis results

Structures handed to the pipeline are never mutated by it; every analysis is
a read-only function of the collection it is given.
*/
package soprano
