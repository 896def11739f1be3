/*Package mapping projects distance matrices into low-dimensional
coordinates for visualization, by classical multidimensional scaling
(Torgerson). The projection preserves the large-scale arrangement of the
structures, not their exact distances: it is a lossy visualization aid,
never a metric-preserving transform, and downstream code must not treat
the embedded coordinates as distances.

The whole procedure is an eigendecomposition with a fixed sign convention,
so it is deterministic: no random initialization is involved and repeated
calls on the same matrix return the same coordinates.*/
package mapping

import (
	"fmt"
	"math"

	soprano "github.com/samueljackson92/soprano"
	"github.com/samueljackson92/soprano/genes"
	"gonum.org/v1/gonum/mat"
)

// Error is the concrete error type of the mapping package. It satisfies
// soprano.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("%s", err.message)
}

// Decorate adds the dec string to the decoration slice of strings of the
// error, and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

// Embed computes an ndims-dimensional classical multidimensional scaling
// embedding of the distance matrix: one coordinate row per structure, in
// collection order. ndims is typically 2 or 3 and can't exceed the number
// of structures. Dimensions whose eigenvalue is not positive, up to a
// tolerance relative to the largest one (the matrix doesn't support that
// many Euclidean axes), come out as zero columns rather than failing.
func Embed(dm *genes.DistMatrix, ndims int) (*mat.Dense, error) {
	n := dm.Len()
	if n < 1 {
		return nil, Error{message: "Embed: empty distance matrix", critical: true}
	}
	if ndims < 1 || ndims > n {
		return nil, Error{message: fmt.Sprintf("Embed: can't embed %d structures in %d dimensions", n, ndims), critical: true}
	}
	//double centering: B = -1/2 J D^2 J with J = I - 11'/n
	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	grand := 0.0
	for i := 0; i < n; i++ {
		sq[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v := dm.At(i, j)
			sq[i][j] = v * v
			rowMean[i] += sq[i][j]
		}
		rowMean[i] /= float64(n)
		grand += rowMean[i]
	}
	grand /= float64(n)
	B := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			B.SetSym(i, j, -0.5*(sq[i][j]-rowMean[i]-rowMean[j]+grand))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(B, true); !ok {
		return nil, Error{message: "Embed: eigendecomposition failed", critical: true}
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	//eigenvalues come out ascending; the embedding takes the top ndims.
	//Eigenvalues within roundoff of zero count as zero, relative to the
	//largest one, or degenerate axes leak sqrt-of-noise coordinates.
	tol := 0.0
	if vals[n-1] > 0 {
		tol = vals[n-1] * 1e-12
	}
	coords := mat.NewDense(n, ndims, nil)
	for k := 0; k < ndims; k++ {
		col := n - 1 - k
		if vals[col] <= tol {
			continue //no Euclidean axis left, leave the column at zero
		}
		scale := math.Sqrt(vals[col])
		if vecSign(&vecs, col) < 0 {
			scale = -scale //fixed sign convention, see below
		}
		for i := 0; i < n; i++ {
			coords.Set(i, k, scale*vecs.At(i, col))
		}
	}
	return coords, nil
}

// vecSign returns the sign of the component of largest magnitude of the
// given eigenvector column (the first one on ties). Eigenvectors are only
// defined up to sign; pinning the dominant component positive makes the
// embedding reproducible across runs and platforms.
func vecSign(vecs *mat.Dense, col int) float64 {
	n, _ := vecs.Dims()
	best := 0.0
	sign := 1.0
	for i := 0; i < n; i++ {
		v := vecs.At(i, col)
		a := v
		if a < 0 {
			a = -a
		}
		if a > best {
			best = a
			if v < 0 {
				sign = -1
			} else {
				sign = 1
			}
		}
	}
	return sign
}

// Attach puts the embedded coordinates on the collection as float arrays
// named prefix_0, prefix_1, ... (one per dimension), for downstream
// consumers that move collections around with their analysis results.
func Attach(coll *soprano.Collection, coords *mat.Dense, prefix string) error {
	n, dims := coords.Dims()
	if n != coll.Len() {
		return Error{message: fmt.Sprintf("Attach: %d coordinate rows for %d structures", n, coll.Len()), critical: true}
	}
	col := make([]float64, n)
	for k := 0; k < dims; k++ {
		for i := 0; i < n; i++ {
			col[i] = coords.At(i, k)
		}
		if err := coll.SetFloatArray(fmt.Sprintf("%s_%d", prefix, k), col); err != nil {
			return err
		}
	}
	return nil
}
