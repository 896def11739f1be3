/*Package sopranoplot renders the outputs of a phylogenetic analysis: the
2D embedding of a collection (a scatter of structures, colored by flat
cluster) and the dendrogram itself. The plots are guides for the eye over
a lossy projection, not quantitative figures.*/
package sopranoplot

import (
	"fmt"

	"github.com/samueljackson92/soprano/phylogen"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// MapPlot draws the 2D embedding as a scatter plot, one series per flat
// cluster, and saves it to filename (the extension picks the format, e.g.
// .png or .pdf). coords must have at least 2 columns; extra columns are
// ignored. assignment may be nil, in which case every structure is drawn
// as one series.
func MapPlot(coords *mat.Dense, assignment phylogen.Assignment, filename string) error {
	n, dims := coords.Dims()
	if dims < 2 {
		return fmt.Errorf("sopranoplot: need at least 2 embedding dimensions, got %d", dims)
	}
	if assignment == nil {
		assignment = make(phylogen.Assignment, n)
	}
	if len(assignment) != n {
		return fmt.Errorf("sopranoplot: %d assignments for %d structures", len(assignment), n)
	}
	p := plot.New()
	p.Title.Text = "Phylogenetic map"
	p.X.Label.Text = "MDS 1"
	p.Y.Label.Text = "MDS 2"
	p.Add(plotter.NewGrid())
	for c := 0; c < assignment.NClusters(); c++ {
		pts := make(plotter.XYs, 0, n)
		for i := 0; i < n; i++ {
			if assignment[i] != c {
				continue
			}
			pts = append(pts, plotter.XY{X: coords.At(i, 0), Y: coords.At(i, 1)})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(c)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), s)
	}
	return p.Save(4*vg.Inch, 4*vg.Inch, filename)
}

// DendrogramPlot draws the dendrogram as the usual bracket diagram,
// leaves on the x axis in tree order and merge distance on the y axis,
// and saves it to filename.
func DendrogramPlot(t *phylogen.Dendrogram, filename string) error {
	n := t.Len()
	merges := t.Merges()
	//leaf x positions follow the tree order (left subtree first from the
	//root), so brackets never cross
	children := map[int][2]int{}
	for k, m := range merges {
		children[n+k] = [2]int{m.Left, m.Right}
	}
	x := make([]float64, 2*n-1)
	h := make([]float64, 2*n-1)
	for k, m := range merges {
		h[n+k] = m.Distance
	}
	pos := 0
	var walk func(id int)
	walk = func(id int) {
		ch, ok := children[id]
		if !ok {
			x[id] = float64(pos)
			pos++
			return
		}
		walk(ch[0])
		walk(ch[1])
		x[id] = (x[ch[0]] + x[ch[1]]) / 2
	}
	walk(2*n - 2)
	p := plot.New()
	p.Title.Text = "Dendrogram"
	p.X.Label.Text = "structure"
	p.Y.Label.Text = "merge distance"
	for k, m := range merges {
		bracket := plotter.XYs{
			{X: x[m.Left], Y: h[m.Left]},
			{X: x[m.Left], Y: merges[k].Distance},
			{X: x[m.Right], Y: merges[k].Distance},
			{X: x[m.Right], Y: h[m.Right]},
		}
		l, err := plotter.NewLine(bracket)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(0)
		p.Add(l)
	}
	return p.Save(5*vg.Inch, 4*vg.Inch, filename)
}
