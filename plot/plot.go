// Package plot renders the potentials and diagnostics of a mixing-rule run.
// Figures can be drawn through the pyplot bridge (one matplotlib call per
// function, flushed by Execute) or rendered directly to PNG with go-chart.
package plot

import (
	"fmt"
	"io"
	"math"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/multipole"
	"github.com/kmbarrett/beadmix/polar"
	"github.com/kmbarrett/beadmix/units"
)

// termLabels matches the 9-element coefficient order of package multipole.
var termLabels = []string{
	"q-mu", "q-mu_ind", "mu_ind-mu_ind", "mu-mu", "mu-mu_ind",
	"q-Q", "mu-Q", "mu_ind-Q", "Q-Q",
}

var condensedLabels = []string{"O(-4)", "O(-6)", "O(-8)", "O(-10)"}

// Execute flushes all queued pyplot figures to matplotlib.
func Execute() { plt.Execute() }

// MultipolePotential queues a figure of the total multipole potential over
// the grid, with one curve per coefficient, through the pyplot bridge. The
// figure is saved to fname, or shown interactively when fname is empty.
func MultipolePotential(rs, terms []float64, fname string) error {
	total := make([]float64, len(rs))
	perTerm := make([][]float64, len(terms))
	for j := range perTerm {
		perTerm[j] = make([]float64, len(rs))
	}
	for i, r := range rs {
		vals, err := multipole.PotentialTerms(r, terms)
		if err != nil {
			return err
		}
		for j, v := range vals {
			perTerm[j][i] = v
			total[i] += v
		}
	}

	plt.Reset()
	plt.Plot(rs, total, "k", plt.LW(2))
	for j := range perTerm {
		plt.Plot(rs, perTerm[j], plt.LW(1))
	}
	plt.XLabel("Dimensionless Distance")
	plt.YLabel("Dimensionless Potential")
	plt.Grid(plt.Axis("y"))
	if fname == "" {
		plt.Show()
	} else {
		plt.SaveFig(fname)
	}
	return nil
}

// SelfDeviation queues a figure of the absolute deviation between a bead's
// Mie attractive term and its fitted multipole self-potential. The bead is
// dimensional; the deviation axis is in Kelvin.
func SelfDeviation(
	b bead.Bead, temperature float64, opts mie.DomainOptions,
	polarOpts polar.Options, fname string,
) error {
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return err
	}
	r := conv.ReduceBead(b)
	rs := mie.DistanceDomain(r, opts)

	alpha, _ := polar.CurveFit(rs, r, polarOpts)
	if math.IsNaN(alpha) {
		return fmt.Errorf("polarizability curve fit did not converge")
	}

	xs := make([]float64, len(rs))
	devs := make([]float64, len(rs))
	for i, x := range rs {
		mieV := mie.AttractivePotential(x, r)
		multiV := multipole.SelfPotential(x, alpha, r)
		dev, _ := conv.ToPhysical(mieV-multiV, units.Energy)
		dim, _ := conv.ToPhysical(x, units.Size)
		xs[i], devs[i] = dim, math.Abs(dev)
	}

	plt.Reset()
	plt.Plot(xs, devs, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("polarizability = %.4g A^3", mustPhysical(
		conv, alpha, units.Polarizability)))
	plt.XLabel("r [A]")
	plt.YLabel("|V_Mie - V_multipole| / k_B [K]")
	plt.Grid(plt.Axis("y"))
	if fname == "" {
		plt.Show()
	} else {
		plt.SaveFig(fname)
	}
	return nil
}

// CrossDeviation queues a figure of the absolute deviation between the
// combining-rule Mie attractive term of a pair and the pair's multipole
// potential. Both beads are dimensional and must not yet carry
// polarizabilities; the curve-fit strategy supplies them.
func CrossDeviation(
	a, b bead.Bead, temperature float64, opts mie.DomainOptions,
	polarOpts polar.Options, fname string,
) error {
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return err
	}
	ra, rb := conv.ReduceBead(a), conv.ReduceBead(b)
	for _, r := range []*bead.Bead{&ra, &rb} {
		alpha, _ := polar.CurveFit(mie.DistanceDomain(*r, opts), *r, polarOpts)
		if math.IsNaN(alpha) {
			return fmt.Errorf("polarizability curve fit did not converge")
		}
		r.SetPolarizability(alpha)
	}

	mixed := mie.Mixed(ra, rb)
	rs := mie.DistanceDomain(mixed, opts)
	terms := multipole.CrossTerms(ra, rb)

	xs := make([]float64, len(rs))
	devs := make([]float64, len(rs))
	for i, x := range rs {
		multiV, err := multipole.Potential(x, terms)
		if err != nil {
			return err
		}
		dev, _ := conv.ToPhysical(
			mie.AttractivePotential(x, mixed)-multiV, units.Energy,
		)
		dim, _ := conv.ToPhysical(x, units.Size)
		xs[i], devs[i] = dim, math.Abs(dev)
	}

	plt.Reset()
	plt.Plot(xs, devs, "k", plt.LW(2))
	plt.XLabel("r [A]")
	plt.YLabel("|V_Mie - V_multipole| / k_B [K]")
	plt.Grid(plt.Axis("y"))
	if fname == "" {
		plt.Show()
	} else {
		plt.SaveFig(fname)
	}
	return nil
}

// IntegralDifference queues a figure of the mismatch between the Mie and
// multipole integrals of a pair as a function of the domain upper bound, one
// curve per lower-bound mode. Both beads are dimensional and must not yet
// carry polarizabilities.
func IntegralDifference(
	a, b bead.Bead, temperature float64, lowerBounds []mie.LowerBound,
	maxFactors []float64, polarOpts polar.Options, fname string,
) error {
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return err
	}
	ra, rb := conv.ReduceBead(a), conv.ReduceBead(b)
	for _, r := range []*bead.Bead{&ra, &rb} {
		rs := mie.DistanceDomain(*r, mie.DefaultDomainOptions())
		alpha, err := polar.SolveIntegral(rs[0], *r, polarOpts)
		if err != nil {
			return err
		}
		r.SetPolarizability(alpha)
	}

	mixed := mie.Mixed(ra, rb)
	terms := multipole.CrossTerms(ra, rb)

	plt.Reset()
	for _, lb := range lowerBounds {
		diffs := make([]float64, len(maxFactors))
		for i, mf := range maxFactors {
			opts := mie.DomainOptions{LowerBound: lb, Tol: 0.01, MaxFactor: mf}
			rs := mie.DistanceDomain(mixed, opts)
			cMulti, _, err := multipole.Integral(rs[0], terms)
			if err != nil {
				return err
			}
			diff, _ := conv.ToPhysical(
				mie.Integral(rs[0], mixed)-cMulti, units.Energy,
			)
			diffs[i] = math.Abs(diff)
		}
		plt.Plot(maxFactors, diffs, plt.LW(2))
	}
	plt.XLabel("Domain Upper Bound Factor")
	plt.YLabel("|Mie - Multipole| Integral / k_B [K]")
	plt.Grid(plt.Axis("y"))
	if fname == "" {
		plt.Show()
	} else {
		plt.SaveFig(fname)
	}
	return nil
}

func mustPhysical(conv *units.Converter, x float64, kind units.Kind) float64 {
	out, _ := conv.ToPhysical(x, kind)
	return out
}

// PotentialPNG renders the multipole potential decomposition as a PNG
// without a matplotlib dependency. terms may be the 4- or 9-element
// coefficient vector.
func PotentialPNG(w io.Writer, rs, terms []float64) error {
	labels := termLabels
	if len(terms) == multipole.Condensed {
		labels = condensedLabels
	}

	total := make([]float64, len(rs))
	perTerm := make([][]float64, len(terms))
	for j := range perTerm {
		perTerm[j] = make([]float64, len(rs))
	}
	for i, r := range rs {
		vals, err := multipole.PotentialTerms(r, terms)
		if err != nil {
			return err
		}
		for j, v := range vals {
			perTerm[j][i] = v
			total[i] += v
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Total",
			XValues: rs,
			YValues: total,
			Style:   chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 2},
		},
	}
	for j := range perTerm {
		series = append(series, chart.ContinuousSeries{
			Name:    labels[j],
			XValues: rs,
			YValues: perTerm[j],
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(j)},
		})
	}

	graph := chart.Chart{
		XAxis:  chart.XAxis{Name: "Dimensionless Distance"},
		YAxis:  chart.YAxis{Name: "Dimensionless Potential"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}
