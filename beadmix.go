// Package beadmix derives unlike-pair Mie potential parameters for
// coarse-grained beads from their self-interaction Mie parameters and
// electrostatic multipole moments. Cross interactions are obtained by
// matching an extended multipole model against the attractive branch of the
// Mie potential, either by curve fitting or by closed-form integral matching,
// correcting the plain combining rules.
package beadmix

import (
	"fmt"
	"log"
	"math"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/cross"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/polar"
	"github.com/kmbarrett/beadmix/units"
)

// Options configures a full mixing-rule run.
type Options struct {
	// ShapeFactorScale scales energy parameters by the bead shape factors
	// (epsilon*Si*Sj) throughout the run.
	ShapeFactorScale bool
	// Distance configures every fitting-distance domain of the run.
	Distance mie.DomainOptions
	// VarianceTol is the relative-variance threshold of the polarizability
	// curve fit. Zero means the default of 0.05.
	VarianceTol float64
	// Logger receives diagnostic messages. Nil silences them.
	Logger *log.Logger
}

// DefaultOptions returns the documented defaults: no shape-factor scaling,
// rmin lower bound, tol = 0.01, max factor 2.
func DefaultOptions() Options {
	return Options{Distance: mie.DefaultDomainOptions()}
}

// CrossParams holds the fitted Mie parameters for one unordered bead pair,
// in dimensional units.
type CrossParams struct {
	Epsilon float64 // K
	LambdaR float64
	LambdaA float64
}

// CrossInteractions maps beadA -> beadB -> fitted parameters. Each unordered
// pair appears exactly once, under the lexically smaller name.
type CrossInteractions map[string]map[string]CrossParams

// PairSummary is one row of the flat run summary. Energy parameters and
// polarizabilities are dimensional; the integral-term breakdown stays in
// reduced units.
type PairSummary struct {
	BeadA, BeadB string

	EpsilonSAFT float64 // combining-rule energy parameter, K
	KijSAFT     float64
	Epsilon     float64 // fitted energy parameter, K
	Kij         float64
	LambdaR     float64
	LambdaA     float64

	PolarizabilityA float64 // Angstrom^3
	PolarizabilityB float64

	IntegralTerms []float64 // 9-term multipole integral breakdown, reduced
}

// PolarizabilityError reports that a bead's polarizability could not be
// determined, which aborts the whole run: downstream pairs share the bead.
type PolarizabilityError struct {
	Bead string
	Err  error
}

func (e *PolarizabilityError) Error() string {
	return fmt.Sprintf(
		"bead %s cannot fit a suitable polarizability: %v", e.Bead, e.Err,
	)
}

func (e *PolarizabilityError) Unwrap() error { return e.Err }

// FitLibrary runs the curve-fitting path over every unordered pair of beads
// in the library at the given temperature in Kelvin. Each bead's
// polarizability is first determined by the curve-fit strategy; the pair
// parameters then come from the log-linearized cross fit. Returned energy
// parameters are dimensional.
func FitLibrary(
	lib bead.Library, temperature float64, opts Options,
) (CrossInteractions, []PairSummary, error) {
	run, err := newRun(lib, temperature, opts)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range run.names {
		b := run.reduced[name]
		rs := mie.DistanceDomain(b, opts.Distance)
		alpha, _ := polar.CurveFit(rs, b, run.polarOpts())
		if math.IsNaN(alpha) {
			return nil, nil, &PolarizabilityError{name, fmt.Errorf(
				"the attractive exponent is most likely unsuitable given " +
					"the bead partial charges")}
		}
		b.SetPolarizability(alpha)
		run.reduced[name] = b
	}

	return run.pairs(func(a, b bead.Bead) (*pairOut, error) {
		out, err := cross.Fit(a, b, run.crossOpts())
		if err != nil {
			return nil, err
		}
		return &pairOut{
			epsilon: out.Epsilon, lambdaR: out.LambdaR, lambdaA: out.LambdaA,
			epsilonSAFT: out.EpsilonSAFT, kijSAFT: out.KijSAFT, kij: out.Kij,
			integralTerms: out.IntegralTerms,
		}, nil
	})
}

// AnalyticalLibrary runs the integral-matching path over every unordered
// pair of beads in the library at the given temperature in Kelvin. Each
// bead's polarizability comes from the integral strategy; pair energy
// parameters come from the closed-form integral match, with exponents from
// the standard combining rule. Returned energy parameters are dimensional.
func AnalyticalLibrary(
	lib bead.Library, temperature float64, opts Options,
) (CrossInteractions, []PairSummary, error) {
	run, err := newRun(lib, temperature, opts)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range run.names {
		b := run.reduced[name]
		rs := mie.DistanceDomain(b, opts.Distance)
		alpha, err := polar.SolveIntegral(rs[0], b, run.polarOpts())
		if err != nil {
			return nil, nil, &PolarizabilityError{name, err}
		}
		b.SetPolarizability(alpha)
		run.reduced[name] = b
	}

	return run.pairs(func(a, b bead.Bead) (*pairOut, error) {
		out, err := cross.SolveIntegral(a, b, run.crossOpts())
		if err != nil {
			return nil, err
		}
		return &pairOut{
			epsilon: out.Epsilon, lambdaR: out.LambdaR, lambdaA: out.LambdaA,
			epsilonSAFT: out.EpsilonSAFT, kijSAFT: out.KijSAFT, kij: out.Kij,
			integralTerms: out.IntegralTerms,
		}, nil
	})
}

// run carries the shared state of one orchestrated pass.
type run struct {
	opts    Options
	conv    *units.Converter
	names   []string
	reduced bead.Library
}

func newRun(lib bead.Library, temperature float64, opts Options) (*run, error) {
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return nil, err
	}
	return &run{
		opts:    opts,
		conv:    conv,
		names:   lib.Names(),
		reduced: conv.ReduceLibrary(lib),
	}, nil
}

func (r *run) polarOpts() polar.Options {
	return polar.Options{
		ShapeFactorScale: r.opts.ShapeFactorScale,
		VarianceTol:      r.opts.VarianceTol,
		Logger:           r.opts.Logger,
	}
}

func (r *run) crossOpts() cross.Options {
	return cross.Options{
		ShapeFactorScale: r.opts.ShapeFactorScale,
		Distance:         r.opts.Distance,
	}
}

// pairOut is the path-independent slice of a pair solver's output.
type pairOut struct {
	epsilon, lambdaR, lambdaA float64
	epsilonSAFT, kijSAFT, kij float64
	integralTerms             []float64
}

// pairs runs the given solver over every unordered pair, converting boundary
// values back to dimensional units. Solvers receive fresh copies of the
// reduced records.
func (r *run) pairs(
	solvePair func(a, b bead.Bead) (*pairOut, error),
) (CrossInteractions, []PairSummary, error) {
	dict := make(CrossInteractions)
	var summary []PairSummary

	for i, nameA := range r.names {
		for _, nameB := range r.names[i+1:] {
			out, err := solvePair(r.reduced[nameA], r.reduced[nameB])
			if err != nil {
				return nil, nil, fmt.Errorf(
					"pair %s-%s: %w", nameA, nameB, err,
				)
			}

			eps, _ := r.conv.ToPhysical(out.epsilon, units.Energy)
			epsSAFT, _ := r.conv.ToPhysical(out.epsilonSAFT, units.Energy)
			polA, _ := r.conv.ToPhysical(
				r.reduced[nameA].Polarizability, units.Polarizability,
			)
			polB, _ := r.conv.ToPhysical(
				r.reduced[nameB].Polarizability, units.Polarizability,
			)

			if dict[nameA] == nil {
				dict[nameA] = make(map[string]CrossParams)
			}
			dict[nameA][nameB] = CrossParams{
				Epsilon: eps, LambdaR: out.lambdaR, LambdaA: out.lambdaA,
			}
			summary = append(summary, PairSummary{
				BeadA: nameA, BeadB: nameB,
				EpsilonSAFT: epsSAFT, KijSAFT: out.kijSAFT,
				Epsilon: eps, Kij: out.kij,
				LambdaR: out.lambdaR, LambdaA: out.lambdaA,
				PolarizabilityA: polA, PolarizabilityB: polB,
				IntegralTerms:   out.integralTerms,
			})
		}
	}

	return dict, summary, nil
}

// SelfMieFromMultipole refits a single bead's attractive exponent and energy
// parameter against its own multipole potential, working in dimensional
// units at the given temperature. The bead must not yet carry a
// polarizability; it is determined by the curve-fit strategy first.
func SelfMieFromMultipole(
	b bead.Bead, temperature float64, selfOpts cross.SelfOptions, opts Options,
) (bead.Bead, error) {
	if err := b.Validate(); err != nil {
		return bead.Bead{}, err
	}
	conv, err := units.NewConverter(temperature)
	if err != nil {
		return bead.Bead{}, err
	}

	reduced := conv.ReduceBead(b)
	if !reduced.HasPolarizability {
		rs := mie.DistanceDomain(reduced, selfOpts.Distance)
		alpha, _ := polar.CurveFit(rs, reduced, polar.Options{
			ShapeFactorScale: selfOpts.ShapeFactorScale,
			Logger:           opts.Logger,
		})
		if math.IsNaN(alpha) {
			return bead.Bead{}, &PolarizabilityError{"", fmt.Errorf(
				"curve fit did not converge")}
		}
		reduced.SetPolarizability(alpha)
	}

	refit, err := cross.SelfFromMultipole(reduced, selfOpts)
	if err != nil {
		return bead.Bead{}, err
	}
	return conv.RestoreBead(refit), nil
}
