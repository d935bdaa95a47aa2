// Package polar estimates a bead's effective polarizability by matching its
// extended multipole self-potential against the attractive branch of its own
// Mie potential. Two independent strategies are provided: a bounded curve fit
// over the distance domain and a closed-form definite-integral match. All
// quantities are nondimensional.
package polar

import (
	"errors"
	"log"
	"math"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/cross"
	"github.com/kmbarrett/beadmix/math/solve"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/multipole"
)

// ErrUnsolvable is returned by SolveIntegral when no polarizability in
// (machine epsilon, 1) lets the integrated multipole potential match the
// integrated Mie potential. This is a fatal property of the bead's inputs,
// not a numerical failure; the orchestrator wraps it with the bead name.
var ErrUnsolvable = errors.New(
	"no polarizability lets the integrated multipole potential match the " +
		"integrated Mie potential")

// Options configures both estimation strategies.
type Options struct {
	// ShapeFactorScale scales the bead's energy parameter by Sk^2 before
	// matching.
	ShapeFactorScale bool
	// VarianceTol is the relative-variance threshold above which CurveFit
	// runs and logs a diagnostic self refit. Zero means the default of 0.05.
	VarianceTol float64
	// Logger receives diagnostic refit messages. Nil silences them.
	Logger *log.Logger
}

const (
	defaultVarianceTol = 0.05
	initialGuess       = 1e-6
)

// CurveFit estimates the polarizability by nonlinear least squares: the
// single free parameter, bounded to [0, inf), is chosen so the multipole
// self-potential reproduces the Mie attractive term over the distance grid.
// It returns the polarizability and the fit's estimated variance.
//
// If the relative variance exceeds the tolerance, a diagnostic refit of the
// bead against itself is computed and the alternative exponent and energy it
// suggests are logged. The returned value is never altered by the diagnostic.
func CurveFit(rs []float64, b bead.Bead, opts Options) (alpha, variance float64) {
	scaled := b
	if opts.ShapeFactorScale && b.HasSk {
		scaled.Epsilon *= b.Sk * b.Sk
	}

	wMie := mie.AttractivePotentials(rs, scaled)

	alpha, variance = solve.FitScalar(len(rs), initialGuess,
		func(a float64, resid, jac []float64) {
			for i, r := range rs {
				resid[i] = multipole.SelfPotential(r, a, scaled) - wMie[i]
				jac[i] = multipole.SelfPotentialDeriv(r, a, scaled)
			}
		})

	tol := opts.VarianceTol
	if tol == 0 {
		tol = defaultVarianceTol
	}
	if alpha > 0 && variance/alpha > tol {
		diagnoseFit(rs, scaled, alpha, opts)
	}

	return alpha, variance
}

// diagnoseFit reruns the cross fit of the bead against itself with the
// estimated polarizability and logs the attractive exponent and energy
// parameter it would suggest instead. Failures here are logged, never
// raised: the originally computed polarizability stands either way.
func diagnoseFit(rs []float64, b bead.Bead, alpha float64, opts Options) {
	if opts.Logger == nil {
		return
	}
	b.SetPolarizability(alpha)
	out, err := cross.Fit(b, b, cross.Options{
		ShapeFactorScale: opts.ShapeFactorScale,
		DistanceArray:    rs,
	})
	if err != nil {
		opts.Logger.Printf(
			"diagnostic self refit with polarizability %g failed: %v",
			alpha, err,
		)
		return
	}
	opts.Logger.Printf(
		"refitting the attractive exponent with estimated polarizability %g "+
			"yields lambdaa %g, epsilon %g",
		alpha, out.LambdaA, out.Epsilon,
	)
}

// SolveIntegral estimates the polarizability by matching the multipole
// self-potential integral from sigma0 to infinity against the Mie
// attractive-term integral, root-finding on (machine epsilon, 1). When the
// objective does not change sign over that bracket the bead is unsolvable
// and ErrUnsolvable is returned.
func SolveIntegral(sigma0 float64, b bead.Bead, opts Options) (float64, error) {
	scaled := b
	if opts.ShapeFactorScale {
		if !b.HasSk {
			return 0, &bead.MissingShapeFactorError{}
		}
		scaled.Epsilon *= b.Sk * b.Sk
	}

	cMie := mie.Integral(sigma0, scaled)

	obj := func(a float64) float64 {
		trial := scaled
		trial.SetPolarizability(a)
		cMulti, _, _ := multipole.Integral(
			sigma0, multipole.CrossTerms(trial, trial),
		)
		return cMulti - cMie
	}

	machEps := math.Nextafter(1, 2) - 1
	alpha, err := solve.Brent(obj, machEps, 1, 1e-12)
	if err != nil {
		return 0, ErrUnsolvable
	}
	return alpha, nil
}
