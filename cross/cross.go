// Package cross derives unlike-pair Mie parameters for a bead pair from the
// pair's multipole coefficients. Two independent strategies are implemented:
// a log-linearized least-squares fit of the attractive branch, and a
// closed-form integral match. All inputs and outputs are nondimensional.
package cross

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kmbarrett/beadmix/bead"
	"github.com/kmbarrett/beadmix/math/solve"
	"github.com/kmbarrett/beadmix/mie"
	"github.com/kmbarrett/beadmix/multipole"
)

// Options configures both pair solvers.
type Options struct {
	// ShapeFactorScale folds epsilon*SkA*SkB scaling into the potentials.
	ShapeFactorScale bool
	// Distance configures the fitting grid built from the mixed parameters.
	Distance mie.DomainOptions
	// DistanceArray, if non-nil, is used instead of building a grid.
	DistanceArray []float64
}

// DefaultOptions returns Options with the documented domain defaults.
func DefaultOptions() Options {
	return Options{Distance: mie.DefaultDomainOptions()}
}

// InfeasibleExponentError reports a fitted prefactor ratio K/epsilon below
// 1.01, for which no repulsive exponent satisfies the Mie prefactor relation.
// This is a property of the pair's physical inputs, most commonly a partial
// charge assigned to a bead whose Mie fit implies the dipole should be the
// highest-order multipole.
type InfeasibleExponentError struct {
	Epsilon, LambdaA, Ratio float64
}

func (e *InfeasibleExponentError) Error() string {
	return fmt.Sprintf(
		"no suitable repulsive exponent for cross parameters "+
			"epsilon = %g, lambdaa = %g: prefactor ratio %g < 1.01 "+
			"(check the self-interaction parameters; a common cause is a "+
			"partial charge on a bead whose Mie fit expects dipole to be "+
			"the highest-order multipole)",
		e.Epsilon, e.LambdaA, e.Ratio,
	)
}

// FitResult holds the outcome of the nonlinear fitting path for one pair.
type FitResult struct {
	Epsilon float64 // fitted cross energy parameter
	LambdaA float64 // fitted attractive exponent
	LambdaR float64 // repulsive exponent recovered from the prefactor ratio

	EpsilonSAFT float64 // combining-rule energy parameter (SAFT form)
	KijSAFT     float64 // 1 - EpsilonSAFT/epsilon_mix
	Kij         float64 // 1 - Epsilon/epsilon_mix

	VarianceK       float64 // estimated variance of the fitted prefactor
	VarianceLambdaA float64 // estimated variance of the fitted exponent

	// IntegralTerms is the 9-term integral breakdown evaluated at the fitted
	// parameters. Purely diagnostic; the fitted values above do not depend
	// on it.
	IntegralTerms []float64
}

// IntegralResult holds the outcome of the analytical path for one pair. The
// exponents follow the standard combining rule and are reported for
// completeness.
type IntegralResult struct {
	Epsilon float64
	LambdaA float64
	LambdaR float64

	EpsilonSAFT float64
	KijSAFT     float64
	Kij         float64

	IntegralTerms []float64
}

// Fit computes cross-interaction Mie parameters for a bead pair by fitting
// log(K) + lambdaa*log(sigma/r) to the logarithm of the negated multipole
// potential over the pair's distance domain, then recovering epsilon and
// lambdar from the combining-rule inversions. Both beads must carry a
// polarizability.
func Fit(a, b bead.Bead, opts Options) (*FitResult, error) {
	if opts.ShapeFactorScale {
		// The fitting path tolerates a missing shape factor by assuming 1.
		if !a.HasSk {
			a.SetSk(1.0)
		}
		if !b.HasSk {
			b.SetSk(1.0)
		}
	}

	mixed := mie.Mixed(a, b)
	terms := multipole.CrossTerms(a, b)

	rs := opts.DistanceArray
	if rs == nil {
		rs = mie.DistanceDomain(mixed, opts.Distance)
	}
	w, err := multipole.Potentials(rs, terms)
	if err != nil {
		return nil, err
	}

	logS := 0.0
	if opts.ShapeFactorScale {
		logS = math.Log(a.Sk * b.Sk)
	}

	k, lamA, varK, varLamA, err := fitLogAttractive(rs, w, mixed.Sigma, logS)
	if err != nil {
		return nil, err
	}

	epsFit := mie.EpsilonFromLambdaA(lamA, a, b)
	ratio := k / epsFit
	if ratio < 1.01 {
		return nil, &InfeasibleExponentError{epsFit, lamA, ratio}
	}
	lamR, err := mie.LambdaRFromPrefactorRatio(lamA, ratio)
	if err != nil {
		return nil, err
	}

	out := &FitResult{
		Epsilon:         epsFit,
		LambdaA:         lamA,
		LambdaR:         lamR,
		EpsilonSAFT:     saftEpsilon(a, b, mixed),
		VarianceK:       varK,
		VarianceLambdaA: varLamA,
	}
	out.KijSAFT = 1 - out.EpsilonSAFT/mixed.Epsilon
	out.Kij = 1 - out.Epsilon/mixed.Epsilon

	// Diagnostic integral breakdown at the fitted parameters.
	fitted := bead.Bead{
		Epsilon: epsFit, Sigma: mixed.Sigma, LambdaR: lamR, LambdaA: lamA,
	}
	_, intTerms, err := solveIntegral(rs[0], a, b, terms, fitted, opts.ShapeFactorScale)
	if err != nil {
		return nil, err
	}
	out.IntegralTerms = intTerms

	return out, nil
}

// SolveIntegral computes the cross energy parameter for a bead pair by
// matching the closed-form multipole integral against the Mie attractive
// integral at the combining-rule exponents. Both beads must carry a
// polarizability.
func SolveIntegral(a, b bead.Bead, opts Options) (*IntegralResult, error) {
	if opts.ShapeFactorScale {
		if !a.HasSk {
			return nil, &bead.MissingShapeFactorError{}
		}
		if !b.HasSk {
			return nil, &bead.MissingShapeFactorError{}
		}
	}

	mixed := mie.Mixed(a, b)
	rs := opts.DistanceArray
	if rs == nil {
		rs = mie.DistanceDomain(mixed, opts.Distance)
	}

	eps, intTerms, err := solveIntegral(
		rs[0], a, b, nil, mixed, opts.ShapeFactorScale,
	)
	if err != nil {
		return nil, err
	}

	out := &IntegralResult{
		Epsilon:       eps,
		LambdaA:       mixed.LambdaA,
		LambdaR:       mixed.LambdaR,
		EpsilonSAFT:   saftEpsilon(a, b, mixed),
		IntegralTerms: intTerms,
	}
	out.KijSAFT = 1 - out.EpsilonSAFT/mixed.Epsilon
	out.Kij = 1 - eps/mixed.Epsilon

	return out, nil
}

// solveIntegral root-finds the energy parameter in
// [mixed.Epsilon/20, 2*mixed.Epsilon] such that the Mie integral from sigma0,
// rescaled to the trial epsilon, matches the multipole integral. terms may be
// nil, in which case the 9-term coefficients are computed from the beads.
func solveIntegral(
	sigma0 float64, a, b bead.Bead, terms []float64, mixed bead.Bead,
	shapeFactorScale bool,
) (float64, []float64, error) {
	if terms == nil {
		terms = multipole.CrossTerms(a, b)
	}
	cMulti, intTerms, err := multipole.Integral(sigma0, terms)
	if err != nil {
		return 0, nil, err
	}

	cMie := mie.Integral(sigma0, mixed)
	if shapeFactorScale {
		cMie *= a.EffectiveSk() * b.EffectiveSk()
	}

	// The objective is linear in the trial epsilon, but the bracket check is
	// part of the contract: a root outside it means the integral match is not
	// physically meaningful for this pair.
	eps, err := brentEpsilon(mixed.Epsilon, func(eps0 float64) float64 {
		return eps0*cMie/mixed.Epsilon - cMulti
	})
	if err != nil {
		return 0, nil, err
	}
	return eps, intTerms, nil
}

// brentEpsilon brackets the energy-parameter root between a twentieth of and
// twice the combining-rule value.
func brentEpsilon(epsMix float64, f func(float64) float64) (float64, error) {
	return solve.Brent(f, epsMix/20, epsMix*2, 1e-12)
}

func saftEpsilon(a, b, mixed bead.Bead) float64 {
	return mixed.Epsilon *
		math.Sqrt(math.Pow(a.Sigma, 3)*math.Pow(b.Sigma, 3)) /
		math.Pow(mixed.Sigma, 3)
}

// fitLogAttractive solves the least-squares problem
// y_i = (log K + logS) + lambdaa * log(sigma/r_i), y_i = log(-w_i),
// and returns K, lambdaa, and their estimated variances. The model is linear
// in (log K, lambdaa), so the global optimum of the nonlinear problem is
// recovered exactly by a QR solve. lambdaa is bounded to [0, inf): a negative
// unconstrained slope lands on the boundary.
func fitLogAttractive(
	rs, w []float64, sigma, logS float64,
) (k, lamA, varK, varLamA float64, err error) {
	n := len(rs)
	A := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := range rs {
		if w[i] >= 0 {
			return 0, 0, 0, 0, fmt.Errorf(
				"multipole potential is nonnegative (%g) at r = %g: "+
					"nothing to fit the attractive branch against",
				w[i], rs[i],
			)
		}
		A.Set(i, 0, 1)
		A.Set(i, 1, math.Log(sigma/rs[i]))
		y.SetVec(i, math.Log(-w[i]))
	}

	var qr mat.QR
	qr.Factorize(A)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, y); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("log-attractive fit failed: %v", err)
	}

	intercept, slope := sol.AtVec(0), sol.AtVec(1)
	if slope < 0 {
		// The exponent is bounded below at zero. When the bound is active
		// the intercept refits alone, to the mean of the observations.
		slope = 0
		intercept = 0
		for i := range rs {
			intercept += y.AtVec(i)
		}
		intercept /= float64(n)
	}
	k = math.Exp(intercept - logS)
	lamA = slope

	// Residual variance and the diagonal of s^2 (A^T A)^-1, with the K
	// variance mapped out of log space.
	ssr := 0.0
	for i := range rs {
		r := y.AtVec(i) - (intercept + slope*A.At(i, 1))
		ssr += r * r
	}
	s2 := ssr / float64(n-2)

	s00, s01, s11 := float64(n), 0.0, 0.0
	for i := range rs {
		x := A.At(i, 1)
		s01 += x
		s11 += x * x
	}
	det := s00*s11 - s01*s01
	varIntercept := s2 * s11 / det
	varLamA = s2 * s00 / det
	varK = varIntercept * k * k

	return k, lamA, varK, varLamA, nil
}
